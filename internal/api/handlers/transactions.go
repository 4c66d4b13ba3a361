package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/api/middleware"
	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/ledger"
)

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	provider LedgerFunc
	log      zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(provider LedgerFunc, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{provider: provider, log: log}
}

// List handles GET /api/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	page, err := svc.ListTransactions(r.Context(), filter)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, page)
}

// Get handles GET /api/transactions/{id}
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	tx, err := svc.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tx)
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var tx domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	created, err := svc.CreateTransaction(r.Context(), &tx)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/transactions/{id}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var tx domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	updated, err := svc.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), &tx)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	deleted, err := svc.DeleteTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, deleted)
}

// parseTransactionFilter validates the raw query parameters into the typed
// filter, so the query builder only ever sees well-formed predicates.
func parseTransactionFilter(r *http.Request) (ledger.TransactionFilter, error) {
	q := r.URL.Query()
	filter := ledger.TransactionFilter{
		CategoryID: q.Get("categoryId"),
		PayeeID:    q.Get("payeeId"),
		AccountID:  q.Get("accountId"),
		Comment:    q.Get("comment"),
	}

	for name, dst := range map[string]*string{
		"dateFrom": &filter.DateFrom,
		"dateTo":   &filter.DateTo,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		if _, err := time.Parse(domain.DateFormat, raw); err != nil {
			return filter, &filterError{name + " must be a YYYY-MM-DD date"}
		}
		*dst = raw
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, &filterError{"limit must be a non-negative integer"}
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, &filterError{"offset must be a non-negative integer"}
		}
		filter.Offset = n
	}

	return filter, nil
}

type filterError struct{ msg string }

func (e *filterError) Error() string { return e.msg }
