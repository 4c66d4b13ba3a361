package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/api/middleware"
	"github.com/ledgersheet/ledgersheet/internal/domain"
)

// PayeesHandler handles payee endpoints.
type PayeesHandler struct {
	provider LedgerFunc
	log      zerolog.Logger
}

// NewPayeesHandler creates a new payees handler.
func NewPayeesHandler(provider LedgerFunc, log zerolog.Logger) *PayeesHandler {
	return &PayeesHandler{provider: provider, log: log}
}

// List handles GET /api/payees
func (h *PayeesHandler) List(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	payees, err := svc.ListPayees(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if payees == nil {
		payees = []*domain.Payee{}
	}
	middleware.WriteJSON(w, http.StatusOK, payees)
}

// Debts handles GET /api/payees/debts
func (h *PayeesHandler) Debts(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	debts, err := svc.PayeeDebts(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, debts)
}

// Get handles GET /api/payees/{id}
func (h *PayeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	payee, err := svc.GetPayee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, payee)
}

// Create handles POST /api/payees
func (h *PayeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payee domain.Payee
	if err := json.NewDecoder(r.Body).Decode(&payee); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	created, err := svc.CreatePayee(r.Context(), &payee)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/payees/{id}
func (h *PayeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payee domain.Payee
	if err := json.NewDecoder(r.Body).Decode(&payee); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	updated, err := svc.UpdatePayee(r.Context(), chi.URLParam(r, "id"), &payee)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/payees/{id}
func (h *PayeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	deleted, err := svc.DeletePayee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, deleted)
}
