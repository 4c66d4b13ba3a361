package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/api/middleware"
	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/ledger"
)

// LedgerFunc builds the ledger service bound to the request's user.
type LedgerFunc func(r *http.Request) (*ledger.Service, error)

// AccountsHandler handles account endpoints.
type AccountsHandler struct {
	provider LedgerFunc
	log      zerolog.Logger
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(provider LedgerFunc, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{provider: provider, log: log}
}

// List handles GET /api/accounts
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	accounts, err := svc.ListAccounts(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	middleware.WriteJSON(w, http.StatusOK, accounts)
}

// Balances handles GET /api/accounts/balances
func (h *AccountsHandler) Balances(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	balances, err := svc.AccountBalances(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, balances)
}

// Get handles GET /api/accounts/{id}
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	account, err := svc.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, account)
}

// Create handles POST /api/accounts
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var account domain.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	created, err := svc.CreateAccount(r.Context(), &account)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/accounts/{id}
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var account domain.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	updated, err := svc.UpdateAccount(r.Context(), chi.URLParam(r, "id"), &account)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/accounts/{id}
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	deleted, err := svc.DeleteAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, deleted)
}
