package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/api/middleware"
	"github.com/ledgersheet/ledgersheet/internal/domain"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	provider LedgerFunc
	log      zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(provider LedgerFunc, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{provider: provider, log: log}
}

// List handles GET /api/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	categories, err := svc.ListCategories(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	middleware.WriteJSON(w, http.StatusOK, categories)
}

// Get handles GET /api/categories/{id}
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	category, err := svc.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, category)
}

// Create handles POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	created, err := svc.CreateCategory(r.Context(), &category)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/categories/{id}
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	updated, err := svc.UpdateCategory(r.Context(), chi.URLParam(r, "id"), &category)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	svc, err := h.provider(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	deleted, err := svc.DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, deleted)
}
