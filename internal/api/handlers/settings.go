package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/api/middleware"
	"github.com/ledgersheet/ledgersheet/internal/auth"
	"github.com/ledgersheet/ledgersheet/internal/session"
)

// SettingsHandler exposes the user's profile and their ledger document
// binding.
type SettingsHandler struct {
	sessions *session.Store
	log      zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(sessions *session.Store, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{sessions: sessions, log: log}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"email":         user.Email,
		"name":          user.Name,
		"spreadsheetId": user.SpreadsheetID,
	})
}

// Update handles PUT /api/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		SpreadsheetID string `json:"spreadsheetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.SpreadsheetID = strings.TrimSpace(req.SpreadsheetID)
	if req.SpreadsheetID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "spreadsheetId is required")
		return
	}

	if err := h.sessions.SetSpreadsheetID(r.Context(), user.ID, req.SpreadsheetID); err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to set spreadsheet id")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"spreadsheetId": req.SpreadsheetID,
	})
}
