package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/api/middleware"
	"github.com/ledgersheet/ledgersheet/internal/entity"
)

// ErrNoSpreadsheet is returned by the ledger provider when the user has not
// configured their ledger document yet.
var ErrNoSpreadsheet = errors.New("no ledger document configured")

// respondError maps a core error to its HTTP status and body. The core only
// classifies errors; this is the single place that turns kinds into codes.
func respondError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}

	var cerr *entity.ConflictError
	if errors.As(err, &cerr) {
		middleware.WriteError(w, http.StatusConflict, cerr.Message)
		return
	}

	switch {
	case errors.Is(err, entity.ErrIDRequired):
		middleware.WriteError(w, http.StatusBadRequest, "id is required")
	case errors.Is(err, entity.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrNoSpreadsheet):
		middleware.WriteError(w, http.StatusConflict, "no ledger document configured")
	case entity.IsInconsistency(err):
		log.Error().Err(err).Msg("Ledger document inconsistency")
		middleware.WriteError(w, http.StatusBadGateway, "ledger document is inconsistent")
	default:
		log.Error().Err(err).Msg("Request failed")
		middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
