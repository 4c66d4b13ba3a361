package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ledgersheet/ledgersheet/internal/entity"
	"github.com/ledgersheet/ledgersheet/internal/logger"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation",
			err:        entity.NewValidationError().Add("title", "title is required").OrNil(),
			wantStatus: 400,
		},
		{
			name:       "conflict",
			err:        entity.Conflictf("account %s is referenced by transactions", "acc-1"),
			wantStatus: 409,
		},
		{
			name:       "id required",
			err:        entity.ErrIDRequired,
			wantStatus: 400,
		},
		{
			name:       "not found wrapped",
			err:        fmt.Errorf("accounts acc-1: %w", entity.ErrNotFound),
			wantStatus: 404,
		},
		{
			name:       "no spreadsheet",
			err:        ErrNoSpreadsheet,
			wantStatus: 409,
		},
		{
			name:       "not created",
			err:        fmt.Errorf("creating accounts: %w", entity.ErrNotCreated),
			wantStatus: 502,
		},
		{
			name:       "row number lost",
			err:        entity.ErrRowNumberNotFound,
			wantStatus: 502,
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantStatus: 500,
		},
	}

	log := logger.NewWithWriter(io.Discard)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, log, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestRespondErrorValidationBody(t *testing.T) {
	rec := httptest.NewRecorder()
	err := entity.NewValidationError().
		Add("title", "title is required").
		Add("currencyCode", "currencyCode is required").
		OrNil()
	respondError(rec, logger.NewWithWriter(io.Discard), err)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error != "validation failed" {
		t.Errorf("error = %q", body.Error)
	}
	if body.Fields["title"] == "" || body.Fields["currencyCode"] == "" {
		t.Errorf("fields = %v, want both defects reported", body.Fields)
	}
}
