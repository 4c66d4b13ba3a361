package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ledgersheet/ledgersheet/internal/ledger"
	"github.com/ledgersheet/ledgersheet/internal/logger"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// cannedStore answers every query with the same table.
type cannedStore struct {
	table *sheetdb.Table
}

func (c *cannedStore) Query(context.Context, string, string, string) (*sheetdb.Table, error) {
	if c.table == nil {
		return &sheetdb.Table{}, nil
	}
	return c.table, nil
}

func (c *cannedStore) AppendRow(context.Context, string, string, []interface{}) error { return nil }

func (c *cannedStore) UpdateRow(context.Context, string, string, int64, []interface{}) error {
	return nil
}

func (c *cannedStore) DeleteRow(context.Context, string, string, int64) error { return nil }

func withURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func providerFor(store sheetdb.Store) LedgerFunc {
	return func(*http.Request) (*ledger.Service, error) {
		return ledger.NewService(store, "spreadsheet-1", logger.NewWithWriter(io.Discard)), nil
	}
}

func TestAccountsList(t *testing.T) {
	store := &cannedStore{table: &sheetdb.Table{Rows: []sheetdb.Row{
		{Cells: []interface{}{2.0, "acc-1", "Card", "EUR", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z"}},
	}}}
	h := NewAccountsHandler(providerFor(store), logger.NewWithWriter(io.Discard))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/accounts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"id":"acc-1"`) || !strings.Contains(body, `"currencyCode":"EUR"`) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestAccountsListEmpty(t *testing.T) {
	h := NewAccountsHandler(providerFor(&cannedStore{}), logger.NewWithWriter(io.Discard))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/accounts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want an empty JSON array", got)
	}
}

func TestAccountsGetMissing(t *testing.T) {
	h := NewAccountsHandler(providerFor(&cannedStore{}), logger.NewWithWriter(io.Discard))

	r := httptest.NewRequest("GET", "/api/accounts/missing", nil)
	r = withURLParam(r, "id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAccountsCreateInvalidBody(t *testing.T) {
	h := NewAccountsHandler(providerFor(&cannedStore{}), logger.NewWithWriter(io.Discard))

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest("POST", "/api/accounts", strings.NewReader("{")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAccountsCreateInvalidPayload(t *testing.T) {
	h := NewAccountsHandler(providerFor(&cannedStore{}), logger.NewWithWriter(io.Discard))

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest("POST", "/api/accounts", strings.NewReader(`{"title":""}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "validation failed") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
