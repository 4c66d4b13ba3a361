package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ledgersheet/ledgersheet/internal/ledger"
)

func TestParseTransactionFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    ledger.TransactionFilter
		wantErr bool
	}{
		{
			name:  "empty",
			query: "",
			want:  ledger.TransactionFilter{},
		},
		{
			name:  "full",
			query: "dateFrom=2024-01-01&dateTo=2024-12-31&categoryId=c1&payeeId=p1&accountId=a1&comment=rent&limit=10&offset=20",
			want: ledger.TransactionFilter{
				Limit:      10,
				Offset:     20,
				DateFrom:   "2024-01-01",
				DateTo:     "2024-12-31",
				CategoryID: "c1",
				PayeeID:    "p1",
				AccountID:  "a1",
				Comment:    "rent",
			},
		},
		{
			name:    "malformed date",
			query:   "dateFrom=01.02.2024",
			wantErr: true,
		},
		{
			name:    "date with junk",
			query:   "dateTo=2024-01-01%22%20or%20true",
			wantErr: true,
		},
		{
			name:    "negative limit",
			query:   "limit=-1",
			wantErr: true,
		},
		{
			name:    "non-numeric offset",
			query:   "offset=abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/transactions?"+tt.query, nil)
			got, err := parseTransactionFilter(r)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTransactionFilter failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
