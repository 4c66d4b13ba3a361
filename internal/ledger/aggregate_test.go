package ledger

import (
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/logger"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// stubStore answers queries from a canned table map keyed on
// "sheet|query" and records every call. Unknown queries come back empty.
type stubStore struct {
	tables map[string]*sheetdb.Table

	queries []string
	appends int
	updates int
	deletes []int64
}

func (s *stubStore) Query(_ context.Context, _, sheetName, query string) (*sheetdb.Table, error) {
	s.queries = append(s.queries, sheetName+"|"+query)
	if t, ok := s.tables[sheetName+"|"+query]; ok {
		return t, nil
	}
	return &sheetdb.Table{}, nil
}

func (s *stubStore) AppendRow(_ context.Context, _, _ string, _ []interface{}) error {
	s.appends++
	return nil
}

func (s *stubStore) UpdateRow(_ context.Context, _, _ string, _ int64, _ []interface{}) error {
	s.updates++
	return nil
}

func (s *stubStore) DeleteRow(_ context.Context, _, _ string, rowIndex int64) error {
	s.deletes = append(s.deletes, rowIndex)
	return nil
}

func newTestService(store *stubStore) *Service {
	return NewService(store, "spreadsheet-1", logger.NewWithWriter(io.Discard))
}

func sumRow(key string, sum float64) sheetdb.Row {
	return sheetdb.Row{Cells: []interface{}{key, sum}}
}

func TestBalancesFor(t *testing.T) {
	// Three transactions: 30 out of acc-a, 10 into acc-b, 5 into acc-a.
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Transactions|select G, sum(H) where (G = "acc-a" or G = "acc-b") group by G`: {
			Rows: []sheetdb.Row{sumRow("acc-a", 30)},
		},
		`Transactions|select I, sum(J) where (I = "acc-a" or I = "acc-b") group by I`: {
			Rows: []sheetdb.Row{sumRow("acc-b", 10), sumRow("acc-a", 5), sumRow("", 999)},
		},
	}}
	svc := newTestService(store)

	balances, err := svc.BalancesFor(context.Background(), []string{"acc-a", "acc-b"})
	if err != nil {
		t.Fatalf("BalancesFor failed: %v", err)
	}

	want := []domain.Balance{
		{AccountID: "acc-a", Balance: -25.00},
		{AccountID: "acc-b", Balance: 10.00},
	}
	if diff := cmp.Diff(want, balances); diff != "" {
		t.Errorf("balances mismatch (-want +got):\n%s", diff)
	}
}

func TestBalancesForAbsentAccount(t *testing.T) {
	// An account with no transactions on either side balances to zero.
	store := &stubStore{}
	svc := newTestService(store)

	balances, err := svc.BalancesFor(context.Background(), []string{"acc-idle"})
	if err != nil {
		t.Fatalf("BalancesFor failed: %v", err)
	}
	if len(balances) != 1 || balances[0].Balance != 0 {
		t.Errorf("balances = %+v, want one zero balance", balances)
	}
}

func TestBalancesForEmpty(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)

	balances, err := svc.BalancesFor(context.Background(), nil)
	if err != nil {
		t.Fatalf("BalancesFor failed: %v", err)
	}
	if balances == nil || len(balances) != 0 {
		t.Errorf("balances = %#v, want an empty non-nil slice", balances)
	}
	if len(store.queries) != 0 {
		t.Errorf("expected no queries for an empty candidate list, got %v", store.queries)
	}
}

func TestAccountBalances(t *testing.T) {
	// The candidate list comes from the account table, minus the reserved
	// Debt row.
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Accounts|select * where B != "debt"`: {
			Rows: []sheetdb.Row{
				{Cells: []interface{}{2.0, "acc-a", "Card", "EUR", "", ""}},
			},
		},
		`Transactions|select G, sum(H) where (G = "acc-a") group by G`: {
			Rows: []sheetdb.Row{sumRow("acc-a", 12.345)},
		},
	}}
	svc := newTestService(store)

	balances, err := svc.AccountBalances(context.Background())
	if err != nil {
		t.Fatalf("AccountBalances failed: %v", err)
	}

	want := []domain.Balance{{AccountID: "acc-a", Balance: -12.35}}
	if diff := cmp.Diff(want, balances); diff != "" {
		t.Errorf("balances mismatch (-want +got):\n%s", diff)
	}
}

func TestDebtsFor(t *testing.T) {
	// p1 was lent 100 and paid back 40; p2 lent us 15.
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Transactions|select E, sum(H) where I = "debt" and (E = "p1" or E = "p2") group by E`: {
			Rows: []sheetdb.Row{sumRow("p1", 100)},
		},
		`Transactions|select E, sum(J) where G = "debt" and (E = "p1" or E = "p2") group by E`: {
			Rows: []sheetdb.Row{sumRow("p1", 40), sumRow("p2", 15)},
		},
	}}
	svc := newTestService(store)

	debts, err := svc.DebtsFor(context.Background(), []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("DebtsFor failed: %v", err)
	}

	want := []domain.Debt{
		{PayeeID: "p1", Debt: 60.00},
		{PayeeID: "p2", Debt: -15.00},
	}
	if diff := cmp.Diff(want, debts); diff != "" {
		t.Errorf("debts mismatch (-want +got):\n%s", diff)
	}
}

func TestDebtsForEmpty(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)

	debts, err := svc.DebtsFor(context.Background(), nil)
	if err != nil {
		t.Fatalf("DebtsFor failed: %v", err)
	}
	if len(debts) != 0 || len(store.queries) != 0 {
		t.Errorf("debts = %+v, queries = %v, want neither", debts, store.queries)
	}
}
