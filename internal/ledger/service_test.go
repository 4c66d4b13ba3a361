package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/entity"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

func countRow(n float64) *sheetdb.Table {
	return &sheetdb.Table{Rows: []sheetdb.Row{{Cells: []interface{}{n}}}}
}

func TestDeleteAccountReferenced(t *testing.T) {
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Transactions|select count(B) where (G = "acc-1" or I = "acc-1")`: countRow(1),
	}}
	svc := newTestService(store)

	_, err := svc.DeleteAccount(context.Background(), "acc-1")
	var conflict *entity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if len(store.deletes) != 0 {
		t.Error("a referenced account must not be deleted")
	}
}

func TestDeleteAccount(t *testing.T) {
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Transactions|select count(B) where (G = "acc-1" or I = "acc-1")`: countRow(0),
		`Accounts|select * where B = "acc-1"`: {
			Rows: []sheetdb.Row{{Cells: []interface{}{3.0, "acc-1", "Card", "EUR", "", ""}}},
		},
	}}
	svc := newTestService(store)

	deleted, err := svc.DeleteAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if deleted.Title != "Card" {
		t.Errorf("expected the pre-deletion account back, got %+v", deleted)
	}
	if len(store.deletes) != 1 || store.deletes[0] != 3 {
		t.Errorf("deletes = %v, want one delete at row 3", store.deletes)
	}
}

func TestDeleteDebtAccount(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)

	_, err := svc.DeleteAccount(context.Background(), domain.DebtAccountID)
	var conflict *entity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if len(store.queries) != 0 {
		t.Error("the debt account guard must fire before any query")
	}
}

func TestUpdateDebtAccount(t *testing.T) {
	svc := newTestService(&stubStore{})

	_, err := svc.UpdateAccount(context.Background(), domain.DebtAccountID,
		&domain.Account{Title: "Debt", CurrencyCode: "EUR"})
	var conflict *entity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
}

func TestUpdateAccountReferenced(t *testing.T) {
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Transactions|select count(B) where (G = "acc-1" or I = "acc-1")`: countRow(2),
	}}
	svc := newTestService(store)

	_, err := svc.UpdateAccount(context.Background(), "acc-1",
		&domain.Account{Title: "Renamed", CurrencyCode: "EUR"})
	var conflict *entity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if store.updates != 0 {
		t.Error("a referenced account must not be updated")
	}
}

func TestCreateAccountInvalid(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)

	_, err := svc.CreateAccount(context.Background(), &domain.Account{})
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if store.appends != 0 {
		t.Error("an invalid account must not be persisted")
	}
}

func TestDeleteCategoryReferenced(t *testing.T) {
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Transactions|select count(B) where D = "cat-1"`: countRow(1),
	}}
	svc := newTestService(store)

	_, err := svc.DeleteCategory(context.Background(), "cat-1")
	var conflict *entity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if len(store.deletes) != 0 {
		t.Error("a referenced category must not be deleted")
	}
}

func TestDeletePayeeReferenced(t *testing.T) {
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Transactions|select count(B) where E = "p-1"`: countRow(1),
	}}
	svc := newTestService(store)

	_, err := svc.DeletePayee(context.Background(), "p-1")
	var conflict *entity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if len(store.deletes) != 0 {
		t.Error("a referenced payee must not be deleted")
	}
}

func TestListAccountsExcludesDebt(t *testing.T) {
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Accounts|select * where B != "debt"`: {
			Rows: []sheetdb.Row{{Cells: []interface{}{2.0, "acc-1", "Card", "EUR", "", ""}}},
		},
	}}
	svc := newTestService(store)

	accounts, err := svc.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != "acc-1" {
		t.Errorf("accounts = %+v, want the single non-debt account", accounts)
	}
}

func TestListTransactions(t *testing.T) {
	txRow := sheetdb.Row{Cells: []interface{}{
		2.0, "tx-1", "2024-03-01", "cat-1", "", "coffee",
		"acc-1", 4.5, "", 0.0, "", "",
	}}
	store := &stubStore{tables: map[string]*sheetdb.Table{
		`Transactions|select count(B)`: countRow(1),
		`Transactions|select sum(H), sum(J)`: {
			Rows: []sheetdb.Row{{Cells: []interface{}{4.5, 0.0}}},
		},
		`Transactions|select * order by C desc limit 50`: {
			Rows: []sheetdb.Row{txRow},
		},
	}}
	svc := newTestService(store)

	page, err := svc.ListTransactions(context.Background(), TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}

	if page.Total != 1 || page.Limit != DefaultPageSize || page.Offset != 0 {
		t.Errorf("page meta = total %d limit %d offset %d", page.Total, page.Limit, page.Offset)
	}
	if page.OutcomeAmount != 4.5 || page.IncomeAmount != 0 {
		t.Errorf("sums = %v / %v, want 4.5 / 0", page.OutcomeAmount, page.IncomeAmount)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	tx := page.Items[0]
	if tx.ID != "tx-1" || tx.Type != domain.TxOutcome || tx.OutcomeAmount != 4.5 {
		t.Errorf("unexpected transaction: %+v", tx)
	}
}

func TestListTransactionsFilterQueries(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)

	_, err := svc.ListTransactions(context.Background(), TransactionFilter{
		Limit:    10,
		Offset:   20,
		DateFrom: "2024-01-01",
		DateTo:   "2024-12-31",
		PayeeID:  "p-1",
	})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}

	filter := `C >= "2024-01-01" and C <= "2024-12-31" and E = "p-1"`
	want := []string{
		`Transactions|select count(B) where ` + filter,
		`Transactions|select sum(H), sum(J) where ` + filter,
		`Transactions|select * where ` + filter + ` order by C desc limit 10 offset 20`,
	}
	if len(store.queries) != len(want) {
		t.Fatalf("queries = %v, want %v", store.queries, want)
	}
	for i := range want {
		if store.queries[i] != want[i] {
			t.Errorf("query %d = %q, want %q", i, store.queries[i], want[i])
		}
	}
}

func TestListTransactionsEmptyPage(t *testing.T) {
	svc := newTestService(&stubStore{})

	page, err := svc.ListTransactions(context.Background(), TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if page.Items == nil {
		t.Error("Items must be an empty slice, not nil")
	}
	if page.Total != 0 {
		t.Errorf("Total = %d, want 0", page.Total)
	}
}

func TestCreateTransactionNormalizes(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)

	tx := &domain.Transaction{
		Type:             domain.TxLoan,
		Date:             "2024-03-01",
		PayeeID:          "p-1",
		OutcomeAccountID: "acc-1",
		OutcomeAmount:    25,
		IncomeAccountID:  "acc-2", // must be forced to the debt account
		IncomeAmount:     999,
	}

	// The append happens before the confirming fetch fails, so the encoded
	// row is observable even though Create errors out on the empty stub.
	_, err := svc.CreateTransaction(context.Background(), tx)
	if !errors.Is(err, entity.ErrNotCreated) {
		t.Fatalf("error = %v, want ErrNotCreated on the empty stub", err)
	}
	if store.appends != 1 {
		t.Fatalf("appends = %d, want 1", store.appends)
	}
	if tx.IncomeAccountID != domain.DebtAccountID {
		t.Errorf("IncomeAccountID = %q, want the debt account", tx.IncomeAccountID)
	}
	if tx.IncomeAmount != tx.OutcomeAmount {
		t.Errorf("IncomeAmount = %v, want mirrored %v", tx.IncomeAmount, tx.OutcomeAmount)
	}
}

func TestCreateTransactionInvalid(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store)

	_, err := svc.CreateTransaction(context.Background(), &domain.Transaction{
		Type: domain.TxOutcome,
		Date: "2024-03-01",
	})
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if store.appends != 0 {
		t.Error("an invalid transaction must not be persisted")
	}
}
