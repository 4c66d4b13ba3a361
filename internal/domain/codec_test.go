package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAccountCodecRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	account := &Account{
		Meta:         Meta{ID: "acc-1", CreatedAt: created},
		Title:        "Card",
		CurrencyCode: "EUR",
	}

	decoded := AccountCodec{}.Decode(AccountCodec{}.Encode(account))

	// UpdatedAt is refreshed on every encode; everything else must survive.
	opts := cmpopts.IgnoreFields(Meta{}, "UpdatedAt")
	if diff := cmp.Diff(account, decoded, opts); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if decoded.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set on encode")
	}
}

func TestTransactionCodecRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tx := &Transaction{
		Meta:             Meta{ID: "tx-1", CreatedAt: created},
		Date:             "2024-03-01",
		CategoryID:       "cat-1",
		PayeeID:          "payee-1",
		Comment:          "groceries",
		OutcomeAccountID: "acc-1",
		OutcomeAmount:    42.5,
	}

	decoded := TransactionCodec{}.Decode(TransactionCodec{}.Encode(tx))

	opts := []cmp.Option{
		cmpopts.IgnoreFields(Meta{}, "UpdatedAt"),
		cmpopts.IgnoreFields(Transaction{}, "Type"),
	}
	if diff := cmp.Diff(tx, decoded, opts...); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if decoded.Type != TxOutcome {
		t.Errorf("decoded.Type = %q, want %q", decoded.Type, TxOutcome)
	}
}

func TestCategoryCodecRoundTrip(t *testing.T) {
	category := &Category{Meta: Meta{ID: "cat-1"}, Title: "Food"}

	decoded := CategoryCodec{}.Decode(CategoryCodec{}.Encode(category))

	if decoded.ID != "cat-1" || decoded.Title != "Food" {
		t.Errorf("round trip mismatch: got %+v", decoded)
	}
	if decoded.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be filled on first encode")
	}
}

func TestDecodeZeroDefaulting(t *testing.T) {
	// A fully null/missing row decodes to zero values, never fails.
	tx := TransactionCodec{}.Decode([]interface{}{nil, nil, nil})
	if tx.ID != "" || tx.Date != "" || tx.OutcomeAmount != 0 || tx.IncomeAmount != 0 {
		t.Errorf("expected zero-valued transaction, got %+v", tx)
	}
	if !tx.CreatedAt.IsZero() || !tx.UpdatedAt.IsZero() {
		t.Errorf("expected zero timestamps, got %+v", tx.Meta)
	}

	account := AccountCodec{}.Decode(nil)
	if account.ID != "" || account.Title != "" || account.CurrencyCode != "" {
		t.Errorf("expected zero-valued account, got %+v", account)
	}

	payee := PayeeCodec{}.Decode([]interface{}{})
	if payee.ID != "" || payee.Title != "" {
		t.Errorf("expected zero-valued payee, got %+v", payee)
	}
}

func TestDecodeNumericCoercion(t *testing.T) {
	// Amount cells may come back as numbers or strings depending on how the
	// sheet was edited.
	cells := []interface{}{"tx-1", "2024-03-01", "", "", "", "acc-1", "99.95", "", nil, "", ""}
	tx := TransactionCodec{}.Decode(cells)
	if tx.OutcomeAmount != 99.95 {
		t.Errorf("OutcomeAmount = %v, want 99.95", tx.OutcomeAmount)
	}
	if tx.IncomeAmount != 0 {
		t.Errorf("IncomeAmount = %v, want 0", tx.IncomeAmount)
	}
}

func TestEncodePreservesCreatedAt(t *testing.T) {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	account := &Account{Meta: Meta{ID: "acc-1", CreatedAt: created}, Title: "Cash", CurrencyCode: "USD"}

	cells := AccountCodec{}.Encode(account)
	if got := cells[3]; got != created.Format(TimeFormat) {
		t.Errorf("createdAt cell = %v, want %v", got, created.Format(TimeFormat))
	}
}
