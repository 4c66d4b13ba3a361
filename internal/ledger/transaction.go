package ledger

import (
	"context"
	"fmt"

	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// DefaultPageSize caps transaction pages when the caller gives no limit.
const DefaultPageSize = 50

// TransactionFilter is the closed, typed filter the transaction list accepts.
// Absent fields add no predicate. The HTTP boundary parses and validates the
// raw query parameters before the filter reaches this layer.
type TransactionFilter struct {
	Limit      int
	Offset     int
	DateFrom   string
	DateTo     string
	CategoryID string
	PayeeID    string
	AccountID  string
	Comment    string
}

// apply compiles the filter's predicates onto a fresh query builder. Each of
// the three queries behind a page (count, sums, items) needs its own builder,
// so this is called per query.
func (f TransactionFilter) apply() *sheetdb.Builder {
	q := sheetdb.NewQuery()
	if f.DateFrom != "" {
		q.WhereGTE(domain.TxColDate, f.DateFrom)
	}
	if f.DateTo != "" {
		q.WhereLTE(domain.TxColDate, f.DateTo)
	}
	if f.CategoryID != "" {
		q.WhereEq(domain.TxColCategoryID, f.CategoryID)
	}
	if f.PayeeID != "" {
		q.WhereEq(domain.TxColPayeeID, f.PayeeID)
	}
	if f.AccountID != "" {
		q.WhereEqAnyCol([]string{domain.TxColOutAccount, domain.TxColInAccount}, f.AccountID)
	}
	if f.Comment != "" {
		q.WhereContainsFold(domain.TxColComment, f.Comment)
	}
	return q
}

// TransactionPage is the transaction list response: one page of items plus
// the total count and the outcome/income sums over the whole filtered set.
type TransactionPage struct {
	Items         []*domain.Transaction `json:"items"`
	Total         int64                 `json:"total"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
	OutcomeAmount float64               `json:"outcomeAmount"`
	IncomeAmount  float64               `json:"incomeAmount"`
}

// ListTransactions returns one page of transactions matching the filter,
// newest first, together with the filtered totals.
func (s *Service) ListTransactions(ctx context.Context, f TransactionFilter) (*TransactionPage, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	total, err := s.transactions.Count(ctx, f.apply())
	if err != nil {
		return nil, err
	}

	outcome, income, err := s.transactionSums(ctx, f)
	if err != nil {
		return nil, err
	}

	q := f.apply().
		OrderBy(domain.TxColDate, true).
		Limit(f.Limit).
		Offset(f.Offset)
	items, err := s.transactions.FetchMany(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Transaction{}
	}

	return &TransactionPage{
		Items:         items,
		Total:         total,
		Limit:         f.Limit,
		Offset:        f.Offset,
		OutcomeAmount: outcome,
		IncomeAmount:  income,
	}, nil
}

// GetTransaction returns one transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactions.FetchByID(ctx, id)
}

// CreateTransaction validates the payload, applies the per-type field
// whitelist and persists the transaction.
func (s *Service) CreateTransaction(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.Normalize()
	created, err := s.transactions.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTransaction validates, normalizes and overwrites a transaction.
func (s *Service) UpdateTransaction(ctx context.Context, id string, t *domain.Transaction) (*domain.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.Normalize()
	return s.transactions.UpdateByID(ctx, id, t)
}

// DeleteTransaction removes a transaction and returns it as confirmation.
func (s *Service) DeleteTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactions.DeleteByID(ctx, id)
}

// transactionSums runs one aggregate query summing both amount columns over
// the filtered set.
func (s *Service) transactionSums(ctx context.Context, f TransactionFilter) (outcome, income float64, err error) {
	q := f.apply().Select(
		fmt.Sprintf("sum(%s)", domain.TxColOutAmount),
		fmt.Sprintf("sum(%s)", domain.TxColInAmount),
	)
	table, err := s.store.Query(ctx, s.spreadsheetID, domain.TransactionsSheet, q.String())
	if err != nil {
		return 0, 0, fmt.Errorf("summing transactions: %w", err)
	}
	if len(table.Rows) == 0 {
		return 0, 0, nil
	}
	row := table.Rows[0]
	return round2(sheetdb.CellFloat(row.Cell(0))), round2(sheetdb.CellFloat(row.Cell(1))), nil
}
