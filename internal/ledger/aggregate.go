package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// The aggregation engine derives balances and debts from the transaction
// table: two grouped-sum queries per derivation, each turned into a
// key→amount map, folded over the candidate keys with zero defaults. A key
// absent from a grouping simply has no transactions on that side.

// AccountBalances computes the balance of every non-reserved account:
// sum of incomes into the account minus sum of outcomes out of it, rounded
// to 2 decimals. Accounts with no transactions report 0.
func (s *Service) AccountBalances(ctx context.Context) ([]domain.Balance, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return s.BalancesFor(ctx, ids)
}

// BalancesFor computes balances for an explicit candidate id list. An empty
// list issues no queries.
func (s *Service) BalancesFor(ctx context.Context, accountIDs []string) ([]domain.Balance, error) {
	balances := make([]domain.Balance, 0, len(accountIDs))
	if len(accountIDs) == 0 {
		return balances, nil
	}

	outcomes, err := s.groupedSums(ctx, domain.TxColOutAccount, domain.TxColOutAmount, func(q *sheetdb.Builder) {
		q.WhereAnyOf(domain.TxColOutAccount, accountIDs)
	})
	if err != nil {
		return nil, err
	}
	incomes, err := s.groupedSums(ctx, domain.TxColInAccount, domain.TxColInAmount, func(q *sheetdb.Builder) {
		q.WhereAnyOf(domain.TxColInAccount, accountIDs)
	})
	if err != nil {
		return nil, err
	}

	for _, id := range accountIDs {
		balance := incomes[id].Sub(outcomes[id])
		balances = append(balances, domain.Balance{
			AccountID: id,
			Balance:   roundDec(balance),
		})
	}
	return balances, nil
}

// PayeeDebts computes the outstanding debt of every payee: loan outcomes
// minus borrow incomes, rounded to 2 decimals.
func (s *Service) PayeeDebts(ctx context.Context) ([]domain.Debt, error) {
	payees, err := s.ListPayees(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(payees))
	for i, p := range payees {
		ids[i] = p.ID
	}
	return s.DebtsFor(ctx, ids)
}

// DebtsFor computes debts for an explicit candidate id list. An empty list
// issues no queries.
func (s *Service) DebtsFor(ctx context.Context, payeeIDs []string) ([]domain.Debt, error) {
	debts := make([]domain.Debt, 0, len(payeeIDs))
	if len(payeeIDs) == 0 {
		return debts, nil
	}

	// Loans are outcomes whose income side is the Debt account; borrows are
	// incomes whose outcome side is the Debt account.
	loans, err := s.groupedSums(ctx, domain.TxColPayeeID, domain.TxColOutAmount, func(q *sheetdb.Builder) {
		q.WhereEq(domain.TxColInAccount, domain.DebtAccountID).
			WhereAnyOf(domain.TxColPayeeID, payeeIDs)
	})
	if err != nil {
		return nil, err
	}
	borrows, err := s.groupedSums(ctx, domain.TxColPayeeID, domain.TxColInAmount, func(q *sheetdb.Builder) {
		q.WhereEq(domain.TxColOutAccount, domain.DebtAccountID).
			WhereAnyOf(domain.TxColPayeeID, payeeIDs)
	})
	if err != nil {
		return nil, err
	}

	for _, id := range payeeIDs {
		debt := loans[id].Sub(borrows[id])
		debts = append(debts, domain.Debt{
			PayeeID: id,
			Debt:    roundDec(debt),
		})
	}
	return debts, nil
}

// groupedSums runs one grouped-sum query over the transaction table and
// returns the key→sum mapping. Keys never returned by the store are simply
// absent; lookups on the result default to decimal zero.
func (s *Service) groupedSums(ctx context.Context, keyCol, valCol string, build func(*sheetdb.Builder)) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)

	q := sheetdb.NewQuery().
		Select(keyCol, fmt.Sprintf("sum(%s)", valCol)).
		GroupBy(keyCol)
	build(q)
	if q.MatchesNothing() {
		return sums, nil
	}

	table, err := s.store.Query(ctx, s.spreadsheetID, domain.TransactionsSheet, q.String())
	if err != nil {
		return nil, fmt.Errorf("grouped sum over %s: %w", valCol, err)
	}

	for _, row := range table.Rows {
		key := sheetdb.CellString(row.Cell(0))
		if key == "" {
			continue
		}
		sums[key] = decimal.NewFromFloat(sheetdb.CellFloat(row.Cell(1)))
	}
	return sums, nil
}

func roundDec(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func round2(f float64) float64 {
	return roundDec(decimal.NewFromFloat(f))
}
