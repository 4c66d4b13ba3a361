package ledger

import (
	"context"
	"fmt"

	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/entity"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// ListAccounts returns every account except the reserved Debt row.
func (s *Service) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	q := sheetdb.NewQuery().WhereNotEq(domain.AccountColID, domain.DebtAccountID)
	return s.accounts.FetchMany(ctx, q)
}

// GetAccount returns one account by id.
func (s *Service) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FetchByID(ctx, id)
}

// CreateAccount validates and persists a new account. Any caller-supplied id
// is replaced.
func (s *Service) CreateAccount(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return s.accounts.Create(ctx, a)
}

// UpdateAccount overwrites an account. The reserved Debt account and any
// account referenced by a transaction are immutable.
func (s *Service) UpdateAccount(ctx context.Context, id string, a *domain.Account) (*domain.Account, error) {
	if id == domain.DebtAccountID {
		return nil, entity.Conflictf("the debt account cannot be modified")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	referenced, err := s.accountReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	if referenced {
		return nil, entity.Conflictf("account %s is referenced by transactions", id)
	}
	return s.accounts.UpdateByID(ctx, id, a)
}

// DeleteAccount removes an account. The reserved Debt account and any
// account referenced by a transaction cannot be deleted.
func (s *Service) DeleteAccount(ctx context.Context, id string) (*domain.Account, error) {
	if id == domain.DebtAccountID {
		return nil, entity.Conflictf("the debt account cannot be deleted")
	}
	if id == "" {
		return nil, entity.ErrIDRequired
	}
	referenced, err := s.accountReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	if referenced {
		return nil, entity.Conflictf("account %s is referenced by transactions", id)
	}
	return s.accounts.DeleteByID(ctx, id)
}

// accountReferenced reports whether any transaction uses the account on
// either side.
func (s *Service) accountReferenced(ctx context.Context, id string) (bool, error) {
	q := sheetdb.NewQuery().
		WhereEqAnyCol([]string{domain.TxColOutAccount, domain.TxColInAccount}, id)
	n, err := s.transactions.Count(ctx, q)
	if err != nil {
		return false, fmt.Errorf("checking account references: %w", err)
	}
	return n > 0, nil
}
