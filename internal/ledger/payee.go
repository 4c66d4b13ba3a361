package ledger

import (
	"context"
	"fmt"

	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/entity"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// ListPayees returns every payee.
func (s *Service) ListPayees(ctx context.Context) ([]*domain.Payee, error) {
	return s.payees.FetchMany(ctx, sheetdb.NewQuery())
}

// GetPayee returns one payee by id.
func (s *Service) GetPayee(ctx context.Context, id string) (*domain.Payee, error) {
	return s.payees.FetchByID(ctx, id)
}

// CreatePayee validates and persists a new payee.
func (s *Service) CreatePayee(ctx context.Context, p *domain.Payee) (*domain.Payee, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.payees.Create(ctx, p)
}

// UpdatePayee overwrites a payee.
func (s *Service) UpdatePayee(ctx context.Context, id string, p *domain.Payee) (*domain.Payee, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.payees.UpdateByID(ctx, id, p)
}

// DeletePayee removes a payee unless a transaction references it.
func (s *Service) DeletePayee(ctx context.Context, id string) (*domain.Payee, error) {
	if id == "" {
		return nil, entity.ErrIDRequired
	}
	q := sheetdb.NewQuery().WhereEq(domain.TxColPayeeID, id)
	n, err := s.transactions.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("checking payee references: %w", err)
	}
	if n > 0 {
		return nil, entity.Conflictf("payee %s is referenced by transactions", id)
	}
	return s.payees.DeleteByID(ctx, id)
}
