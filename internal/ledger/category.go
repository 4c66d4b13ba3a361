package ledger

import (
	"context"
	"fmt"

	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/entity"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.FetchMany(ctx, sheetdb.NewQuery())
}

// GetCategory returns one category by id.
func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FetchByID(ctx, id)
}

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.categories.Create(ctx, c)
}

// UpdateCategory overwrites a category.
func (s *Service) UpdateCategory(ctx context.Context, id string, c *domain.Category) (*domain.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.categories.UpdateByID(ctx, id, c)
}

// DeleteCategory removes a category unless a transaction references it.
func (s *Service) DeleteCategory(ctx context.Context, id string) (*domain.Category, error) {
	if id == "" {
		return nil, entity.ErrIDRequired
	}
	q := sheetdb.NewQuery().WhereEq(domain.TxColCategoryID, id)
	n, err := s.transactions.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("checking category references: %w", err)
	}
	if n > 0 {
		return nil, entity.Conflictf("category %s is referenced by transactions", id)
	}
	return s.categories.DeleteByID(ctx, id)
}
