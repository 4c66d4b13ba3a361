package domain

import (
	"strings"

	"github.com/ledgersheet/ledgersheet/internal/entity"
)

// Validate checks an account payload.
func (a *Account) Validate() error {
	v := entity.NewValidationError()
	if strings.TrimSpace(a.Title) == "" {
		v.Add("title", "title is required")
	}
	if strings.TrimSpace(a.CurrencyCode) == "" {
		v.Add("currencyCode", "currency code is required")
	}
	return v.OrNil()
}

// Validate checks a category payload.
func (c *Category) Validate() error {
	v := entity.NewValidationError()
	if strings.TrimSpace(c.Title) == "" {
		v.Add("title", "title is required")
	}
	return v.OrNil()
}

// Validate checks a payee payload.
func (p *Payee) Validate() error {
	v := entity.NewValidationError()
	if strings.TrimSpace(p.Title) == "" {
		v.Add("title", "title is required")
	}
	return v.OrNil()
}
