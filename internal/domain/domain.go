// Package domain holds the ledger entities, their row codecs and the
// transaction shape rules. Entities are rows in named tables of the user's
// ledger document; every table's first row is a header and column A carries
// the row position, so entity content starts at column B.
package domain

import "time"

// TimeFormat is how timestamps are stored in cells.
const TimeFormat = time.RFC3339

// DateFormat is how transaction dates are stored in cells. ISO dates compare
// lexicographically in chronological order, which the range queries rely on.
const DateFormat = "2006-01-02"

// DebtAccountID is the reserved id of the synthetic Debt account, the
// counterparty of loan and borrow transactions. The bootstrap writes its row
// once; the API never edits or deletes it and list queries exclude it.
const DebtAccountID = "debt"

// Table names inside the ledger document. The layout is a fixed contract
// with the document bootstrap.
const (
	AccountsSheet     = "Accounts"
	CategoriesSheet   = "Categories"
	PayeesSheet       = "Payees"
	TransactionsSheet = "Transactions"
)

// Column letters per table. Column A is the row position everywhere.
const (
	AccountColID       = "B"
	AccountColTitle    = "C"
	AccountColCurrency = "D"

	TitledColID    = "B" // categories and payees share one layout
	TitledColTitle = "C"

	TxColID         = "B"
	TxColDate       = "C"
	TxColCategoryID = "D"
	TxColPayeeID    = "E"
	TxColComment    = "F"
	TxColOutAccount = "G"
	TxColOutAmount  = "H"
	TxColInAccount  = "I"
	TxColInAmount   = "J"
)

// Meta carries the identity and bookkeeping fields shared by every entity.
// Pos is the ephemeral 1-based row index attached from query metadata; it is
// not part of the entity's identity and never serialized.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Pos       int64     `json:"-"`
}

// EntityID returns the entity's identity.
func (m *Meta) EntityID() string { return m.ID }

// SetEntityID sets the entity's identity.
func (m *Meta) SetEntityID(id string) { m.ID = id }

// RowPos returns the attached row position.
func (m *Meta) RowPos() int64 { return m.Pos }

// SetRowPos attaches the row position.
func (m *Meta) SetRowPos(pos int64) { m.Pos = pos }

// Created returns the creation stamp.
func (m *Meta) Created() time.Time { return m.CreatedAt }

// SetCreated sets the creation stamp.
func (m *Meta) SetCreated(t time.Time) { m.CreatedAt = t }

// Account is one money account of the user.
type Account struct {
	Meta
	Title        string `json:"title"`
	CurrencyCode string `json:"currencyCode"`
}

// IsDebt reports whether this is the reserved Debt account.
func (a *Account) IsDebt() bool { return a.ID == DebtAccountID }

// Category labels transactions.
type Category struct {
	Meta
	Title string `json:"title"`
}

// Payee is a transaction counterparty.
type Payee struct {
	Meta
	Title string `json:"title"`
}

// Balance is the derived per-account sum; it is never persisted.
type Balance struct {
	AccountID string  `json:"accountId"`
	Balance   float64 `json:"balance"`
}

// Debt is the derived per-payee sum; it is never persisted.
type Debt struct {
	PayeeID string  `json:"payeeId"`
	Debt    float64 `json:"debt"`
}
