// Package ledger wires the entity repositories, codecs and queries into the
// per-kind operations the API exposes, and computes the derived balance and
// debt figures. A Service is bound to one user's ledger document and is
// built per request; it holds no state beyond its collaborators, so every
// operation re-reads the document.
package ledger

import (
	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/domain"
	"github.com/ledgersheet/ledgersheet/internal/entity"
	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// Service exposes the ledger operations over one spreadsheet document.
type Service struct {
	store         sheetdb.Store
	spreadsheetID string
	log           zerolog.Logger

	accounts     *entity.Repository[*domain.Account]
	categories   *entity.Repository[*domain.Category]
	payees       *entity.Repository[*domain.Payee]
	transactions *entity.Repository[*domain.Transaction]
}

// NewService builds a Service over the given store and ledger document.
func NewService(store sheetdb.Store, spreadsheetID string, log zerolog.Logger) *Service {
	return &Service{
		store:         store,
		spreadsheetID: spreadsheetID,
		log:           log,
		accounts: entity.NewRepository(store, spreadsheetID,
			entity.Table{Name: domain.AccountsSheet, IDColumn: domain.AccountColID},
			domain.AccountCodec{}, log),
		categories: entity.NewRepository(store, spreadsheetID,
			entity.Table{Name: domain.CategoriesSheet, IDColumn: domain.TitledColID},
			domain.CategoryCodec{}, log),
		payees: entity.NewRepository(store, spreadsheetID,
			entity.Table{Name: domain.PayeesSheet, IDColumn: domain.TitledColID},
			domain.PayeeCodec{}, log),
		transactions: entity.NewRepository(store, spreadsheetID,
			entity.Table{Name: domain.TransactionsSheet, IDColumn: domain.TxColID},
			domain.TransactionCodec{}, log),
	}
}
