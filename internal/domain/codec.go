package domain

import (
	"time"

	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// Row codecs: bidirectional mapping between an entity and the positional cell
// list of its row, starting at column B (column A is repository metadata).
// Encoding always refreshes the updated-at stamp and fills the created-at
// stamp when it is missing. Decoding never fails: absent and null cells come
// back as zero values, because the document may hold sparse or hand-edited
// rows.

// AccountCodec maps accounts to B:id C:title D:currency E:createdAt F:updatedAt.
type AccountCodec struct{}

func (AccountCodec) Encode(a *Account) []interface{} {
	stampMeta(&a.Meta)
	return []interface{}{
		a.ID,
		a.Title,
		a.CurrencyCode,
		encodeTime(a.CreatedAt),
		encodeTime(a.UpdatedAt),
	}
}

func (AccountCodec) Decode(cells []interface{}) *Account {
	row := sheetdb.Row{Cells: cells}
	return &Account{
		Meta: Meta{
			ID:        sheetdb.CellString(row.Cell(0)),
			CreatedAt: decodeTime(row.Cell(3)),
			UpdatedAt: decodeTime(row.Cell(4)),
		},
		Title:        sheetdb.CellString(row.Cell(1)),
		CurrencyCode: sheetdb.CellString(row.Cell(2)),
	}
}

// CategoryCodec maps categories to B:id C:title D:createdAt E:updatedAt.
type CategoryCodec struct{}

func (CategoryCodec) Encode(c *Category) []interface{} {
	stampMeta(&c.Meta)
	return []interface{}{
		c.ID,
		c.Title,
		encodeTime(c.CreatedAt),
		encodeTime(c.UpdatedAt),
	}
}

func (CategoryCodec) Decode(cells []interface{}) *Category {
	row := sheetdb.Row{Cells: cells}
	return &Category{
		Meta: Meta{
			ID:        sheetdb.CellString(row.Cell(0)),
			CreatedAt: decodeTime(row.Cell(2)),
			UpdatedAt: decodeTime(row.Cell(3)),
		},
		Title: sheetdb.CellString(row.Cell(1)),
	}
}

// PayeeCodec maps payees to B:id C:title D:createdAt E:updatedAt.
type PayeeCodec struct{}

func (PayeeCodec) Encode(p *Payee) []interface{} {
	stampMeta(&p.Meta)
	return []interface{}{
		p.ID,
		p.Title,
		encodeTime(p.CreatedAt),
		encodeTime(p.UpdatedAt),
	}
}

func (PayeeCodec) Decode(cells []interface{}) *Payee {
	row := sheetdb.Row{Cells: cells}
	return &Payee{
		Meta: Meta{
			ID:        sheetdb.CellString(row.Cell(0)),
			CreatedAt: decodeTime(row.Cell(2)),
			UpdatedAt: decodeTime(row.Cell(3)),
		},
		Title: sheetdb.CellString(row.Cell(1)),
	}
}

// TransactionCodec maps transactions to
// B:id C:date D:categoryId E:payeeId F:comment
// G:outcomeAccountId H:outcomeAmount I:incomeAccountId J:incomeAmount
// K:createdAt L:updatedAt. The derived type field never reaches a row.
type TransactionCodec struct{}

func (TransactionCodec) Encode(t *Transaction) []interface{} {
	stampMeta(&t.Meta)
	return []interface{}{
		t.ID,
		t.Date,
		t.CategoryID,
		t.PayeeID,
		t.Comment,
		t.OutcomeAccountID,
		t.OutcomeAmount,
		t.IncomeAccountID,
		t.IncomeAmount,
		encodeTime(t.CreatedAt),
		encodeTime(t.UpdatedAt),
	}
}

func (TransactionCodec) Decode(cells []interface{}) *Transaction {
	row := sheetdb.Row{Cells: cells}
	t := &Transaction{
		Meta: Meta{
			ID:        sheetdb.CellString(row.Cell(0)),
			CreatedAt: decodeTime(row.Cell(9)),
			UpdatedAt: decodeTime(row.Cell(10)),
		},
		Date:             sheetdb.CellString(row.Cell(1)),
		CategoryID:       sheetdb.CellString(row.Cell(2)),
		PayeeID:          sheetdb.CellString(row.Cell(3)),
		Comment:          sheetdb.CellString(row.Cell(4)),
		OutcomeAccountID: sheetdb.CellString(row.Cell(5)),
		OutcomeAmount:    sheetdb.CellFloat(row.Cell(6)),
		IncomeAccountID:  sheetdb.CellString(row.Cell(7)),
		IncomeAmount:     sheetdb.CellFloat(row.Cell(8)),
	}
	t.Type = t.Classify()
	return t
}

func stampMeta(m *Meta) {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeFormat)
}

func decodeTime(v interface{}) time.Time {
	s := sheetdb.CellString(v)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
