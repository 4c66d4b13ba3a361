package domain

import (
	"time"

	"github.com/ledgersheet/ledgersheet/internal/entity"
)

// TxType is the structural shape of a transaction. It is not stored; it is
// derived from which account sides are populated and whether either side is
// the reserved Debt account.
type TxType string

const (
	TxOutcome  TxType = "OUTCOME"
	TxIncome   TxType = "INCOME"
	TxTransfer TxType = "TRANSFER"
	TxLoan     TxType = "LOAN"
	TxBorrow   TxType = "BORROW"
)

var txTypes = map[TxType]bool{
	TxOutcome:  true,
	TxIncome:   true,
	TxTransfer: true,
	TxLoan:     true,
	TxBorrow:   true,
}

// Transaction is one ledger entry. Which optional fields are populated
// depends on the shape; see Classify and Normalize.
type Transaction struct {
	Meta
	Date             string  `json:"date"`
	CategoryID       string  `json:"categoryId,omitempty"`
	PayeeID          string  `json:"payeeId,omitempty"`
	Comment          string  `json:"comment,omitempty"`
	OutcomeAccountID string  `json:"outcomeAccountId,omitempty"`
	OutcomeAmount    float64 `json:"outcomeAmount"`
	IncomeAccountID  string  `json:"incomeAccountId,omitempty"`
	IncomeAmount     float64 `json:"incomeAmount"`

	// Type is derived on read and accepted on write; it never reaches a row.
	Type TxType `json:"type"`
}

// Classify derives the transaction type from the populated account sides.
// The empty type is returned for the invalid neither-side-set shape, which
// validation rejects before rows are written.
func (t *Transaction) Classify() TxType {
	out := t.OutcomeAccountID
	in := t.IncomeAccountID

	switch {
	case out != "" && in == "":
		return TxOutcome
	case out != "" && in == DebtAccountID:
		return TxLoan
	case in != "" && out == "":
		return TxIncome
	case in != "" && out == DebtAccountID:
		return TxBorrow
	case out != "" && in != "":
		return TxTransfer
	default:
		return ""
	}
}

// Normalize applies the per-type field whitelist before a write: fields that
// do not belong to the declared type are cleared, and the loan/borrow shapes
// force the Debt account on the synthetic side, mirroring the amount.
func (t *Transaction) Normalize() {
	switch t.Type {
	case TxOutcome:
		t.IncomeAccountID = ""
		t.IncomeAmount = 0
	case TxIncome:
		t.OutcomeAccountID = ""
		t.OutcomeAmount = 0
	case TxTransfer:
		t.CategoryID = ""
		t.PayeeID = ""
	case TxLoan:
		t.CategoryID = ""
		t.IncomeAccountID = DebtAccountID
		t.IncomeAmount = t.OutcomeAmount
	case TxBorrow:
		t.CategoryID = ""
		t.OutcomeAccountID = DebtAccountID
		t.OutcomeAmount = t.IncomeAmount
	}
}

// needsOutcome reports whether the type requires the outcome side.
func (ty TxType) needsOutcome() bool {
	return ty == TxOutcome || ty == TxTransfer || ty == TxLoan
}

// needsIncome reports whether the type requires the income side.
func (ty TxType) needsIncome() bool {
	return ty == TxIncome || ty == TxTransfer || ty == TxBorrow
}

// Validate checks a transaction payload before normalization and write.
func (t *Transaction) Validate() error {
	v := entity.NewValidationError()

	if t.Type == "" {
		v.Add("type", "type is required")
	} else if !txTypes[t.Type] {
		v.Add("type", "unknown transaction type")
	}

	if t.Date == "" {
		v.Add("date", "date is required")
	} else if _, err := time.Parse(DateFormat, t.Date); err != nil {
		v.Add("date", "date must be a valid YYYY-MM-DD date")
	}

	if t.Type.needsOutcome() {
		if t.OutcomeAccountID == "" {
			v.Add("outcomeAccountId", "outcome account is required")
		}
		if t.OutcomeAmount <= 0 {
			v.Add("outcomeAmount", "outcome amount must be positive")
		}
	}

	if t.Type.needsIncome() {
		if t.IncomeAccountID == "" {
			v.Add("incomeAccountId", "income account is required")
		}
		if t.IncomeAmount <= 0 {
			v.Add("incomeAmount", "income amount must be positive")
		}
	}

	if t.Type == TxLoan || t.Type == TxBorrow {
		if t.PayeeID == "" {
			v.Add("payeeId", "payee is required for loan and borrow")
		}
	}

	return v.OrNil()
}
