package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one normalized ledger entry extracted from a statement row.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // negative = outflow, positive = inflow
	Category    string          `json:"category,omitempty"`
	Source      string          `json:"source"` // document or dataset the row came from
	RowRef      int             `json:"row_ref"`

	// Balance is the statement's own running balance when the source
	// maps one; nil means no balance column, distinct from a real zero.
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

// Key returns the uniqueness key; two entries sharing it are duplicates.
func (t Transaction) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", t.Date.Format("2006-01-02"), t.Description, t.Amount.String(), t.Source)
}
