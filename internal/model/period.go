package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the reporting period size.
type Granularity string

const (
	Month     Granularity = "month"
	Quarter   Granularity = "quarter"
	Semester  Granularity = "semester"
	Year      Granularity = "year"
	FullRange Granularity = "full-range"
)

// ParseGranularity validates a granularity string from configuration.
// "full" is accepted as shorthand for full-range.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Month, Quarter, Semester, Year, FullRange:
		return Granularity(s), nil
	}
	if s == "full" {
		return FullRange, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// DateRange is an inclusive calendar-day filter.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a date falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// PeriodBucket holds aggregated cash-flow figures for one reporting period.
// Projected marks simulator output; historical buckets never set it.
type PeriodBucket struct {
	Label     string          `json:"label"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Income    decimal.Decimal `json:"income_total"`
	Expense   decimal.Decimal `json:"expense_total"` // negative or zero
	NetFlow   decimal.Decimal `json:"net_flow"`
	Opening   decimal.Decimal `json:"opening_balance"`
	Closing   decimal.Decimal `json:"closing_balance"`
	Projected bool            `json:"projected,omitempty"`
}

// ScenarioAssumption adjusts projected periods from its activation point on.
// AppliesFrom is 1-based relative to the simulation anchor; growth compounds
// per period the assumption has been active.
type ScenarioAssumption struct {
	AppliesFrom  int             `json:"applies_from_period"`
	IncomeDelta  decimal.Decimal `json:"recurring_income_delta"`
	ExpenseDelta decimal.Decimal `json:"recurring_expense_delta"`
	GrowthRate   decimal.Decimal `json:"growth_rate"`
}
