package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvariantViolation describes one failed ledger sanity check. Violations
// are surfaced as warnings next to best-effort results, never as a crash.
type InvariantViolation struct {
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s: %s", v.Check, v.Detail)
}

// balanceTolerance allows one currency unit of drift against the statement's
// own running-balance column before flagging a discrepancy.
var balanceTolerance = decimal.NewFromInt(1)

// Verify re-checks the ledger's construction invariants: ascending dates,
// a duplicate-free uniqueness key, per-source subtotals that add up to the
// ledger-wide totals, and agreement with any statement balance column.
func Verify(l Ledger) []InvariantViolation {
	var violations []InvariantViolation

	seen := make(map[string]bool, len(l))
	for i, t := range l {
		if i > 0 && t.Date.Before(l[i-1].Date) {
			violations = append(violations, InvariantViolation{
				Check:  "chronological-order",
				Detail: fmt.Sprintf("entry %d (%s) dated before its predecessor", i, t.Date.Format("2006-01-02")),
			})
		}
		key := t.Key()
		if seen[key] {
			violations = append(violations, InvariantViolation{
				Check:  "unique-key",
				Detail: fmt.Sprintf("duplicate key %s", key),
			})
		}
		seen[key] = true
		if t.Amount.IsZero() {
			violations = append(violations, InvariantViolation{
				Check:  "nonzero-amount",
				Detail: fmt.Sprintf("entry %d has zero amount", i),
			})
		}
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, src := range l.Sources() {
		sub := l.bySource(src)
		income = income.Add(sub.TotalIncome())
		expense = expense.Add(sub.TotalExpense())
	}
	if !income.Equal(l.TotalIncome()) || !expense.Equal(l.TotalExpense()) {
		violations = append(violations, InvariantViolation{
			Check: "subtotal-sum",
			Detail: fmt.Sprintf("per-source subtotals %s/%s != ledger totals %s/%s",
				income, expense, l.TotalIncome(), l.TotalExpense()),
		})
	}

	violations = append(violations, verifyReportedBalances(l)...)
	return violations
}

// verifyReportedBalances walks each source's entries in ledger order and
// checks the statement's running balance against the computed one, anchored
// at the source's first reported balance.
func verifyReportedBalances(l Ledger) []InvariantViolation {
	var violations []InvariantViolation
	for _, src := range l.Sources() {
		var running decimal.Decimal
		anchored := false
		discrepancies := 0
		for _, t := range l.bySource(src) {
			if !anchored {
				if t.Balance != nil {
					running = *t.Balance
					anchored = true
				}
				continue
			}
			// Every amount moves the running balance; only rows that carry
			// a reported balance get compared against it.
			running = running.Add(t.Amount)
			if t.Balance == nil {
				continue
			}
			if running.Sub(*t.Balance).Abs().GreaterThan(balanceTolerance) {
				discrepancies++
				running = *t.Balance // re-anchor so one gap is counted once
			}
		}
		if discrepancies > 0 {
			violations = append(violations, InvariantViolation{
				Check:  "balance-continuity",
				Detail: fmt.Sprintf("source %s: %d entries disagree with the statement balance", src, discrepancies),
			})
		}
	}
	return violations
}

func (l Ledger) bySource(src string) Ledger {
	var out Ledger
	for _, t := range l {
		if t.Source == src {
			out = append(out, t)
		}
	}
	return out
}
