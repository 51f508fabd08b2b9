// Package ledger builds the canonical transaction ledger: deduplicated,
// chronologically ordered, rebuilt from scratch on every request.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/davidentech/flujo-caja-v2/internal/model"
)

// Ledger is the canonical ordered transaction sequence.
type Ledger []model.Transaction

// Normalize merges accepted candidates from any number of sources into a
// Ledger. The input is never mutated. Order of operations matters for
// determinism: a full deterministic sort first, then first-wins dedup on the
// uniqueness key, then a stable re-sort by date alone.
func Normalize(candidates []model.Transaction) Ledger {
	entries := make([]model.Transaction, len(candidates))
	copy(entries, candidates)

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.RowRef < b.RowRef
	})

	seen := make(map[string]bool, len(entries))
	deduped := entries[:0]
	for _, t := range entries {
		key := t.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, t)
	}

	// Stable: ties keep the deterministic base order.
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Date.Before(deduped[j].Date)
	})
	return Ledger(deduped)
}

// TotalIncome sums the positive amounts.
func (l Ledger) TotalIncome() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range l {
		if t.Amount.IsPositive() {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// TotalExpense sums the negative amounts (result is negative or zero).
func (l Ledger) TotalExpense() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range l {
		if t.Amount.IsNegative() {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// NetFlow is income plus expense.
func (l Ledger) NetFlow() decimal.Decimal {
	return l.TotalIncome().Add(l.TotalExpense())
}

// Sources returns the distinct source identifiers in ledger order.
func (l Ledger) Sources() []string {
	var order []string
	seen := make(map[string]bool)
	for _, t := range l {
		if !seen[t.Source] {
			seen[t.Source] = true
			order = append(order, t.Source)
		}
	}
	return order
}
