package flow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidentech/flujo-caja-v2/internal/model"
)

// Project simulates n future periods from the most recent real bucket.
// For period i past the anchor, income is the anchor income plus the summed
// deltas of every assumption active by period i, multiplied by each active
// assumption's growth compounded over the periods it has been active; the
// expense side works the same way. Balances chain from the anchor's closing
// balance. The anchor and assumptions are never mutated, so re-running with
// the same inputs yields the same projections.
func Project(anchor model.PeriodBucket, g model.Granularity, assumptions []model.ScenarioAssumption, n int) []model.PeriodBucket {
	one := decimal.NewFromInt(1)

	var out []model.PeriodBucket
	opening := anchor.Closing
	start := anchor.End.AddDate(0, 0, 1)
	for i := 1; i <= n; i++ {
		income := anchor.Income
		expense := anchor.Expense
		for _, a := range assumptions {
			from := a.AppliesFrom
			if from < 1 {
				from = 1
			}
			if i < from {
				continue
			}
			income = income.Add(a.IncomeDelta)
			expense = expense.Add(a.ExpenseDelta)
		}
		// Growth compounds after deltas, in the order assumptions were
		// supplied, each over its own active-period count.
		for _, a := range assumptions {
			from := a.AppliesFrom
			if from < 1 {
				from = 1
			}
			if i < from || a.GrowthRate.IsZero() {
				continue
			}
			factor := one.Add(a.GrowthRate).Pow(decimal.NewFromInt(int64(i - from + 1)))
			income = income.Mul(factor)
			expense = expense.Mul(factor)
		}

		end := projectedEnd(start, g, anchor)
		net := income.Add(expense)
		out = append(out, model.PeriodBucket{
			Label:     periodLabel(start, end, g),
			Start:     start,
			End:       end,
			Income:    income,
			Expense:   expense,
			NetFlow:   net,
			Opening:   opening,
			Closing:   opening.Add(net),
			Projected: true,
		})
		opening = opening.Add(net)
		start = end.AddDate(0, 0, 1)
	}
	return out
}

// projectedEnd advances one period; a full-range anchor steps by its own
// span length since it has no calendar period size.
func projectedEnd(start time.Time, g model.Granularity, anchor model.PeriodBucket) time.Time {
	if g == model.FullRange {
		days := int(anchor.End.Sub(anchor.Start).Hours() / 24)
		return start.AddDate(0, 0, days)
	}
	return periodEnd(start, g, time.Time{})
}
