// Package flow derives period-bucketed cash-flow metrics and forward
// scenario projections from a normalized ledger. Everything here is a pure
// read-only view: buckets are recomputed from the full ledger on every call.
package flow

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidentech/flujo-caja-v2/internal/ledger"
	"github.com/davidentech/flujo-caja-v2/internal/model"
)

// BalancePolicy controls how transactions excluded by a date-range filter
// affect the filtered range's opening balance.
type BalancePolicy string

const (
	// CarryForward folds the net effect of pre-range transactions into the
	// first bucket's opening balance. This is the default: the balance a
	// statement reports at any date already includes everything before it.
	CarryForward BalancePolicy = "carry"
	// ResetToZero starts the filtered range from the configured starting
	// balance alone.
	ResetToZero BalancePolicy = "reset"
)

// Options configure one aggregation pass.
type Options struct {
	Granularity     model.Granularity
	StartingBalance decimal.Decimal
	Range           *model.DateRange
	Policy          BalancePolicy
}

// Aggregate buckets the ledger into the requested granularity. The bucket
// sequence is contiguous from the first covered period to the last, so
// periods with zero activity still appear with income=expense=0 and a
// carried balance. An explicit range extends coverage to the full span.
func Aggregate(l ledger.Ledger, opts Options) []model.PeriodBucket {
	entries := l
	prior := decimal.Zero
	if opts.Range != nil {
		entries = nil
		for _, t := range l {
			switch {
			case t.Date.Before(opts.Range.Start):
				prior = prior.Add(t.Amount)
			case opts.Range.Contains(t.Date):
				entries = append(entries, t)
			}
		}
	}

	var spanStart, spanEnd time.Time
	if opts.Range != nil {
		spanStart, spanEnd = opts.Range.Start, opts.Range.End
	} else {
		if len(entries) == 0 {
			return nil
		}
		spanStart = entries[0].Date
		spanEnd = entries[len(entries)-1].Date
	}

	opening := opts.StartingBalance
	if opts.Range != nil && opts.Policy != ResetToZero {
		opening = opening.Add(prior)
	}

	var buckets []model.PeriodBucket
	idx := 0
	for start := periodStart(spanStart, opts.Granularity); !start.After(spanEnd); {
		end := periodEnd(start, opts.Granularity, spanEnd)

		income := decimal.Zero
		expense := decimal.Zero
		for idx < len(entries) && !entries[idx].Date.After(end) {
			amt := entries[idx].Amount
			if amt.IsPositive() {
				income = income.Add(amt)
			} else {
				expense = expense.Add(amt)
			}
			idx++
		}

		net := income.Add(expense)
		buckets = append(buckets, model.PeriodBucket{
			Label:   periodLabel(start, end, opts.Granularity),
			Start:   start,
			End:     end,
			Income:  income,
			Expense: expense,
			NetFlow: net,
			Opening: opening,
			Closing: opening.Add(net),
		})
		opening = opening.Add(net)
		start = end.AddDate(0, 0, 1)
	}
	return buckets
}

func periodStart(d time.Time, g model.Granularity) time.Time {
	y, m, _ := d.Date()
	switch g {
	case model.Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case model.Quarter:
		first := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, time.UTC)
	case model.Semester:
		first := time.January
		if m >= time.July {
			first = time.July
		}
		return time.Date(y, first, 1, 0, 0, 0, 0, time.UTC)
	case model.Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default: // full-range: the span itself is the period
		return time.Date(y, m, d.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func periodEnd(start time.Time, g model.Granularity, spanEnd time.Time) time.Time {
	switch g {
	case model.Month:
		return start.AddDate(0, 1, -1)
	case model.Quarter:
		return start.AddDate(0, 3, -1)
	case model.Semester:
		return start.AddDate(0, 6, -1)
	case model.Year:
		return start.AddDate(1, 0, -1)
	default:
		return spanEnd
	}
}

func periodLabel(start, end time.Time, g model.Granularity) string {
	switch g {
	case model.Month:
		return start.Format("2006-01")
	case model.Quarter:
		return fmt.Sprintf("%d-Q%d", start.Year(), (int(start.Month())-1)/3+1)
	case model.Semester:
		s := 1
		if start.Month() >= time.July {
			s = 2
		}
		return fmt.Sprintf("%d-S%d", start.Year(), s)
	case model.Year:
		return start.Format("2006")
	default:
		return start.Format("2006-01-02") + ".." + end.Format("2006-01-02")
	}
}
