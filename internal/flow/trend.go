package flow

import (
	"github.com/shopspring/decimal"

	"github.com/davidentech/flujo-caja-v2/internal/model"
)

// TrendPoint is the moving average of income and expense ending at a bucket.
type TrendPoint struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income_avg"`
	Expense decimal.Decimal `json:"expense_avg"`
}

// MovingAverage computes a trailing window average over the bucket sequence.
// Only full windows produce points; fewer buckets than the window yields nil.
func MovingAverage(buckets []model.PeriodBucket, window int) []TrendPoint {
	if window <= 0 || len(buckets) < window {
		return nil
	}
	div := decimal.NewFromInt(int64(window))
	var points []TrendPoint
	for i := window - 1; i < len(buckets); i++ {
		income := decimal.Zero
		expense := decimal.Zero
		for j := i - window + 1; j <= i; j++ {
			income = income.Add(buckets[j].Income)
			expense = expense.Add(buckets[j].Expense)
		}
		points = append(points, TrendPoint{
			Label:   buckets[i].Label,
			Income:  income.Div(div).Round(2),
			Expense: expense.Div(div).Round(2),
		})
	}
	return points
}

// LiquidityDays estimates how many days the closing balance covers at the
// observed daily burn rate. ok is false when there is no expense to burn.
func LiquidityDays(buckets []model.PeriodBucket) (int, bool) {
	if len(buckets) == 0 {
		return 0, false
	}
	expense := decimal.Zero
	for _, b := range buckets {
		expense = expense.Add(b.Expense)
	}
	if expense.IsZero() {
		return 0, false
	}
	first := buckets[0].Start
	last := buckets[len(buckets)-1].End
	days := decimal.NewFromInt(int64(last.Sub(first).Hours()/24) + 1)
	daily := expense.Abs().Div(days)

	closing := buckets[len(buckets)-1].Closing
	if !closing.IsPositive() {
		return 0, true
	}
	return int(closing.Div(daily).IntPart()), true
}
