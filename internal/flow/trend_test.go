package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidentech/flujo-caja-v2/internal/model"
)

func bucket(label string, income, expense string) model.PeriodBucket {
	return model.PeriodBucket{Label: label, Income: dec(income), Expense: dec(expense)}
}

func TestMovingAverage(t *testing.T) {
	buckets := []model.PeriodBucket{
		bucket("2024-01", "100", "-50"),
		bucket("2024-02", "200", "-70"),
		bucket("2024-03", "300", "-90"),
		bucket("2024-04", "100", "-30"),
	}

	points := MovingAverage(buckets, 3)
	require.Len(t, points, 2, "only full windows")

	assert.Equal(t, "2024-03", points[0].Label)
	assert.Equal(t, "200", points[0].Income.String())
	assert.Equal(t, "-70", points[0].Expense.String())

	assert.Equal(t, "2024-04", points[1].Label)
	assert.Equal(t, "200", points[1].Income.String())
	assert.Equal(t, "-63.33", points[1].Expense.String())
}

func TestMovingAverage_TooFewBuckets(t *testing.T) {
	buckets := []model.PeriodBucket{bucket("2024-01", "100", "0")}
	assert.Nil(t, MovingAverage(buckets, 3))
	assert.Nil(t, MovingAverage(buckets, 0))
}

func TestLiquidityDays(t *testing.T) {
	buckets := []model.PeriodBucket{
		{
			Start:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			Expense: dec("-100"),
			Closing: dec("50"),
		},
	}
	// 100 over 10 days burns 10/day; 50 covers 5 days.
	days, ok := LiquidityDays(buckets)
	require.True(t, ok)
	assert.Equal(t, 5, days)
}

func TestLiquidityDays_NoExpense(t *testing.T) {
	buckets := []model.PeriodBucket{{Closing: dec("50")}}
	_, ok := LiquidityDays(buckets)
	assert.False(t, ok)
}

func TestLiquidityDays_NonPositiveClosing(t *testing.T) {
	buckets := []model.PeriodBucket{
		{
			Start:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			Expense: dec("-100"),
			Closing: dec("-5"),
		},
	}
	days, ok := LiquidityDays(buckets)
	require.True(t, ok)
	assert.Equal(t, 0, days)
}
