package flow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidentech/flujo-caja-v2/internal/ledger"
	"github.com/davidentech/flujo-caja-v2/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func buildLedger(txns ...model.Transaction) ledger.Ledger {
	return ledger.Normalize(txns)
}

func txn(d time.Time, desc, amount string) model.Transaction {
	return model.Transaction{Date: d, Description: desc, Amount: dec(amount), Source: "test"}
}

func TestAggregate_MonthlyWithGap(t *testing.T) {
	l := buildLedger(
		txn(date(2024, time.January, 10), "venta", "1000"),
		txn(date(2024, time.January, 20), "arriendo", "-400"),
		// February has no activity.
		txn(date(2024, time.March, 5), "venta2", "600"),
	)

	buckets := Aggregate(l, Options{Granularity: model.Month})
	require.Len(t, buckets, 3, "empty February still gets a bucket")

	jan := buckets[0]
	assert.Equal(t, "2024-01", jan.Label)
	assert.Equal(t, "1000", jan.Income.String())
	assert.Equal(t, "-400", jan.Expense.String())
	assert.Equal(t, "600", jan.NetFlow.String())
	assert.Equal(t, "0", jan.Opening.String())
	assert.Equal(t, "600", jan.Closing.String())

	feb := buckets[1]
	assert.Equal(t, "2024-02", feb.Label)
	assert.True(t, feb.Income.IsZero())
	assert.True(t, feb.Expense.IsZero())
	assert.Equal(t, "600", feb.Opening.String(), "balance carries through the gap")
	assert.Equal(t, "600", feb.Closing.String())

	mar := buckets[2]
	assert.Equal(t, "1200", mar.Closing.String())

	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i].Opening.Equal(buckets[i-1].Closing),
			"opening of %s continues closing of %s", buckets[i].Label, buckets[i-1].Label)
		assert.Equal(t, buckets[i-1].End.AddDate(0, 0, 1), buckets[i].Start, "contiguous periods")
	}
}

func TestAggregate_StartingBalance(t *testing.T) {
	l := buildLedger(txn(date(2024, time.May, 1), "venta", "100"))
	buckets := Aggregate(l, Options{Granularity: model.Month, StartingBalance: dec("50")})
	require.Len(t, buckets, 1)
	assert.Equal(t, "50", buckets[0].Opening.String())
	assert.Equal(t, "150", buckets[0].Closing.String())
}

func TestAggregate_QuarterAndYearLabels(t *testing.T) {
	l := buildLedger(
		txn(date(2024, time.February, 1), "a", "10"),
		txn(date(2024, time.August, 1), "b", "10"),
	)

	quarters := Aggregate(l, Options{Granularity: model.Quarter})
	require.Len(t, quarters, 3)
	assert.Equal(t, "2024-Q1", quarters[0].Label)
	assert.Equal(t, "2024-Q3", quarters[2].Label)

	semesters := Aggregate(l, Options{Granularity: model.Semester})
	require.Len(t, semesters, 2)
	assert.Equal(t, "2024-S1", semesters[0].Label)
	assert.Equal(t, "2024-S2", semesters[1].Label)

	years := Aggregate(l, Options{Granularity: model.Year})
	require.Len(t, years, 1)
	assert.Equal(t, "2024", years[0].Label)
}

func TestAggregate_FullRange(t *testing.T) {
	l := buildLedger(
		txn(date(2024, time.January, 10), "a", "10"),
		txn(date(2024, time.June, 20), "b", "-4"),
	)
	buckets := Aggregate(l, Options{Granularity: model.FullRange})
	require.Len(t, buckets, 1)
	assert.Equal(t, date(2024, time.January, 10), buckets[0].Start)
	assert.Equal(t, date(2024, time.June, 20), buckets[0].End)
	assert.Equal(t, "6", buckets[0].NetFlow.String())
}

func TestAggregate_RangeCarryForward(t *testing.T) {
	l := buildLedger(
		txn(date(2024, time.January, 10), "antes", "500"),
		txn(date(2024, time.March, 10), "dentro", "100"),
		txn(date(2024, time.May, 10), "despues", "999"),
	)
	r := &model.DateRange{Start: date(2024, time.March, 1), End: date(2024, time.April, 30)}

	buckets := Aggregate(l, Options{Granularity: model.Month, Range: r, Policy: CarryForward})
	require.Len(t, buckets, 2, "range bounds the span even past the last entry")
	assert.Equal(t, "500", buckets[0].Opening.String(), "pre-range net folded in")
	assert.Equal(t, "600", buckets[0].Closing.String())
	assert.Equal(t, "600", buckets[1].Closing.String(), "post-range entries excluded")
}

func TestAggregate_RangeReset(t *testing.T) {
	l := buildLedger(
		txn(date(2024, time.January, 10), "antes", "500"),
		txn(date(2024, time.March, 10), "dentro", "100"),
	)
	r := &model.DateRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	buckets := Aggregate(l, Options{Granularity: model.Month, Range: r, Policy: ResetToZero, StartingBalance: dec("20")})
	require.Len(t, buckets, 1)
	assert.Equal(t, "20", buckets[0].Opening.String(), "pre-range net discarded")
	assert.Equal(t, "120", buckets[0].Closing.String())
}

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, Aggregate(nil, Options{Granularity: model.Month}))
}
