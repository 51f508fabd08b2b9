// Package sample provides the built-in demonstration dataset: one full year
// of daily activity generated from a fixed seed, so every run of the engine
// sees bit-identical demo input.
package sample

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidentech/flujo-caja-v2/internal/model"
)

// Source identifies the demo dataset on its transactions.
const Source = "demo-2024"

// Transactions returns the 2024 demo ledger input: one income and one
// expense entry per calendar day.
func Transactions() []model.Transaction {
	rng := rand.New(rand.NewSource(42))
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

	var txns []model.Transaction
	row := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		income := 500 + rng.Float64()*1500
		expense := 300 + rng.Float64()*1500
		txns = append(txns,
			model.Transaction{
				Date:        d,
				Description: "Ingreso simulado",
				Amount:      round2(income),
				Category:    "Ingresos",
				Source:      Source,
				RowRef:      row,
			},
			model.Transaction{
				Date:        d,
				Description: "Egreso simulado",
				Amount:      round2(expense).Neg(),
				Category:    "Egresos",
				Source:      Source,
				RowRef:      row + 1,
			},
		)
		row += 2
	}
	return txns
}

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(math.Round(v*100) / 100)
}
