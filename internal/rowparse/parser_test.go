package rowparse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidentech/flujo-caja-v2/internal/extract"
	"github.com/davidentech/flujo-caja-v2/internal/profile"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testOptions() Options {
	return Options{Now: date(2024, time.June, 1), FutureHorizon: 366 * 24 * time.Hour}
}

func extractoProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p, ok := profile.Builtin()["extracto"]
	require.True(t, ok)
	return p
}

func TestParseTable_Extracto(t *testing.T) {
	tbl := extract.Table{Rows: [][]string{
		{"FECHA", "DESCRIPCIÓN", "SUCURSAL", "DOC", "VALOR", "SALDO"},
		{"02/01/2024", "ABONO NÓMINA ENERO", "CENTRO", "1001", "2,500.00", "12,500.00"},
		{"05/01/2024", "RETIRO CAJERO", "NORTE", "1002", "-400.00", "12,100.00"},
		{"", "", "", "", "", ""},
		{"SALDO FINAL", "", "", "", "", "12,414.50"},
	}}

	txns, rejects := ParseTable(tbl, extractoProfile(t), "banco-a", testOptions())
	require.Len(t, txns, 2)
	require.Len(t, rejects, 3)

	first := txns[0]
	assert.Equal(t, date(2024, time.January, 2), first.Date, "day-first layout")
	assert.Equal(t, "ABONO NÓMINA ENERO", first.Description)
	assert.Equal(t, "2500", first.Amount.String(), "thousands separator stripped")
	assert.Equal(t, "Ingresos", first.Category)
	assert.Equal(t, "banco-a", first.Source)
	assert.Equal(t, 1, first.RowRef)
	require.NotNil(t, first.Balance)
	assert.Equal(t, "12500", first.Balance.String())

	second := txns[1]
	assert.True(t, second.Amount.IsNegative())
	assert.Equal(t, "Egresos", second.Category)

	for _, r := range rejects {
		assert.Equal(t, NotATransaction, r.Reason)
	}
}

func TestParseTable_FooterKeywordOnlyOnDateCell(t *testing.T) {
	tbl := extract.Table{Rows: [][]string{
		{"10/03/2024", "PAGO TOTAL FACTURA", "CENTRO", "3001", "-250.00", ""},
		{"SALDO FINAL", "CIERRE", "", "", "12,414.50", ""},
	}}

	txns, rejects := ParseTable(tbl, extractoProfile(t), "src", testOptions())

	// TOTAL in a description must not make the row look like a footer.
	require.Len(t, txns, 1)
	assert.Equal(t, "PAGO TOTAL FACTURA", txns[0].Description)
	assert.Equal(t, "-250", txns[0].Amount.String())

	require.Len(t, rejects, 1)
	assert.Equal(t, NotATransaction, rejects[0].Reason)
	assert.Equal(t, "footer keyword", rejects[0].Detail)
}

func TestParseTable_BadDate(t *testing.T) {
	tbl := extract.Table{Rows: [][]string{
		{"31/02/2024", "FECHA IMPOSIBLE", "", "", "100.00", ""},
		{"02/01/1899", "DEMASIADO ANTIGUA", "", "", "100.00", ""},
		{"02/01/2030", "DEMASIADO FUTURA", "", "", "100.00", ""},
	}}

	txns, rejects := ParseTable(tbl, extractoProfile(t), "src", testOptions())
	assert.Empty(t, txns)
	require.Len(t, rejects, 3)
	for i, r := range rejects {
		assert.Equal(t, BadDate, r.Reason, "row %d", i)
		assert.Equal(t, i, r.Row)
		assert.NotEmpty(t, r.Detail)
	}
}

func TestParseTable_BadAmount(t *testing.T) {
	tbl := extract.Table{Rows: [][]string{
		{"02/01/2024", "SIN VALOR", "", "", "n/a", ""},
		{"02/01/2024", "VALOR CERO", "", "", "0.00", ""},
	}}

	txns, rejects := ParseTable(tbl, extractoProfile(t), "src", testOptions())
	assert.Empty(t, txns)
	require.Len(t, rejects, 2)
	assert.Equal(t, BadAmount, rejects[0].Reason)
	assert.Equal(t, BadAmount, rejects[1].Reason)
}

func TestParseTable_HeaderKeywordResolution(t *testing.T) {
	p, ok := profile.Builtin()["historico"]
	require.True(t, ok)

	tbl := extract.Table{Rows: [][]string{
		{"Informe generado 2024"},
		{"Fecha", "Descripción", "Valor"},
		{"2024-01-02", "Venta mostrador", "150.00"},
		{"2024-01-03", "Compra insumos", "-80.25"},
	}}

	txns, rejects := ParseTable(tbl, p, "historico", testOptions())
	require.Len(t, txns, 2)
	require.Len(t, rejects, 2)
	assert.Equal(t, "before header", rejects[0].Detail)
	assert.Equal(t, "header row", rejects[1].Detail)
	assert.Equal(t, "150", txns[0].Amount.String())
	assert.Equal(t, date(2024, time.January, 3), txns[1].Date)
}

func TestParseTable_DebitCreditColumns(t *testing.T) {
	p := &profile.Profile{
		Name:        "split",
		Date:        profile.ByIndex(0),
		Description: profile.ByIndex(1),
		Debit:       profile.ByIndex(2),
		Credit:      profile.ByIndex(3),
		DateLayouts: []string{"2006-01-02"},
	}
	require.NoError(t, p.Validate())

	tbl := extract.Table{Rows: [][]string{
		{"2024-03-01", "Pago servicios", "120.00", ""},
		{"2024-03-02", "Consignación", "", "300.00"},
		{"2024-03-03", "Ambas columnas", "10.00", "20.00"},
		{"2024-03-04", "Ninguna columna", "", ""},
	}}

	txns, rejects := ParseTable(tbl, p, "split", testOptions())
	require.Len(t, txns, 2)
	assert.Equal(t, "-120", txns[0].Amount.String(), "debit is an outflow")
	assert.Equal(t, "300", txns[1].Amount.String(), "credit is an inflow")
	assert.Nil(t, txns[0].Balance, "no balance column mapped")

	require.Len(t, rejects, 2)
	assert.Equal(t, BadAmount, rejects[0].Reason)
	assert.Equal(t, BadAmount, rejects[1].Reason)
}

func TestParseTable_NoFutureLimitWithoutNow(t *testing.T) {
	tbl := extract.Table{Rows: [][]string{
		{"02/01/2030", "FUTURA", "", "", "100.00", ""},
	}}
	txns, rejects := ParseTable(tbl, extractoProfile(t), "src", Options{})
	assert.Len(t, txns, 1)
	assert.Empty(t, rejects)
}

func TestParseNumber(t *testing.T) {
	p := extractoProfile(t)
	cases := []struct {
		raw  string
		want string
	}{
		{"1,234.56", "1234.56"},
		{"$ 1,000", "1000"},
		{"-35.50", "-35.5"},
		{" 42 ", "42"},
	}
	for _, c := range cases {
		got, err := parseNumber(c.raw, p)
		require.NoError(t, err, c.raw)
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)), "%s => %s", c.raw, got)
	}

	_, err := parseNumber("abc", p)
	assert.Error(t, err)
}
