// Package rowparse turns raw table rows into transaction candidates under a
// source profile. Parsing is pure: a row either yields a candidate or a
// structured rejection, never an error that halts the batch.
package rowparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidentech/flujo-caja-v2/internal/extract"
	"github.com/davidentech/flujo-caja-v2/internal/model"
	"github.com/davidentech/flujo-caja-v2/internal/profile"
)

// Reason classifies why a row was not a usable transaction.
type Reason string

const (
	// BadDate marks a row whose date cell matched none of the profile's layouts
	// or fell outside the plausible range.
	BadDate Reason = "bad_date"
	// BadAmount marks a row whose amount cells could not be parsed to a
	// non-zero value.
	BadAmount Reason = "bad_amount"
	// NotATransaction marks headers, footers and subtotal rows. These are
	// expected in every statement and are not data-quality problems.
	NotATransaction Reason = "not_a_transaction"
)

// Rejection records one skipped row and why.
type Rejection struct {
	Source string `json:"source"`
	Row    int    `json:"row"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Options bound the plausible date range. Now is injected so parsing stays
// deterministic under test.
type Options struct {
	Now           time.Time
	FutureHorizon time.Duration
}

// minDate rejects obvious placeholder dates (1900-01-01 and friends).
var minDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// columns holds resolved cell indices; -1 means unmapped.
type columns struct {
	date, desc, amount, debit, credit, balance int
}

// ParseTable parses every row of a table under a profile. Header-keyword
// columns are resolved from the first row that matches all of them; rows
// before that are rejected as NotATransaction.
func ParseTable(tbl extract.Table, prof *profile.Profile, source string, opts Options) ([]model.Transaction, []Rejection) {
	cols, pending := fixedColumns(prof)

	var txns []model.Transaction
	var rejects []Rejection
	for i, row := range tbl.Rows {
		if pending {
			if resolveHeader(&cols, prof, row) {
				pending = false
				rejects = append(rejects, Rejection{Source: source, Row: i, Reason: NotATransaction, Detail: "header row"})
				continue
			}
			rejects = append(rejects, Rejection{Source: source, Row: i, Reason: NotATransaction, Detail: "before header"})
			continue
		}
		txn, rej := parseRow(row, cols, prof, source, i, opts)
		if rej != nil {
			rejects = append(rejects, *rej)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, rejects
}

// parseRow converts one raw row into a transaction candidate or a rejection.
func parseRow(row []string, cols columns, prof *profile.Profile, source string, rowIdx int, opts Options) (model.Transaction, *Rejection) {
	reject := func(reason Reason, detail string) (model.Transaction, *Rejection) {
		return model.Transaction{}, &Rejection{Source: source, Row: rowIdx, Reason: reason, Detail: detail}
	}

	if nonEmpty(row) < prof.MinCells {
		return reject(NotATransaction, "too few cells")
	}

	desc := strings.TrimSpace(cell(row, cols.desc))
	if desc == "" {
		return reject(NotATransaction, "empty description")
	}
	// Footer keywords match the date cell only: header and subtotal rows put
	// their label there, while a real transaction's description may legally
	// contain words like TOTAL.
	dateCell := strings.TrimSpace(cell(row, cols.date))
	if isFooter(prof, dateCell) {
		return reject(NotATransaction, "footer keyword")
	}

	date, err := parseDate(dateCell, prof.DateLayouts)
	if err != nil {
		return reject(BadDate, fmt.Sprintf("%q matched no layout", dateCell))
	}
	if date.Before(minDate) {
		return reject(BadDate, fmt.Sprintf("%s before %s", date.Format("2006-01-02"), minDate.Format("2006-01-02")))
	}
	if !opts.Now.IsZero() && date.After(opts.Now.Add(opts.FutureHorizon)) {
		return reject(BadDate, fmt.Sprintf("%s beyond future horizon", date.Format("2006-01-02")))
	}

	amount, rej := parseAmount(row, cols, prof)
	if rej != "" {
		return reject(BadAmount, rej)
	}

	txn := model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    prof.Classify(desc),
		Source:      source,
		RowRef:      rowIdx,
	}

	if cols.balance >= 0 {
		if bal, err := parseNumber(cell(row, cols.balance), prof); err == nil {
			txn.Balance = &bal
		}
	}
	return txn, nil
}

// parseAmount derives the signed amount: from the single signed column, or
// from whichever of the debit/credit pair is populated.
func parseAmount(row []string, cols columns, prof *profile.Profile) (decimal.Decimal, string) {
	if cols.amount >= 0 {
		raw := cell(row, cols.amount)
		v, err := parseNumber(raw, prof)
		if err != nil {
			return decimal.Zero, fmt.Sprintf("amount %q: unparsable", raw)
		}
		if v.IsZero() {
			return decimal.Zero, "zero amount"
		}
		return v, ""
	}

	debitRaw := strings.TrimSpace(cell(row, cols.debit))
	creditRaw := strings.TrimSpace(cell(row, cols.credit))
	switch {
	case debitRaw == "" && creditRaw == "":
		return decimal.Zero, "neither debit nor credit populated"
	case debitRaw != "" && creditRaw != "":
		return decimal.Zero, "both debit and credit populated"
	case creditRaw != "":
		v, err := parseNumber(creditRaw, prof)
		if err != nil || v.IsZero() {
			return decimal.Zero, fmt.Sprintf("credit %q: unparsable or zero", creditRaw)
		}
		return v.Abs(), ""
	default:
		v, err := parseNumber(debitRaw, prof)
		if err != nil || v.IsZero() {
			return decimal.Zero, fmt.Sprintf("debit %q: unparsable or zero", debitRaw)
		}
		return v.Abs().Neg(), ""
	}
}

// noise strips currency symbols and whitespace before numeric parsing,
// keeping digits, sign and both separator characters.
var noise = regexp.MustCompile(`[^0-9\-.,]`)

func parseNumber(raw string, prof *profile.Profile) (decimal.Decimal, error) {
	s := noise.ReplaceAllString(raw, "")
	if prof.ThousandsSep != "" {
		s = strings.ReplaceAll(s, prof.ThousandsSep, "")
	}
	if prof.DecimalSep != "" && prof.DecimalSep != "." {
		s = strings.ReplaceAll(s, prof.DecimalSep, ".")
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty after cleanup")
	}
	return decimal.NewFromString(s)
}

func parseDate(s string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matched %q", s)
}

func isFooter(prof *profile.Profile, s string) bool {
	upper := strings.ToUpper(s)
	for _, w := range prof.FooterWords {
		if strings.Contains(upper, strings.ToUpper(w)) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func nonEmpty(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

// fixedColumns resolves index-mapped columns immediately; pending reports
// whether any header-keyword column still needs a header row.
func fixedColumns(prof *profile.Profile) (columns, bool) {
	cols := columns{date: -1, desc: -1, amount: -1, debit: -1, credit: -1, balance: -1}
	pending := false
	resolve := func(dst *int, c *profile.Column) {
		if c == nil {
			return
		}
		if c.Header != "" {
			pending = true
			return
		}
		*dst = c.Index
	}
	resolve(&cols.date, prof.Date)
	resolve(&cols.desc, prof.Description)
	resolve(&cols.amount, prof.Amount)
	resolve(&cols.debit, prof.Debit)
	resolve(&cols.credit, prof.Credit)
	resolve(&cols.balance, prof.Balance)
	return cols, pending
}

// resolveHeader tries to bind every header-keyword column against one row.
// It succeeds only when all keyword columns find a match, so stray prose
// lines cannot half-resolve a mapping.
func resolveHeader(cols *columns, prof *profile.Profile, row []string) bool {
	find := func(c *profile.Column) int {
		if c == nil || c.Header == "" {
			return -2 // not header-mapped
		}
		keyword := strings.ToLower(c.Header)
		for i, cellText := range row {
			if strings.Contains(strings.ToLower(cellText), keyword) {
				return i
			}
		}
		return -1
	}

	targets := []struct {
		dst *int
		col *profile.Column
	}{
		{&cols.date, prof.Date},
		{&cols.desc, prof.Description},
		{&cols.amount, prof.Amount},
		{&cols.debit, prof.Debit},
		{&cols.credit, prof.Credit},
		{&cols.balance, prof.Balance},
	}

	resolved := make([]int, len(targets))
	for i, t := range targets {
		idx := find(t.col)
		if idx == -1 {
			return false
		}
		resolved[i] = idx
	}
	for i, t := range targets {
		if resolved[i] >= 0 {
			*t.dst = resolved[i]
		}
	}
	return true
}
