// Package profile describes how a source format maps raw statement rows to
// transactions. Profiles are declarative configuration: different banks put
// dates, descriptions and amounts in different columns, so every source
// carries a profile instead of the parser guessing.
package profile

import (
	"fmt"
	"regexp"
)

// Column selects a cell of a raw row, either by zero-based index or, when
// Header is set, by a case-insensitive keyword match against the table's
// header row. A nil *Column means the field is not mapped for this source.
type Column struct {
	Index  int    `yaml:"index"`
	Header string `yaml:"header,omitempty"`
}

// ByIndex maps a field to a fixed cell position.
func ByIndex(i int) *Column { return &Column{Index: i} }

// ByHeader maps a field to the column whose header contains the keyword.
func ByHeader(keyword string) *Column { return &Column{Index: -1, Header: keyword} }

// CategoryRule tags transactions whose description matches Pattern.
type CategoryRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// Profile declares the column mapping and parsing rules for one source format.
type Profile struct {
	Name        string  `yaml:"name"`
	Date        *Column `yaml:"date"`
	Description *Column `yaml:"description"`

	// Amount is the single signed-amount column. Sources that split the
	// direction into separate columns map Debit and Credit instead.
	Amount *Column `yaml:"amount,omitempty"`
	Debit  *Column `yaml:"debit,omitempty"`
	Credit *Column `yaml:"credit,omitempty"`

	// Balance optionally maps the statement's running-balance column,
	// enabling the ledger's balance cross-check.
	Balance *Column `yaml:"balance,omitempty"`

	// DateLayouts are Go reference layouts tried in order.
	DateLayouts []string `yaml:"date_layouts"`

	ThousandsSep string `yaml:"thousands_sep,omitempty"`
	DecimalSep   string `yaml:"decimal_sep,omitempty"`

	// MinCells is the minimum count of non-empty cells for a row to be
	// considered a transaction at all. FooterWords mark header, footer
	// and subtotal rows by keyword in the date cell, where such rows put
	// their label; descriptions are never matched.
	MinCells    int      `yaml:"min_cells,omitempty"`
	FooterWords []string `yaml:"footer_words,omitempty"`

	Categories       []CategoryRule `yaml:"categories,omitempty"`
	FallbackCategory string         `yaml:"fallback_category,omitempty"`

	matchers []categoryMatcher
}

type categoryMatcher struct {
	name string
	re   *regexp.Regexp
}

// Validate checks the mapping is complete and compiles category patterns.
// It must be called before the profile is handed to the row parser.
func (p *Profile) Validate() error {
	if p.Date == nil {
		return fmt.Errorf("profile %s: date column not mapped", p.Name)
	}
	if p.Description == nil {
		return fmt.Errorf("profile %s: description column not mapped", p.Name)
	}
	split := p.Debit != nil && p.Credit != nil
	if p.Amount == nil && !split {
		return fmt.Errorf("profile %s: map either an amount column or both debit and credit columns", p.Name)
	}
	if p.Amount != nil && split {
		return fmt.Errorf("profile %s: amount and debit/credit mappings are mutually exclusive", p.Name)
	}
	if (p.Debit == nil) != (p.Credit == nil) {
		return fmt.Errorf("profile %s: debit and credit columns must be mapped together", p.Name)
	}
	if len(p.DateLayouts) == 0 {
		return fmt.Errorf("profile %s: no date layouts", p.Name)
	}
	if p.DecimalSep != "" && p.DecimalSep == p.ThousandsSep {
		return fmt.Errorf("profile %s: identical thousands and decimal separators", p.Name)
	}
	if p.MinCells == 0 {
		p.MinCells = 2
	}

	p.matchers = p.matchers[:0]
	for _, rule := range p.Categories {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("profile %s: category %s: %w", p.Name, rule.Name, err)
		}
		p.matchers = append(p.matchers, categoryMatcher{name: rule.Name, re: re})
	}
	return nil
}

// Classify returns the category for a description, the fallback when rules
// exist but none match, and "" when the profile has no category rules.
func (p *Profile) Classify(description string) string {
	for _, m := range p.matchers {
		if m.re.MatchString(description) {
			return m.name
		}
	}
	if len(p.matchers) > 0 {
		return p.FallbackCategory
	}
	return ""
}
