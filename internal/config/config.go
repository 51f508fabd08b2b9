// Package config holds the request configuration: reporting options, source
// profiles and scenario assumptions. A configuration problem aborts the whole
// request before any document is touched, since partial processing cannot
// resolve it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/davidentech/flujo-caja-v2/internal/flow"
	"github.com/davidentech/flujo-caja-v2/internal/model"
	"github.com/davidentech/flujo-caja-v2/internal/profile"
)

// ConfigurationError reports an invalid or missing configuration value.
type ConfigurationError struct {
	Field  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Detail)
}

const dateLayout = "2006-01-02"

// DateRange bounds the reporting window, inclusive on both ends.
type DateRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Assumption is the YAML form of a scenario assumption. Monetary fields are
// strings so they parse to exact decimals.
type Assumption struct {
	AppliesFrom  int    `yaml:"applies_from_period"`
	IncomeDelta  string `yaml:"recurring_income_delta,omitempty"`
	ExpenseDelta string `yaml:"recurring_expense_delta,omitempty"`
	GrowthRate   string `yaml:"growth_rate,omitempty"`
}

// Config is the top-level flujo.yaml request configuration.
type Config struct {
	Granularity       string     `yaml:"granularity"`
	StartingBalance   string     `yaml:"starting_balance,omitempty"`
	BalancePolicy     string     `yaml:"balance_policy,omitempty"` // carry | reset
	DateRange         *DateRange `yaml:"date_range,omitempty"`
	FutureHorizonDays int        `yaml:"future_horizon_days,omitempty"`
	TrendWindow       int        `yaml:"trend_window,omitempty"`
	ScenarioPeriods   int        `yaml:"scenario_periods,omitempty"`

	// SourceProfiles adds to or overrides the built-in profiles, keyed by
	// profile name. Documents reference profiles by that name.
	SourceProfiles map[string]*profile.Profile `yaml:"source_profiles,omitempty"`

	Assumptions []Assumption `yaml:"scenario_assumptions,omitempty"`

	granularity model.Granularity
	starting    decimal.Decimal
	dateRange   *model.DateRange
	assumptions []model.ScenarioAssumption
	profiles    map[string]*profile.Profile
}

// Default returns a Config with sensible defaults for a fresh request.
func Default() *Config {
	return &Config{
		Granularity:       string(model.Month),
		BalancePolicy:     string(flow.CarryForward),
		FutureHorizonDays: 366,
		TrendWindow:       7,
		ScenarioPeriods:   6,
	}
}

// Load reads a flujo.yaml file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks every field, fills defaults and caches parsed values for
// the typed accessors. Any failure is a ConfigurationError.
func (c *Config) Validate() error {
	if c.Granularity == "" {
		c.Granularity = string(model.Month)
	}
	g, err := model.ParseGranularity(c.Granularity)
	if err != nil {
		return &ConfigurationError{Field: "granularity", Detail: err.Error()}
	}
	c.granularity = g

	c.starting = decimal.Zero
	if c.StartingBalance != "" {
		d, err := decimal.NewFromString(c.StartingBalance)
		if err != nil {
			return &ConfigurationError{Field: "starting_balance", Detail: fmt.Sprintf("%q is not a decimal", c.StartingBalance)}
		}
		c.starting = d
	}

	switch flow.BalancePolicy(c.BalancePolicy) {
	case flow.CarryForward, flow.ResetToZero:
	case "":
		c.BalancePolicy = string(flow.CarryForward)
	default:
		return &ConfigurationError{Field: "balance_policy", Detail: fmt.Sprintf("unknown policy %q", c.BalancePolicy)}
	}

	c.dateRange = nil
	if c.DateRange != nil {
		start, err := time.Parse(dateLayout, c.DateRange.Start)
		if err != nil {
			return &ConfigurationError{Field: "date_range.start", Detail: err.Error()}
		}
		end, err := time.Parse(dateLayout, c.DateRange.End)
		if err != nil {
			return &ConfigurationError{Field: "date_range.end", Detail: err.Error()}
		}
		if end.Before(start) {
			return &ConfigurationError{Field: "date_range", Detail: "end before start"}
		}
		c.dateRange = &model.DateRange{Start: start, End: end}
	}

	if c.FutureHorizonDays < 0 {
		return &ConfigurationError{Field: "future_horizon_days", Detail: "must not be negative"}
	}
	if c.FutureHorizonDays == 0 {
		c.FutureHorizonDays = 366
	}
	if c.TrendWindow == 0 {
		c.TrendWindow = 7
	}
	if c.ScenarioPeriods < 0 {
		return &ConfigurationError{Field: "scenario_periods", Detail: "must not be negative"}
	}

	c.profiles = profile.Builtin()
	for name, p := range c.SourceProfiles {
		if p == nil {
			return &ConfigurationError{Field: "source_profiles." + name, Detail: "empty profile"}
		}
		if p.Name == "" {
			p.Name = name
		}
		if err := p.Validate(); err != nil {
			return &ConfigurationError{Field: "source_profiles." + name, Detail: err.Error()}
		}
		c.profiles[name] = p
	}

	c.assumptions = c.assumptions[:0]
	for i, a := range c.Assumptions {
		parsed, err := a.parse()
		if err != nil {
			return &ConfigurationError{Field: fmt.Sprintf("scenario_assumptions[%d]", i), Detail: err.Error()}
		}
		c.assumptions = append(c.assumptions, parsed)
	}
	return nil
}

func (a Assumption) parse() (model.ScenarioAssumption, error) {
	out := model.ScenarioAssumption{AppliesFrom: a.AppliesFrom}
	if out.AppliesFrom < 0 {
		return out, fmt.Errorf("applies_from_period must not be negative")
	}
	var err error
	if out.IncomeDelta, err = parseDecimal(a.IncomeDelta); err != nil {
		return out, fmt.Errorf("recurring_income_delta: %w", err)
	}
	if out.ExpenseDelta, err = parseDecimal(a.ExpenseDelta); err != nil {
		return out, fmt.Errorf("recurring_expense_delta: %w", err)
	}
	if out.GrowthRate, err = parseDecimal(a.GrowthRate); err != nil {
		return out, fmt.Errorf("growth_rate: %w", err)
	}
	return out, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// GranularityValue returns the parsed granularity. Valid after Validate.
func (c *Config) GranularityValue() model.Granularity { return c.granularity }

// Starting returns the parsed starting balance. Valid after Validate.
func (c *Config) Starting() decimal.Decimal { return c.starting }

// Range returns the parsed date range, or nil. Valid after Validate.
func (c *Config) Range() *model.DateRange { return c.dateRange }

// Policy returns the balance policy. Valid after Validate.
func (c *Config) Policy() flow.BalancePolicy { return flow.BalancePolicy(c.BalancePolicy) }

// Horizon returns how far beyond "now" a transaction date may lie.
func (c *Config) Horizon() time.Duration {
	return time.Duration(c.FutureHorizonDays) * 24 * time.Hour
}

// AssumptionValues returns the parsed scenario assumptions in supplied order.
func (c *Config) AssumptionValues() []model.ScenarioAssumption { return c.assumptions }

// Profile resolves a profile name against config plus built-ins.
func (c *Config) Profile(name string) (*profile.Profile, error) {
	p, ok := c.profiles[name]
	if !ok {
		return nil, &ConfigurationError{Field: "source_profiles", Detail: fmt.Sprintf("unknown profile %q", name)}
	}
	return p, nil
}
