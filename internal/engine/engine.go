// Package engine runs the extraction-and-aggregation pipeline for one
// request. Every call takes its full input set and configuration and returns
// a fresh result; there is no state shared between calls.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/davidentech/flujo-caja-v2/internal/config"
	"github.com/davidentech/flujo-caja-v2/internal/extract"
	"github.com/davidentech/flujo-caja-v2/internal/flow"
	"github.com/davidentech/flujo-caja-v2/internal/ledger"
	"github.com/davidentech/flujo-caja-v2/internal/model"
	"github.com/davidentech/flujo-caja-v2/internal/profile"
	"github.com/davidentech/flujo-caja-v2/internal/rowparse"
	"github.com/davidentech/flujo-caja-v2/internal/sample"
)

// Dataset is a pre-parsed tabular input: rows already split into cells,
// e.g. historical records exported from a prior session. Datasets go through
// the same row parser as document tables.
type Dataset struct {
	Source  string
	Profile string
	Rows    [][]string
}

// Request is one full pipeline invocation.
type Request struct {
	Documents []extract.Document
	Datasets  []Dataset
	UseSample bool
	Config    *config.Config

	// Now anchors the plausible-date horizon; zero means wall clock.
	Now time.Time
}

// DocumentError records a document that failed extraction. The batch
// continues without it.
type DocumentError struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	Err    string `json:"error"`
}

// Diagnostics is the data-quality report returned beside the results.
type Diagnostics struct {
	RunID          string                      `json:"run_id"`
	DocumentErrors []DocumentError             `json:"document_errors,omitempty"`
	RejectedRows   int                         `json:"rejected_rows"`
	Rejections     map[rowparse.Reason]int     `json:"rejections,omitempty"`
	Warnings       []ledger.InvariantViolation `json:"warnings,omitempty"`
}

// Result carries everything the presentation layer consumes.
type Result struct {
	Ledger        ledger.Ledger        `json:"ledger"`
	Buckets       []model.PeriodBucket `json:"periods"`
	Projections   []model.PeriodBucket `json:"projections,omitempty"`
	Trend         []flow.TrendPoint    `json:"trend,omitempty"`
	LiquidityDays int                  `json:"liquidity_days"`
	Diagnostics   Diagnostics          `json:"diagnostics"`
}

// Engine wires the extractors to the parsing and aggregation stages.
type Engine struct {
	registry *extract.Registry
	logger   zerolog.Logger
}

// New creates an Engine with the built-in extractors.
func New(logger zerolog.Logger) *Engine {
	return &Engine{registry: extract.DefaultRegistry(), logger: logger}
}

// docResult is one document's slot, filled behind the merge barrier.
type docResult struct {
	txns    []model.Transaction
	rejects []rowparse.Rejection
	err     *extract.ExtractionError
}

// Run executes the pipeline. Configuration errors abort before any document
// is processed; document and row failures are recovered into Diagnostics.
// Cancelling ctx abandons the request whole — partial extractions are
// discarded, never merged.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Resolve every profile up front so a bad reference aborts cleanly.
	docProfiles := make([]*profile.Profile, len(req.Documents))
	for i, doc := range req.Documents {
		p, err := cfg.Profile(doc.Profile)
		if err != nil {
			return nil, err
		}
		docProfiles[i] = p
	}
	setProfiles := make([]*profile.Profile, len(req.Datasets))
	for i, ds := range req.Datasets {
		p, err := cfg.Profile(ds.Profile)
		if err != nil {
			return nil, err
		}
		setProfiles[i] = p
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	opts := rowparse.Options{Now: now, FutureHorizon: cfg.Horizon()}

	// Documents extract independently in parallel; the Wait below is the
	// merge barrier — nothing is combined until every document finished
	// or failed.
	slots := make([]docResult, len(req.Documents))
	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range req.Documents {
		i, doc := i, doc
		g.Go(func() error {
			return e.runDocument(gctx, doc, docProfiles[i], opts, &slots[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	diag := Diagnostics{RunID: uuid.NewString(), Rejections: make(map[rowparse.Reason]int)}
	var candidates []model.Transaction
	for i, slot := range slots {
		if slot.err != nil {
			doc := req.Documents[i]
			diag.DocumentErrors = append(diag.DocumentErrors, DocumentError{
				Source: doc.Source, Path: doc.Path, Err: slot.err.Error(),
			})
			e.logger.Warn().Str("run_id", diag.RunID).Str("path", doc.Path).Err(slot.err).Msg("document skipped")
			continue
		}
		candidates = append(candidates, slot.txns...)
		tally(&diag, slot.rejects)
	}

	for i, ds := range req.Datasets {
		txns, rejects := rowparse.ParseTable(extract.Table{Rows: ds.Rows}, setProfiles[i], ds.Source, opts)
		candidates = append(candidates, txns...)
		tally(&diag, rejects)
	}

	if req.UseSample {
		candidates = append(candidates, sample.Transactions()...)
	}

	led := ledger.Normalize(candidates)
	diag.Warnings = ledger.Verify(led)
	for _, w := range diag.Warnings {
		e.logger.Warn().Str("run_id", diag.RunID).Str("check", w.Check).Msg(w.Detail)
	}

	buckets := flow.Aggregate(led, flow.Options{
		Granularity:     cfg.GranularityValue(),
		StartingBalance: cfg.Starting(),
		Range:           cfg.Range(),
		Policy:          cfg.Policy(),
	})

	res := &Result{Ledger: led, Buckets: buckets, Diagnostics: diag}
	if len(buckets) > 0 {
		anchor := buckets[len(buckets)-1]
		if cfg.ScenarioPeriods > 0 && len(cfg.AssumptionValues()) > 0 {
			res.Projections = flow.Project(anchor, cfg.GranularityValue(), cfg.AssumptionValues(), cfg.ScenarioPeriods)
		}
		res.Trend = flow.MovingAverage(buckets, cfg.TrendWindow)
		res.LiquidityDays, _ = flow.LiquidityDays(buckets)
	}

	e.logger.Info().
		Str("run_id", diag.RunID).
		Int("documents", len(req.Documents)).
		Int("document_errors", len(diag.DocumentErrors)).
		Int("transactions", len(led)).
		Int("rejected_rows", diag.RejectedRows).
		Int("periods", len(buckets)).
		Msg("request complete")
	return res, nil
}

// runDocument extracts and parses one document into its slot. Extraction
// errors are recorded, not returned: they must not cancel sibling documents.
func (e *Engine) runDocument(ctx context.Context, doc extract.Document, prof *profile.Profile, opts rowparse.Options, slot *docResult) error {
	ext, err := e.registry.ForFile(doc.Path)
	if err == nil {
		var tables []extract.Table
		tables, err = ext.Extract(ctx, doc.Path)
		if err == nil {
			for _, tbl := range tables {
				txns, rejects := rowparse.ParseTable(tbl, prof, doc.Source, opts)
				slot.txns = append(slot.txns, txns...)
				slot.rejects = append(slot.rejects, rejects...)
			}
			return nil
		}
	}

	var exErr *extract.ExtractionError
	if errors.As(err, &exErr) {
		slot.err = exErr
		return nil
	}
	return err
}

func tally(diag *Diagnostics, rejects []rowparse.Rejection) {
	for _, r := range rejects {
		diag.RejectedRows++
		diag.Rejections[r.Reason]++
	}
}
