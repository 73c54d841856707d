// Package pipeline runs the fetch, clean and derive steps for one ticker and
// enforces their order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dyike/StockAnalyzer/internal/analysis"
	"github.com/dyike/StockAnalyzer/internal/dataflows"
)

// Fetcher retrieves the raw daily series for a symbol.
//
//go:generate mockgen -package=pipeline_test -destination=mock_fetcher_test.go -source=pipeline.go Fetcher
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (*dataflows.Payload, dataflows.FetchOutcome, error)
}

// Stage is the last step a Pipeline completed.
type Stage int

const (
	StageUninitialized Stage = iota
	StageFetched
	StageCleaned
	StageMetricsComputed
	StageReturnSeriesComputed
)

func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageFetched:
		return "fetched"
	case StageCleaned:
		return "cleaned"
	case StageMetricsComputed:
		return "metrics_computed"
	case StageReturnSeriesComputed:
		return "return_series_computed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

var (
	ErrMetricsNotComputed = errors.New("metrics have not been computed")
	ErrStageCompleted     = errors.New("stage already completed")
)

// StageError reports an operation invoked while the pipeline was in the wrong
// stage. Err is one of analysis.ErrEmptyDataset, analysis.ErrDataNotCleaned,
// ErrMetricsNotComputed or ErrStageCompleted.
type StageError struct {
	Op   string
	Want Stage
	Got  Stage
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: requires stage %s, pipeline is %s: %v", e.Op, e.Want, e.Got, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a completed run.
type Result struct {
	// Symbol is the requested ticker.
	Symbol string
	// EffectiveSymbol labels titles and filenames; it is the fallback ticker
	// when the provider was rate limited.
	EffectiveSymbol string
	Outcome         dataflows.FetchOutcome
	Series          *analysis.Series
	Summary         analysis.Summary
}

// Pipeline owns the state of one ticker's analysis. It is not safe for
// concurrent use.
type Pipeline struct {
	fetcher Fetcher
	symbol  string

	stage           Stage
	outcome         dataflows.FetchOutcome
	effectiveSymbol string
	payload         *dataflows.Payload
	series          *analysis.Series
	summary         analysis.Summary
}

// New creates a pipeline for symbol.
func New(fetcher Fetcher, symbol string) *Pipeline {
	symbol = dataflows.NormalizeSymbol(symbol)
	return &Pipeline{
		fetcher:         fetcher,
		symbol:          symbol,
		effectiveSymbol: symbol,
	}
}

func (p *Pipeline) Stage() Stage {
	return p.stage
}

func (p *Pipeline) Outcome() dataflows.FetchOutcome {
	return p.outcome
}

// Result returns the current state. Series and Summary are only meaningful
// once the corresponding stages have completed.
func (p *Pipeline) Result() Result {
	return Result{
		Symbol:          p.symbol,
		EffectiveSymbol: p.effectiveSymbol,
		Outcome:         p.outcome,
		Series:          p.series,
		Summary:         p.summary,
	}
}

// Run executes every stage in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	steps := []func() error{
		func() error { return p.Fetch(ctx) },
		p.Clean,
		p.ComputeMetrics,
		p.AddCumulativeReturn,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return p.Result(), err
		}
	}
	return p.Result(), nil
}

// Fetch retrieves the raw payload. A rejected ticker or transport failure
// leaves the pipeline uninitialized.
func (p *Pipeline) Fetch(ctx context.Context) error {
	if p.stage != StageUninitialized {
		return &StageError{Op: "fetch", Want: StageUninitialized, Got: p.stage, Err: ErrStageCompleted}
	}

	payload, outcome, err := p.fetcher.Fetch(ctx, p.symbol)
	p.outcome = outcome
	if err != nil {
		return fmt.Errorf("fetch %s: %w", p.symbol, err)
	}
	if payload == nil {
		return fmt.Errorf("fetch %s: %w", p.symbol, analysis.ErrEmptyDataset)
	}

	p.payload = payload
	if payload.EffectiveSymbol != "" {
		p.effectiveSymbol = payload.EffectiveSymbol
	}
	p.stage = StageFetched

	if payload.Substituted() {
		slog.Info("using fallback dataset", "symbol", p.symbol, "effective_symbol", p.effectiveSymbol)
	}
	slog.Debug("pipeline stage complete", "symbol", p.symbol, "stage", p.stage, "outcome", outcome)
	return nil
}

// Clean converts the fetched payload into a series. The payload is released
// afterwards.
func (p *Pipeline) Clean() error {
	if p.stage != StageFetched {
		err := analysis.ErrEmptyDataset
		if p.stage > StageFetched {
			err = ErrStageCompleted
		}
		return &StageError{Op: "clean", Want: StageFetched, Got: p.stage, Err: err}
	}

	series, err := analysis.Clean(p.payload)
	if err != nil {
		return fmt.Errorf("clean %s: %w", p.effectiveSymbol, err)
	}

	p.payload = nil
	p.series = series
	p.stage = StageCleaned

	slog.Debug("pipeline stage complete", "symbol", p.symbol, "stage", p.stage, "rows", series.Len())
	return nil
}

// ComputeMetrics adds the daily return column and computes the summary.
func (p *Pipeline) ComputeMetrics() error {
	if p.stage != StageCleaned {
		err := analysis.ErrDataNotCleaned
		if p.stage > StageCleaned {
			err = ErrStageCompleted
		}
		return &StageError{Op: "compute metrics", Want: StageCleaned, Got: p.stage, Err: err}
	}

	series, summary, err := analysis.ComputeMetrics(p.series)
	if err != nil {
		return fmt.Errorf("compute metrics %s: %w", p.effectiveSymbol, err)
	}

	p.series = series
	p.summary = summary
	p.stage = StageMetricsComputed

	slog.Debug("pipeline stage complete", "symbol", p.symbol, "stage", p.stage, "returns", summary.Count)
	return nil
}

// AddCumulativeReturn adds the cumulative return column.
func (p *Pipeline) AddCumulativeReturn() error {
	if p.stage != StageMetricsComputed {
		var err error
		switch {
		case p.stage < StageCleaned:
			err = analysis.ErrDataNotCleaned
		case p.stage == StageCleaned:
			err = ErrMetricsNotComputed
		default:
			err = ErrStageCompleted
		}
		return &StageError{Op: "add cumulative return", Want: StageMetricsComputed, Got: p.stage, Err: err}
	}

	series, err := analysis.AddCumulativeReturn(p.series)
	if err != nil {
		return fmt.Errorf("add cumulative return %s: %w", p.effectiveSymbol, err)
	}

	p.series = series
	p.stage = StageReturnSeriesComputed

	slog.Debug("pipeline stage complete", "symbol", p.symbol, "stage", p.stage)
	return nil
}
