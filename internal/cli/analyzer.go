package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dyike/StockAnalyzer/config"
	"github.com/dyike/StockAnalyzer/internal/charts"
	"github.com/dyike/StockAnalyzer/internal/dataflows"
	"github.com/dyike/StockAnalyzer/internal/display"
	"github.com/dyike/StockAnalyzer/internal/pipeline"
	"github.com/dyike/StockAnalyzer/internal/utils"
)

// AnalyzeOptions are the per-invocation switches of the analyze command
type AnalyzeOptions struct {
	SaveCSV    bool
	OpenCharts bool
}

// Analyzer runs the pipeline for one ticker and presents the result
type Analyzer struct {
	fetcher  pipeline.Fetcher
	renderer *charts.Renderer
	csv      *utils.CSVManager
	save     bool
	out      io.Writer
}

// NewAnalyzer wires the Alpha Vantage client, chart renderer and CSV writer
// from cfg.
func NewAnalyzer(cfg *config.Config, opts AnalyzeOptions, out io.Writer) *Analyzer {
	if out == nil {
		out = os.Stdout
	}
	return &Analyzer{
		fetcher:  dataflows.NewAlphaVantageClient(cfg),
		renderer: charts.NewRenderer(cfg.ResultsDir, opts.OpenCharts),
		csv:      utils.NewCSVManager(cfg.ResultsDir),
		save:     opts.SaveCSV,
		out:      out,
	}
}

// AnalyzeTicker fetches, cleans and derives returns for symbol, then prints
// the summary and writes the charts (and CSV when enabled) under
// <results>/<primary>/.
func (a *Analyzer) AnalyzeTicker(ctx context.Context, primary, symbol string) (pipeline.Result, []string, error) {
	result, err := pipeline.New(a.fetcher, symbol).Run(ctx)
	if err != nil {
		return result, nil, err
	}

	artifacts, err := a.renderer.Render(primary, result.Series)
	if err != nil {
		return result, artifacts, fmt.Errorf("render charts for %s: %w", result.EffectiveSymbol, err)
	}

	if a.save {
		path, err := a.csv.WriteSeriesToCSV(primary, result.Series)
		if err != nil {
			return result, artifacts, fmt.Errorf("save %s: %w", result.EffectiveSymbol, err)
		}
		artifacts = append(artifacts, path)
	}

	display.NewResultsDisplay(a.out, primary).DisplayAnalysisResults(result, artifacts)
	return result, artifacts, nil
}

// describeFailure turns a pipeline error into the message shown to the user.
func describeFailure(symbol string, err error) string {
	var transportErr *dataflows.TransportError
	switch {
	case errors.Is(err, dataflows.ErrInvalidTickerOrKey):
		return fmt.Sprintf("%s: invalid ticker symbol or API key", symbol)
	case errors.As(err, &transportErr):
		return fmt.Sprintf("%s: could not reach the data provider (%v)", symbol, transportErr.Err)
	case errors.Is(err, dataflows.ErrFallbackUnavailable):
		return fmt.Sprintf("%s: rate limited and no fallback dataset is available", symbol)
	case errors.Is(err, dataflows.ErrMalformedPayload):
		return fmt.Sprintf("%s: unexpected response from the data provider", symbol)
	default:
		return fmt.Sprintf("%s: %v", symbol, err)
	}
}
