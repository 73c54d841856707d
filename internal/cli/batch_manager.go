package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dyike/StockAnalyzer/internal/dataflows"
	"github.com/dyike/StockAnalyzer/internal/display"
)

var ErrTickersFailed = errors.New("analysis failed")

// BatchResult represents the result of a single ticker in a batch
type BatchResult struct {
	Symbol          string
	EffectiveSymbol string
	Status          BatchStatus
	Error           string
	Artifacts       []string
	Duration        time.Duration
}

// BatchStatus represents the status of a batch item
type BatchStatus int

const (
	BatchPending BatchStatus = iota
	BatchCompleted
	BatchFailed
)

func (bs BatchStatus) String() string {
	switch bs {
	case BatchPending:
		return "pending"
	case BatchCompleted:
		return "completed"
	case BatchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BatchManager runs the analyzer over the tickers of one invocation. Tickers
// run one after another and share no state; a failing ticker does not stop
// the ones after it.
type BatchManager struct {
	analyzer *Analyzer
	out      io.Writer
}

func NewBatchManager(analyzer *Analyzer, out io.Writer) *BatchManager {
	if out == nil {
		out = os.Stdout
	}
	return &BatchManager{
		analyzer: analyzer,
		out:      out,
	}
}

// Run analyzes every ticker. The first ticker names the output directory.
// The returned error wraps ErrTickersFailed when any ticker failed.
func (bm *BatchManager) Run(ctx context.Context, tickers []string) ([]BatchResult, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no ticker symbols provided")
	}

	primary := dataflows.NormalizeSymbol(tickers[0])
	results := make([]BatchResult, len(tickers))
	for i, ticker := range tickers {
		results[i] = BatchResult{Symbol: dataflows.NormalizeSymbol(ticker), Status: BatchPending}
	}

	var succeeded, failed []string
	for i := range results {
		res := &results[i]
		start := time.Now()
		display.DisplayInfo(bm.out, fmt.Sprintf("Analyzing %s (%d/%d)", res.Symbol, i+1, len(results)))

		result, artifacts, err := bm.analyzer.AnalyzeTicker(ctx, primary, res.Symbol)
		res.Duration = time.Since(start)
		res.EffectiveSymbol = result.EffectiveSymbol
		res.Artifacts = artifacts

		if err != nil {
			res.Status = BatchFailed
			res.Error = describeFailure(res.Symbol, err)
			failed = append(failed, res.Symbol)
			slog.Debug("ticker failed", "symbol", res.Symbol, "error", err)
			display.DisplayError(errors.New(res.Error), "analysis")
			continue
		}

		res.Status = BatchCompleted
		succeeded = append(succeeded, res.Symbol)
		slog.Debug("ticker completed", "symbol", res.Symbol, "effective_symbol", res.EffectiveSymbol, "duration", res.Duration)
	}

	display.DisplayBatchSummary(bm.out, succeeded, failed)

	if len(failed) > 0 {
		return results, fmt.Errorf("%w: %s", ErrTickersFailed, strings.Join(failed, ", "))
	}
	return results, nil
}
