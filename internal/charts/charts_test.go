package charts_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/StockAnalyzer/internal/analysis"
	"github.com/dyike/StockAnalyzer/internal/charts"
)

func returnSeries(symbol string) *analysis.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := &analysis.Series{Symbol: symbol, HasDailyReturn: true, HasCumulativeReturn: true}
	closes := []float64{10, 11, 12.1}
	for i, c := range closes {
		row := analysis.Row{
			Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100,
			DailyReturn: math.NaN(), CumulativeReturn: c / closes[0],
		}
		if i > 0 {
			row.DailyReturn = c/closes[i-1] - 1
		}
		series.Rows = append(series.Rows, row)
	}
	return series
}

func TestRender_WritesBothCharts(t *testing.T) {
	dir := t.TempDir()
	var opened []string
	renderer := charts.NewRenderer(dir, true).WithOpener(func(path string) error {
		opened = append(opened, path)
		return nil
	})

	paths, err := renderer.Render("TSLA", returnSeries("IBM"))
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(dir, "TSLA", "IBM_close.html"), paths[0])
	assert.Equal(t, filepath.Join(dir, "TSLA", "IBM_cumulative_return.html"), paths[1])
	assert.Equal(t, paths, opened)

	closePage, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(closePage), "Closing price for IBM")
	assert.Contains(t, string(closePage), "2024-01-03")

	returnPage, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(returnPage), "Cumulative daily return for IBM")
}

func TestRender_NoOpen(t *testing.T) {
	called := false
	renderer := charts.NewRenderer(t.TempDir(), false).WithOpener(func(string) error {
		called = true
		return nil
	})

	_, err := renderer.Render("AAPL", returnSeries("AAPL"))
	require.NoError(t, err)
	assert.False(t, called)
}

func TestRender_OpenFailureIsNotFatal(t *testing.T) {
	renderer := charts.NewRenderer(t.TempDir(), true).WithOpener(func(string) error {
		return errors.New("no display")
	})

	paths, err := renderer.Render("AAPL", returnSeries("AAPL"))
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestRender_RequiresReturnSeries(t *testing.T) {
	renderer := charts.NewRenderer(t.TempDir(), false)

	_, err := renderer.Render("AAPL", nil)
	assert.ErrorIs(t, err, analysis.ErrDataNotCleaned)

	series := returnSeries("AAPL")
	series.HasCumulativeReturn = false
	_, err = renderer.Render("AAPL", series)
	assert.ErrorIs(t, err, charts.ErrReturnSeriesMissing)
}
