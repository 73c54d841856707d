// Package charts renders the per-ticker line charts as standalone HTML pages.
package charts

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/browser"

	"github.com/dyike/StockAnalyzer/internal/analysis"
)

var ErrReturnSeriesMissing = errors.New("cumulative return has not been computed")

// Opener shows a rendered file to the user.
type Opener func(path string) error

// Renderer writes charts under <baseDir>/<primary>/.
type Renderer struct {
	baseDir string
	open    bool
	opener  Opener
}

func NewRenderer(baseDir string, open bool) *Renderer {
	return &Renderer{
		baseDir: baseDir,
		open:    open,
		opener:  browser.OpenFile,
	}
}

// WithOpener replaces the browser launcher.
func (r *Renderer) WithOpener(opener Opener) *Renderer {
	r.opener = opener
	return r
}

// Render writes the closing price and cumulative return charts for series
// and returns their paths in that order.
func (r *Renderer) Render(primary string, series *analysis.Series) ([]string, error) {
	if series == nil {
		return nil, analysis.ErrDataNotCleaned
	}
	if !series.HasCumulativeReturn {
		return nil, ErrReturnSeriesMissing
	}

	dir := filepath.Join(r.baseDir, primary)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	closes := make([]float64, series.Len())
	cumulative := make([]float64, series.Len())
	for i, row := range series.Rows {
		closes[i] = row.Close
		cumulative[i] = row.CumulativeReturn
	}

	pages := []struct {
		file   string
		title  string
		series string
		axis   string
		values []float64
	}{
		{
			file:   series.Symbol + "_close.html",
			title:  fmt.Sprintf("Closing price for %s", series.Symbol),
			series: analysis.ColumnClose,
			axis:   "Price",
			values: closes,
		},
		{
			file:   series.Symbol + "_cumulative_return.html",
			title:  fmt.Sprintf("Cumulative daily return for %s", series.Symbol),
			series: analysis.ColumnCumulativeReturn,
			axis:   "Growth of 1",
			values: cumulative,
		},
	}

	paths := make([]string, 0, len(pages))
	for _, page := range pages {
		path := filepath.Join(dir, page.file)
		line := newLine(page.title, page.axis)
		line.SetXAxis(series.Dates()).
			AddSeries(page.series, lineData(page.values)).
			SetSeriesOptions(echarts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

		if err := writePage(path, line); err != nil {
			return paths, err
		}
		slog.Debug("chart written", "symbol", series.Symbol, "path", path)
		paths = append(paths, path)
	}

	if r.open {
		for _, path := range paths {
			if err := r.opener(path); err != nil {
				slog.Warn("failed to open chart", "path", path, "error", err)
			}
		}
	}

	return paths, nil
}

func newLine(title, yName string) *echarts.Line {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1200px",
			Height:    "600px",
		}),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: analysis.ColumnDate}),
		echarts.WithYAxisOpts(opts.YAxis{Name: yName, Scale: opts.Bool(true)}),
		echarts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	return line
}

// lineData maps NaN to "-", which ECharts draws as a gap.
func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			items[i] = opts.LineData{Value: "-"}
			continue
		}
		items[i] = opts.LineData{Value: v}
	}
	return items
}

func writePage(path string, line *echarts.Line) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	if err := line.Render(file); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", filepath.Base(path), err)
	}
	return nil
}
