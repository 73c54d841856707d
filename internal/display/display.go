package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/StockAnalyzer/internal/dataflows"
	"github.com/dyike/StockAnalyzer/internal/pipeline"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(24)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))
)

// ResultsDisplay handles the display of one ticker's results
type ResultsDisplay struct {
	out     io.Writer
	primary string
}

// NewResultsDisplay creates a results display writing to out. A nil writer
// means stdout.
func NewResultsDisplay(out io.Writer, primary string) *ResultsDisplay {
	return &ResultsDisplay{
		out:     writerOrStdout(out),
		primary: primary,
	}
}

// DisplayAnalysisResults shows the summary statistics and where the charts
// and table were written.
func (d *ResultsDisplay) DisplayAnalysisResults(result pipeline.Result, artifacts []string) {
	d.showHeader(result)
	d.showSummary(result)
	d.showArtifacts(artifacts)
	fmt.Fprintln(d.out)
}

func (d *ResultsDisplay) showHeader(result pipeline.Result) {
	title := fmt.Sprintf("📊 Daily returns for %s", result.EffectiveSymbol)
	if result.Series != nil && result.Series.Len() > 0 {
		dates := result.Series.Dates()
		title += fmt.Sprintf(" | %s to %s | %d rows", dates[0], dates[len(dates)-1], result.Series.Len())
	}
	fmt.Fprintln(d.out, headerStyle.Render(title))

	if result.Outcome == dataflows.OutcomeRateLimited {
		d.warn(fmt.Sprintf("%s was rate limited; showing bundled %s data instead", result.Symbol, result.EffectiveSymbol))
	}
}

func (d *ResultsDisplay) showSummary(result pipeline.Result) {
	for _, line := range result.Summary.Lines() {
		fmt.Fprintf(d.out, "  %s %s\n", labelStyle.Render(line.Label+":"), valueStyle.Render(line.Value))
	}
}

func (d *ResultsDisplay) showArtifacts(artifacts []string) {
	if len(artifacts) == 0 {
		return
	}
	fmt.Fprintln(d.out)
	for _, path := range artifacts {
		fmt.Fprintf(d.out, "  💾 %s\n", path)
	}
}

func (d *ResultsDisplay) warn(message string) {
	DisplayWarning(d.out, message)
}

// DisplayBatchSummary reports how many tickers finished.
func DisplayBatchSummary(out io.Writer, succeeded, failed []string) {
	if len(failed) == 0 {
		DisplaySuccess(out, fmt.Sprintf("Analyzed %s", strings.Join(succeeded, ", ")))
		return
	}
	fmt.Fprintln(writerOrStdout(out), errorStyle.Render(fmt.Sprintf("❌ %d of %d tickers failed: %s",
		len(failed), len(failed)+len(succeeded), strings.Join(failed, ", "))))
}

// DisplayError shows formatted error messages
func DisplayError(err error, context string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("❌ Error in %s: %v", context, err)))
}

// DisplayWarning shows formatted warning messages
func DisplayWarning(out io.Writer, message string) {
	fmt.Fprintln(writerOrStdout(out), warningStyle.Render("⚠️  Warning: "+message))
}

// DisplaySuccess shows formatted success messages
func DisplaySuccess(out io.Writer, message string) {
	fmt.Fprintln(writerOrStdout(out), successStyle.Render("✅ "+message))
}

// DisplayInfo shows formatted info messages
func DisplayInfo(out io.Writer, message string) {
	fmt.Fprintln(writerOrStdout(out), infoStyle.Render("ℹ️  "+message))
}

func writerOrStdout(out io.Writer) io.Writer {
	if out == nil {
		return os.Stdout
	}
	return out
}
