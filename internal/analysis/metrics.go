package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Summary holds statistics over the defined daily returns.
type Summary struct {
	Mean   float64
	StdDev float64
	Median float64
	Max    float64
	Min    float64
	// Count is the number of returns the statistics were computed from.
	Count int
}

// Line is a labelled, formatted statistic.
type Line struct {
	Label string
	Value string
}

// Lines returns the statistics with fixed labels, formatted to 5 decimals.
func (s Summary) Lines() []Line {
	return []Line{
		{Label: "Mean daily return", Value: formatStat(s.Mean)},
		{Label: "Standard deviation", Value: formatStat(s.StdDev)},
		{Label: "Median daily return", Value: formatStat(s.Median)},
		{Label: "Largest daily return", Value: formatStat(s.Max)},
		{Label: "Smallest daily return", Value: formatStat(s.Min)},
	}
}

func formatStat(v float64) string {
	return fmt.Sprintf("%.5f", v)
}

// ComputeMetrics orders the series by date, adds the Daily_Return column and
// summarizes it. The first row has no prior close; its return is NaN and is
// left out of the statistics. The input series is not modified.
func ComputeMetrics(series *Series) (*Series, Summary, error) {
	if series == nil {
		return nil, Summary{}, ErrDataNotCleaned
	}

	out := series.chronological()
	returns := dailyReturns(out.Closes())
	for i := range out.Rows {
		out.Rows[i].DailyReturn = returns[i]
	}
	out.HasDailyReturn = true

	defined := make([]float64, 0, len(returns))
	for _, r := range returns {
		if !math.IsNaN(r) {
			defined = append(defined, r)
		}
	}

	return out, summarize(defined), nil
}

// summarize uses the sample standard deviation (n-1 denominator).
func summarize(values []float64) Summary {
	nan := math.NaN()
	summary := Summary{Mean: nan, StdDev: nan, Median: nan, Max: nan, Min: nan, Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	summary.Mean, _ = stats.Mean(values)
	summary.Median, _ = stats.Median(values)
	summary.Max, _ = stats.Max(values)
	summary.Min, _ = stats.Min(values)
	if len(values) > 1 {
		summary.StdDev, _ = stats.StandardDeviationSample(values)
	}
	return summary
}
