package analysis

import "math"

// AddCumulativeReturn orders the series by date and adds the compounded
// return column: Cumulative_Return[i] = (1+r[1]) * ... * (1+r[i]). The first
// row has no return of its own and starts the product at 1.0. An undefined
// return (0/0) contributes no factor, so its row repeats the previous value.
func AddCumulativeReturn(series *Series) (*Series, error) {
	if series == nil {
		return nil, ErrDataNotCleaned
	}

	out := series.chronological()
	returns := dailyReturns(out.Closes())

	product := 1.0
	for i := range out.Rows {
		if i > 0 && !math.IsNaN(returns[i]) {
			product *= 1 + returns[i]
		}
		out.Rows[i].CumulativeReturn = product
	}
	out.HasCumulativeReturn = true

	return out, nil
}
