package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/dyike/StockAnalyzer/internal/dataflows"
)

// Provider field names, in PriceColumns order.
var fieldKeys = []string{"1. open", "2. high", "3. low", "4. close", "5. volume"}

// Clean transposes the payload's date-keyed series into rows. Cells that are
// absent, empty or not numeric count as missing and any row with a missing
// cell is dropped. Rows keep the payload's key order; a date listed twice
// yields one row built from its last record.
func Clean(payload *dataflows.Payload) (*Series, error) {
	if payload == nil {
		return nil, ErrEmptyDataset
	}

	timeSeries := payload.TimeSeries()
	if !timeSeries.IsObject() {
		return nil, fmt.Errorf("%w: %s payload has no daily series", ErrEmptyDataset, payload.EffectiveSymbol)
	}

	// A repeated date keeps its first position and its last record.
	var keys []string
	records := make(map[string]gjson.Result)
	timeSeries.ForEach(func(key, record gjson.Result) bool {
		k := key.String()
		if _, seen := records[k]; !seen {
			keys = append(keys, k)
		}
		records[k] = record
		return true
	})

	series := &Series{Symbol: payload.EffectiveSymbol}
	dropped := 0
	for _, key := range keys {
		row, ok := parseRow(key, records[key])
		if !ok {
			dropped++
			continue
		}
		series.Rows = append(series.Rows, row)
	}

	if dropped > 0 {
		slog.Debug("dropped incomplete rows", "symbol", series.Symbol, "dropped", dropped, "kept", series.Len())
	}

	return series, nil
}

func parseRow(date string, record gjson.Result) (Row, bool) {
	day, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil || !record.IsObject() {
		return Row{}, false
	}

	var values [5]float64
	for i, key := range fieldKeys {
		v, ok := coerce(dataflows.Field(record, key))
		if !ok {
			return Row{}, false
		}
		values[i] = v
	}

	return Row{
		Date:             day,
		Open:             values[0],
		High:             values[1],
		Low:              values[2],
		Close:            values[3],
		Volume:           values[4],
		DailyReturn:      math.NaN(),
		CumulativeReturn: math.NaN(),
	}, true
}

// coerce converts a JSON cell into a finite number.
func coerce(cell gjson.Result) (float64, bool) {
	var text string
	switch cell.Type {
	case gjson.String:
		text = strings.TrimSpace(cell.Str)
	case gjson.Number:
		text = cell.Raw
	default:
		return 0, false
	}
	if text == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
