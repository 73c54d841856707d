// Package analysis turns a raw daily time series into a cleaned table and
// derives return statistics from it.
package analysis

import (
	"errors"
	"math"
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

// Column names, in canonical order.
const (
	ColumnDate             = "Date"
	ColumnOpen             = "Open"
	ColumnHigh             = "High"
	ColumnLow              = "Low"
	ColumnClose            = "Close"
	ColumnVolume           = "Volume"
	ColumnDailyReturn      = "Daily_Return"
	ColumnCumulativeReturn = "Cumulative_Return"
)

// PriceColumns is the column set every cleaned row carries.
var PriceColumns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

var (
	// ErrEmptyDataset is returned when cleaning is attempted without a payload.
	ErrEmptyDataset = errors.New("no dataset loaded")
	// ErrDataNotCleaned is returned when a derivation runs before cleaning.
	ErrDataNotCleaned = errors.New("dataset has not been cleaned")
)

// Row is one trading day. DailyReturn and CumulativeReturn are NaN until the
// corresponding column has been derived.
type Row struct {
	Date             time.Time
	Open             float64
	High             float64
	Low              float64
	Close            float64
	Volume           float64
	DailyReturn      float64
	CumulativeReturn float64
}

// Series is a cleaned daily table for one symbol.
type Series struct {
	Symbol              string
	Rows                []Row
	HasDailyReturn      bool
	HasCumulativeReturn bool
}

func (s *Series) Len() int {
	return len(s.Rows)
}

// Closes returns the close column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row.Close
	}
	return out
}

// Dates returns the date column formatted as YYYY-MM-DD.
func (s *Series) Dates() []string {
	out := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row.Date.Format(DateLayout)
	}
	return out
}

// IsChronological reports whether rows are in ascending date order.
func (s *Series) IsChronological() bool {
	return sort.SliceIsSorted(s.Rows, func(i, j int) bool {
		return s.Rows[i].Date.Before(s.Rows[j].Date)
	})
}

// Clone returns a deep copy of s.
func (s *Series) Clone() *Series {
	out := *s
	out.Rows = append([]Row(nil), s.Rows...)
	return &out
}

// chronological returns a copy of s sorted by date. Providers list the most
// recent day first, so returns must never be derived from payload order.
func (s *Series) chronological() *Series {
	out := s.Clone()
	if s.IsChronological() {
		return out
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Date.Before(out.Rows[j].Date)
	})
	return out
}

// dailyReturns computes Close[i]/Close[i-1] - 1. The first element has no
// prior close and is NaN.
func dailyReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = closes[i]/closes[i-1] - 1
	}
	return out
}
