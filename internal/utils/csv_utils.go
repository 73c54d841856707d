package utils

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dyike/StockAnalyzer/internal/analysis"
)

type CSVManager struct {
	basePath string
}

func NewCSVManager(basePath string) *CSVManager {
	return &CSVManager{
		basePath: basePath,
	}
}

// SeriesPath returns where the table for series is written when it was
// requested as primary.
func (c *CSVManager) SeriesPath(primary, symbol string) string {
	return filepath.Join(c.basePath, primary, fmt.Sprintf("%s_daily.csv", symbol))
}

// WriteSeriesToCSV writes the cleaned table, including any derived columns, to
// <base>/<primary>/<symbol>_daily.csv and returns the path.
func (c *CSVManager) WriteSeriesToCSV(primary string, series *analysis.Series) (string, error) {
	if series == nil {
		return "", analysis.ErrDataNotCleaned
	}

	filePath := c.SeriesPath(primary, series.Symbol)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{analysis.ColumnDate}
	headers = append(headers, analysis.PriceColumns...)
	if series.HasDailyReturn {
		headers = append(headers, analysis.ColumnDailyReturn)
	}
	if series.HasCumulativeReturn {
		headers = append(headers, analysis.ColumnCumulativeReturn)
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}

	for _, row := range series.Rows {
		record := []string{
			row.Date.Format(analysis.DateLayout),
			strconv.FormatFloat(row.Open, 'f', 4, 64),
			strconv.FormatFloat(row.High, 'f', 4, 64),
			strconv.FormatFloat(row.Low, 'f', 4, 64),
			strconv.FormatFloat(row.Close, 'f', 4, 64),
			strconv.FormatFloat(row.Volume, 'f', 0, 64),
		}
		if series.HasDailyReturn {
			record = append(record, formatReturn(row.DailyReturn))
		}
		if series.HasCumulativeReturn {
			record = append(record, formatReturn(row.CumulativeReturn))
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return filePath, nil
}

func formatReturn(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
