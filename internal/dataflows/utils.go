package dataflows

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]+$`)

// maxSymbolLength leaves room for exchange-suffixed symbols such as
// RELIANCE.BSE or SHOP.TRT.
const maxSymbolLength = 32

// ValidateSymbol checks if a stock symbol is valid format
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > maxSymbolLength {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol %q: use letters, numbers, dots and hyphens only", symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// LoadFixture reads a stored daily time-series response from disk and checks
// that it has the shape of a successful API answer.
func LoadFixture(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFallbackUnavailable, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid json", ErrFallbackUnavailable, filePath)
	}
	if !Field(gjson.ParseBytes(data), KeyTimeSeries).IsObject() {
		return nil, fmt.Errorf("%w: %s has no %q object", ErrFallbackUnavailable, filePath, KeyTimeSeries)
	}
	return data, nil
}
