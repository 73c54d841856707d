package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/StockAnalyzer/internal/dataflows"
)

// tickerValidator rejects input that can never be a ticker before it is
// sent upstream.
func tickerValidator(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("invalid input type")
	}
	return dataflows.ValidateSymbol(str)
}

// PromptForTicker prompts the user to enter a stock ticker symbol
func PromptForTicker() (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, MSFT, IBM):",
		Help:    "Letters, digits, dots and hyphens; exchange suffixes such as RELIANCE.BSE are allowed",
	}

	if err := survey.AskOne(prompt, &ticker, survey.WithValidator(tickerValidator)); err != nil {
		return "", err
	}

	return dataflows.NormalizeSymbol(ticker), nil
}

// PromptForSecondTicker optionally asks for a ticker to analyze after the
// first. It returns "" when the user declines.
func PromptForSecondTicker() (string, error) {
	compare := false
	if err := survey.AskOne(&survey.Confirm{
		Message: "Analyze a second ticker?",
		Default: false,
	}, &compare); err != nil {
		return "", err
	}
	if !compare {
		return "", nil
	}
	return PromptForTicker()
}

// PromptForSave asks whether the cleaned table should be written to CSV
func PromptForSave() (bool, error) {
	save := false
	err := survey.AskOne(&survey.Confirm{
		Message: "Save the daily table as CSV?",
		Default: false,
	}, &save)
	return save, err
}
