package dataflows

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const dailySeriesFunction = "TIME_SERIES_DAILY"

// AlphaVantageClient handles Alpha Vantage daily time-series requests
type AlphaVantageClient struct {
	client         *resty.Client
	apiKey         string
	fallbackFile   string
	fallbackSymbol string
}

// NewAlphaVantageClient creates a new Alpha Vantage client
func NewAlphaVantageClient(config *Config) *AlphaVantageClient {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(config.BaseURL, "/"))
	if config.RequestTimeout > 0 {
		client.SetTimeout(config.RequestTimeout)
	}

	return &AlphaVantageClient{
		client:         client,
		apiKey:         config.APIKey,
		fallbackFile:   config.FallbackFile,
		fallbackSymbol: NormalizeSymbol(config.FallbackSymbol),
	}
}

// Fetch requests the daily series for symbol and classifies the answer.
//
// An "Error Message" body yields OutcomeInvalidTickerOrKey and an error
// wrapping ErrInvalidTickerOrKey. An "Information" or "Note" body means the
// quota is exhausted: the fallback dataset is returned instead, labelled with
// the fallback symbol. Network failures are returned as *TransportError and
// never replaced by the fallback.
func (av *AlphaVantageClient) Fetch(ctx context.Context, symbol string) (*Payload, FetchOutcome, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, OutcomeInvalidTickerOrKey, fmt.Errorf("%w: %v", ErrInvalidTickerOrKey, err)
	}

	symbol = NormalizeSymbol(symbol)

	slog.Debug("requesting daily series", "symbol", symbol)
	resp, err := av.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": dailySeriesFunction,
			"symbol":   symbol,
			"apikey":   av.apiKey,
		}).
		Get("/query")

	if err != nil {
		return nil, OutcomeUnknown, &TransportError{Symbol: symbol, Err: err}
	}

	if resp.IsError() {
		return nil, OutcomeUnknown, &TransportError{
			Symbol:     symbol,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String()),
		}
	}

	return av.classify(symbol, resp.Body())
}

func (av *AlphaVantageClient) classify(symbol string, body []byte) (*Payload, FetchOutcome, error) {
	if !gjson.ValidBytes(body) {
		return nil, OutcomeUnknown, fmt.Errorf("%w: %s response is not valid json", ErrMalformedPayload, symbol)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, OutcomeUnknown, fmt.Errorf("%w: %s response is not an object", ErrMalformedPayload, symbol)
	}

	if msg := Field(root, KeyErrorMessage); msg.Exists() {
		slog.Debug("provider rejected request", "symbol", symbol, "message", msg.String())
		return nil, OutcomeInvalidTickerOrKey, fmt.Errorf("%w: %s", ErrInvalidTickerOrKey, symbol)
	}

	if info := rateLimitNotice(root); info.Exists() {
		slog.Warn("daily request limit reached, substituting fallback dataset",
			"symbol", symbol, "fallback", av.fallbackSymbol, "notice", info.String())
		return av.fallback(symbol)
	}

	if !Field(root, KeyTimeSeries).IsObject() {
		return nil, OutcomeUnknown, fmt.Errorf("%w: %s response has no %q object", ErrMalformedPayload, symbol, KeyTimeSeries)
	}

	return &Payload{
		Symbol:          symbol,
		EffectiveSymbol: symbol,
		Outcome:         OutcomeSuccess,
		Body:            body,
	}, OutcomeSuccess, nil
}

func (av *AlphaVantageClient) fallback(symbol string) (*Payload, FetchOutcome, error) {
	data, err := LoadFixture(av.fallbackFile)
	if err != nil {
		return nil, OutcomeRateLimited, err
	}

	payload := &Payload{
		Symbol:          symbol,
		EffectiveSymbol: av.fallbackSymbol,
		Outcome:         OutcomeRateLimited,
		Body:            data,
	}
	// The configured symbol labels the output even if the fixture says otherwise.
	if meta := payload.MetaSymbol(); meta != "" && !strings.EqualFold(meta, av.fallbackSymbol) {
		slog.Warn("fallback dataset metadata names a different symbol",
			"configured", av.fallbackSymbol, "metadata", meta, "file", av.fallbackFile)
	}
	return payload, OutcomeRateLimited, nil
}

func rateLimitNotice(root gjson.Result) gjson.Result {
	if info := Field(root, KeyInformation); info.Exists() {
		return info
	}
	return Field(root, KeyNote)
}
