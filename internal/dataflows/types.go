package dataflows

import (
	"errors"
	"fmt"

	"github.com/dyike/StockAnalyzer/config"
	"github.com/tidwall/gjson"
)

// Config is an alias for the main application config
type Config = config.Config

// Top-level keys of a TIME_SERIES_DAILY response
const (
	KeyErrorMessage = "Error Message"
	KeyInformation  = "Information"
	KeyNote         = "Note"
	KeyMetaData     = "Meta Data"
	KeyTimeSeries   = "Time Series (Daily)"
)

var (
	ErrInvalidTickerOrKey  = errors.New("invalid ticker symbol or api key")
	ErrMalformedPayload    = errors.New("malformed quote payload")
	ErrFallbackUnavailable = errors.New("fallback dataset unavailable")
)

// TransportError reports a request that never produced a usable response body.
type TransportError struct {
	Symbol     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected http status %d", e.Symbol, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FetchOutcome classifies a quote API response.
type FetchOutcome int

const (
	OutcomeUnknown FetchOutcome = iota
	OutcomeSuccess
	OutcomeInvalidTickerOrKey
	OutcomeRateLimited
)

func (o FetchOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalidTickerOrKey:
		return "invalid_ticker_or_key"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Payload is a raw daily time-series response. Body is kept verbatim so the
// provider's key order survives until the cleaning step.
type Payload struct {
	// Symbol is the ticker that was requested.
	Symbol string
	// EffectiveSymbol labels everything derived from this payload. It differs
	// from Symbol when the fallback dataset was substituted.
	EffectiveSymbol string
	Outcome         FetchOutcome
	Body            []byte
}

// Substituted reports whether the payload is the fallback dataset.
func (p *Payload) Substituted() bool {
	return p.Outcome == OutcomeRateLimited
}

// TimeSeries returns the date-keyed series object.
func (p *Payload) TimeSeries() gjson.Result {
	return Field(gjson.ParseBytes(p.Body), KeyTimeSeries)
}

// MetaSymbol returns the symbol reported in the payload's metadata block, if any.
func (p *Payload) MetaSymbol() string {
	meta := Field(gjson.ParseBytes(p.Body), KeyMetaData)
	return Field(meta, "2. Symbol").String()
}

// Field looks up a direct child of obj by its exact key. Alpha Vantage keys
// contain dots and parentheses, which gjson paths would interpret.
func Field(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
			return false
		}
		return true
	})
	return found
}
