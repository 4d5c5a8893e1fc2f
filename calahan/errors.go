package calahan

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMarketData is the sentinel all market data errors wrap, so callers can
// match the whole family with errors.Is.
var ErrMarketData = errors.New("market data error")

// MarketDataUnavailableError reports that market data could not be
// retrieved because of a transport problem.
type MarketDataUnavailableError struct {
	// Context describes the action being attempted.
	Context string
	// Cause is the underlying transport error, if any.
	Cause error
}

func (e *MarketDataUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("market data unavailable for %s: %v", e.Context, e.Cause)
	}
	return fmt.Sprintf("market data unavailable for %s", e.Context)
}

func (e *MarketDataUnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMarketData}
	}
	return []error{ErrMarketData, e.Cause}
}

// MarketDataRequestError reports that Yahoo! rejected the market data
// request.
type MarketDataRequestError struct {
	StatusCode int
	URL        string
	Reason     string
}

func (e *MarketDataRequestError) Error() string {
	msg := fmt.Sprintf("market data request rejected with HTTP %d for %s", e.StatusCode, e.URL)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *MarketDataRequestError) Unwrap() error { return ErrMarketData }

// IsRetryable returns true if the rejection should trigger a retry.
func (e *MarketDataRequestError) IsRetryable() bool {
	return e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

// MarketDataMalformedError reports that market data could not be parsed or
// validated.
type MarketDataMalformedError struct {
	// Context identifies the data being parsed.
	Context string
}

func (e *MarketDataMalformedError) Error() string {
	return fmt.Sprintf("received malformed market data while processing %s", e.Context)
}

func (e *MarketDataMalformedError) Unwrap() error { return ErrMarketData }
