package alphavantage

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSymbol is returned when an operation has no symbol.
	ErrMissingSymbol = errors.New("symbol is required")
	// ErrMissingCounterSymbol is returned when an operation that pairs two
	// currencies has no counter symbol.
	ErrMissingCounterSymbol = errors.New("counter symbol is required")
)

// InvalidFunctionError reports a kind that is not offered for a domain.
type InvalidFunctionError struct {
	Domain Domain
	Name   string
}

func (e *InvalidFunctionError) Error() string {
	return fmt.Sprintf("invalid function argument for %s: '%s'", e.Domain, e.Name)
}

// InvalidIntervalError reports an intraday interval outside the allowed set.
type InvalidIntervalError struct {
	Interval string
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval option: '%s'", e.Interval)
}

// InvalidFormatError reports a response format the kind is not served in.
type InvalidFormatError struct {
	Kind   Kind
	Format Format
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format '%s' for %s", e.Format, e.Kind)
}

// TransportError reports a failed fetch: the request could not be performed
// or the provider answered with a non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s -> %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
