// Package normalize turns raw provider bodies into tabular results.
//
// Three body shapes are recognised:
//   - CSV with a header row, used for series and quotes by default;
//   - a nested JSON series, an object keyed by timestamp under a series
//     field, read positionally as open, high, low, close, volume;
//   - any other JSON object (or array of objects), flattened into one
//     record per object with dotted paths as column names.
package normalize

import (
	"bytes"
	"errors"
	"fmt"

	"avapi/internal/alphavantage"
	"avapi/internal/tabular"
)

var (
	// ErrMalformedResponse is returned when a body does not have the
	// expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrEmptyResponse is returned when a well-formed body holds no records.
	ErrEmptyResponse = errors.New("empty response")
)

// providerMessageKeys are the top-level fields the provider answers with
// instead of data.
var providerMessageKeys = []string{"Error Message", "Note", "Information"}

// ProviderError carries a message the provider returned in place of data.
// It matches ErrMalformedResponse with errors.Is.
type ProviderError struct {
	Field   string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s", e.Field, e.Message)
}

func (e *ProviderError) Unwrap() error { return ErrMalformedResponse }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalize parses raw into a Result. The shape is taken from the body, not
// from the format that was requested, so a provider message sent in reply to
// a CSV request is still recognised. Records keep the provider order; when
// the operation has a positive limit only the first Limit records are kept.
// Normalize has no side effects and returns structurally equal results for
// equal inputs.
func Normalize(raw alphavantage.RawResponse) (*tabular.Result, error) {
	op := raw.Operation
	body := bytes.TrimSpace(bytes.TrimPrefix(raw.Body, utf8BOM))
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}

	var (
		res *tabular.Result
		err error
	)
	if body[0] == '{' || body[0] == '[' {
		res, err = normalizeJSON(body, op)
	} else {
		res, err = normalizeCSV(body)
	}
	if err != nil {
		return nil, err
	}
	if res.Len() == 0 {
		return nil, ErrEmptyResponse
	}
	return res.Truncate(op.Limit), nil
}

func normalizeJSON(body []byte, op alphavantage.Operation) (*tabular.Result, error) {
	root, err := decodeOrdered(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if perr := providerMessage(root); perr != nil {
		return nil, perr
	}
	if op.Kind.IsSeries() {
		return normalizeSeries(root, op)
	}
	return normalizeFlat(root)
}

// providerMessage reports a body that is nothing but a provider message.
func providerMessage(root *node) *ProviderError {
	if root.kind != objectNode || len(root.entries) != 1 {
		return nil
	}
	e := root.entries[0]
	if e.value.kind != scalarNode {
		return nil
	}
	for _, k := range providerMessageKeys {
		if e.key == k {
			return &ProviderError{Field: k, Message: e.value.text}
		}
	}
	return nil
}

func normalizeCSV(body []byte) (*tabular.Result, error) {
	res, err := tabular.Parse(bytes.NewReader(body))
	if errors.Is(err, tabular.ErrNoHeader) {
		return nil, ErrEmptyResponse
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return res, nil
}
