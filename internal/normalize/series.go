package normalize

import (
	"fmt"

	"avapi/internal/alphavantage"
	"avapi/internal/tabular"
)

// barValues is the number of leading inner values read per timestamp.
const barValues = 5

// normalizeSeries reads the series object named by alphavantage.SeriesKey.
// Inner field names carry provider-specific numeric prefixes and currency
// suffixes, so the first five inner values are taken by position and names
// are never looked at.
func normalizeSeries(root *node, op alphavantage.Operation) (*tabular.Result, error) {
	key, ok := alphavantage.SeriesKey(op)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s has no series field", ErrMalformedResponse, op.Domain, op.Kind)
	}
	if root.kind != objectNode {
		return nil, fmt.Errorf("%w: expected object", ErrMalformedResponse)
	}
	series, ok := root.get(key)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedResponse, key)
	}
	if series.kind != objectNode {
		return nil, fmt.Errorf("%w: %q is not an object", ErrMalformedResponse, key)
	}

	bars := make([]tabular.Bar, 0, len(series.entries))
	for _, e := range series.entries {
		inner := e.value
		if inner.kind != objectNode || len(inner.entries) < barValues {
			return nil, fmt.Errorf("%w: %q: want at least %d values", ErrMalformedResponse, e.key, barValues)
		}
		values := make([]string, barValues)
		for i := range values {
			v := inner.entries[i].value
			if v.kind != scalarNode {
				return nil, fmt.Errorf("%w: %q: value %d is not a scalar", ErrMalformedResponse, e.key, i+1)
			}
			values[i] = v.text
		}
		bar, err := tabular.ParseBar(e.key, values)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		bars = append(bars, bar)
	}
	return tabular.FromBars(bars), nil
}
