// Package query runs one operation end to end: fetch, then normalize.
package query

import (
	"context"
	"time"

	"go.uber.org/zap"

	"avapi/internal/alphavantage"
	"avapi/internal/normalize"
	"avapi/internal/tabular"
)

// Fetcher returns the raw provider body for an operation.
type Fetcher interface {
	Fetch(ctx context.Context, op alphavantage.Operation) (alphavantage.RawResponse, error)
}

// Runner turns operations into tabular results.
type Runner struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewRunner returns a Runner using f. A nil logger discards output.
func NewRunner(f Fetcher, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{fetcher: f, logger: logger}
}

// Run validates op, fetches it once and normalizes the body. Validation
// errors are returned before the fetcher is called.
func (r *Runner) Run(ctx context.Context, op alphavantage.Operation) (*tabular.Result, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	log := r.logger.With(
		zap.String("domain", string(op.Domain)),
		zap.String("kind", string(op.Kind)),
		zap.String("symbol", op.Symbol),
	)

	start := time.Now()
	raw, err := r.fetcher.Fetch(ctx, op)
	if err != nil {
		return nil, err
	}

	res, err := normalize.Normalize(raw)
	if err != nil {
		log.Debug("normalize failed",
			zap.String("url", raw.URL),
			zap.String("content_type", raw.ContentType),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("normalized",
		zap.Int("records", res.Len()),
		zap.Strings("columns", res.Columns()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
