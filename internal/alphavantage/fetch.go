package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 2 << 10

// RawResponse is an unparsed provider body together with the operation that
// produced it.
type RawResponse struct {
	Operation   Operation
	Body        []byte
	ContentType string
	// URL is the request URL with the API key redacted.
	URL string
}

// Fetch validates op, performs a single GET and returns the raw body. It
// never retries. Validation errors are returned before any request is made;
// transport failures are returned as *TransportError.
func (c *Client) Fetch(ctx context.Context, op Operation) (RawResponse, error) {
	u, err := BuildURL(c.baseURL, op, c.key)
	if err != nil {
		return RawResponse{}, err
	}
	redacted := Redact(u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return RawResponse{}, &TransportError{URL: redacted, Err: fmt.Errorf("creating request: %w", redactErr(err, redacted))}
	}
	req.Header = c.header.Clone()

	c.logger.Debug("fetching", zap.String("url", redacted))
	start := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return RawResponse{}, &TransportError{URL: redacted, Err: fmt.Errorf("performing request: %w", redactErr(err, redacted))}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return RawResponse{}, &TransportError{URL: redacted, StatusCode: res.StatusCode, Body: string(b)}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return RawResponse{}, &TransportError{URL: redacted, Err: fmt.Errorf("reading body: %w", redactErr(err, redacted))}
	}

	c.logger.Debug("fetched",
		zap.String("url", redacted),
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return RawResponse{
		Operation:   op,
		Body:        body,
		ContentType: res.Header.Get("Content-Type"),
		URL:         redacted,
	}, nil
}

// redactErr masks the URL carried by a *url.Error. net/http reports the full
// request URL, API key included.
func redactErr(err error, redacted string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = redacted
	}
	return err
}
