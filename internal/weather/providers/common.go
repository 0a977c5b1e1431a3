package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// delay returns the wait before retry number attempt (zero based).
func (b BackoffConfig) delay(attempt int) time.Duration {
	d := b.InitialInterval << attempt
	if b.MaxInterval > 0 && (d > b.MaxInterval || d <= 0) {
		d = b.MaxInterval
	}
	return d
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

// DefaultBackoff is used by sources that are not given an explicit policy.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// maxDocumentSize caps how much of a dataset response body is read.
const maxDocumentSize = 32 << 20

// document is one successful dataset download. NotModified is set when the
// server answered a conditional request with 304; Body is then empty.
type document struct {
	Body        []byte
	ETag        string
	NotModified bool
}

// fetchDocument downloads a dataset document with retries, exponential
// backoff and a circuit breaker. A non-empty etag is sent as If-None-Match.
// Client errors other than 429 fail immediately.
func fetchDocument(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	logger *zap.SugaredLogger,
	url, etag string,
) (document, error) {
	if cfg.Client == nil {
		return document{}, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return document{}, errInvalidConfig
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return document{}, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return document{}, err
		}
		req.Header.Set("Accept", "application/json")
		if etag != "" {
			req.Header.Set("If-None-Match", etag)
		}

		result, err := cb.Execute(func() (interface{}, error) {
			return download(cfg.Client, req)
		})
		if err == nil {
			return result.(document), nil
		}

		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return document{}, fmt.Errorf("%w: %v", errCircuitOpen, err)
		case isPermanent(err):
			return document{}, errors.Unwrap(err)
		case attempt >= cfg.Backoff.MaxRetries:
			return document{}, err
		}

		wait := cfg.Backoff.delay(attempt)
		logger.Debugw("retrying dataset fetch", "url", url, "attempt", attempt+1, "delay", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return document{}, ctx.Err()
		case <-timer.C:
		}
	}
}

// download performs a single request and classifies the response status.
func download(client *http.Client, req *http.Request) (document, error) {
	resp, err := client.Do(req)
	if err != nil {
		return document{}, err
	}
	defer resp.Body.Close()

	switch code := resp.StatusCode; {
	case code == http.StatusNotModified:
		return document{ETag: resp.Header.Get("ETag"), NotModified: true}, nil
	case code == http.StatusTooManyRequests:
		return document{}, errRateLimited
	case code >= 500:
		return document{}, fmt.Errorf("%w: %d", errServerError, code)
	case code < 200 || code >= 300:
		return document{}, &permanentError{fmt.Errorf("%w: %d", errUnexpected, code)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return document{}, err
	}
	return document{Body: body, ETag: resp.Header.Get("ETag")}, nil
}

// permanentError marks a failure that retrying cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func isPermanent(err error) bool {
	var perm *permanentError
	return errors.As(err, &perm)
}
