package acquire

import (
	"context"
	"errors"
	"time"

	"github.com/hktitof/newsdigest"
)

// Fast-path retry defaults: one retry after 1s. Further retries would back
// off by DefaultBackoffFactor.
const (
	DefaultRetries       = 1
	DefaultInitialDelay  = 1 * time.Second
	DefaultBackoffFactor = 2.0
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*newsdigest.RenderResult, error)

// RetryFunc is called before each retry with the upcoming attempt number.
type RetryFunc func(attempt int, err error)

// DefaultRetryDelays returns the fast-path backoff: a single 1s delay.
func DefaultRetryDelays() []time.Duration {
	return BackoffDelays(DefaultRetries, DefaultInitialDelay, DefaultBackoffFactor)
}

// BackoffDelays returns retries delays starting at initial and growing by factor.
func BackoffDelays(retries int, initial time.Duration, factor float64) []time.Duration {
	delays := make([]time.Duration, 0, retries)
	d := initial
	for i := 0; i < retries; i++ {
		delays = append(delays, d)
		d = time.Duration(float64(d) * factor)
	}
	return delays
}

// FetchWithRetry calls fetch, retrying after each of delays while the error
// is retryable. onRetry, if provided, is called before each retry.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration, onRetry RetryFunc) (*newsdigest.RenderResult, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := fetch(ctx, url)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !Retryable(err) {
			break
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

// Retryable reports whether repeating the request could succeed. Context
// errors, invalid requests and responses the server answered definitively
// (4xx, or a 2xx with the wrong content type) are not retried.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || (errors.Is(err, context.DeadlineExceeded) && !isClientTimeout(err)) {
		return false
	}
	switch newsdigest.ErrorCode(err) {
	case newsdigest.EINVALID, newsdigest.EFORBIDDEN:
		return false
	case newsdigest.EFETCH:
		status := newsdigest.ErrorStatus(err)
		return status == 0 || status >= 500 || status == 429
	}
	return true
}

// isClientTimeout reports whether err is a per-request client timeout
// rather than the caller's deadline.
func isClientTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
