package acquire_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/acquire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noDelay = []time.Duration{0}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns first success without retrying", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, url string) (*newsdigest.RenderResult, error) {
			calls++
			return &newsdigest.RenderResult{URL: url, HTML: "<p>ok</p>"}, nil
		}

		res, err := acquire.FetchWithRetry(context.Background(), "https://example.com", fetch, noDelay, nil)

		require.NoError(t, err)
		assert.Equal(t, "<p>ok</p>", res.HTML)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries a network failure once", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var retried []int
		fetch := func(_ context.Context, url string) (*newsdigest.RenderResult, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection reset by peer")
			}
			return &newsdigest.RenderResult{URL: url}, nil
		}

		_, err := acquire.FetchWithRetry(context.Background(), "https://example.com", fetch, noDelay, func(attempt int, _ error) {
			retried = append(retried, attempt)
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, []int{2}, retried)
	})

	t.Run("returns last error after exhausting retries", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (*newsdigest.RenderResult, error) {
			calls++
			return nil, newsdigest.StatusErrorf(newsdigest.EFETCH, 503, "HTTP 503")
		}

		_, err := acquire.FetchWithRetry(context.Background(), "https://example.com", fetch, noDelay, nil)

		require.Error(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 503, newsdigest.ErrorStatus(err))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (*newsdigest.RenderResult, error) {
			calls++
			return nil, newsdigest.StatusErrorf(newsdigest.EFETCH, 403, "HTTP 403")
		}

		_, err := acquire.FetchWithRetry(context.Background(), "https://example.com", fetch, noDelay, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is canceled during backoff", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, _ string) (*newsdigest.RenderResult, error) {
			cancel()
			return nil, errors.New("timeout")
		}

		_, err := acquire.FetchWithRetry(ctx, "https://example.com", fetch, []time.Duration{time.Minute}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBackoffDelays(t *testing.T) {
	t.Parallel()

	t.Run("default is a single one second delay", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []time.Duration{time.Second}, acquire.DefaultRetryDelays())
	})

	t.Run("grows by factor", func(t *testing.T) {
		t.Parallel()
		got := acquire.BackoffDelays(3, time.Second, 2)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, got)
	})
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network error", errors.New("EOF"), true},
		{"server error", newsdigest.StatusErrorf(newsdigest.EFETCH, 502, "HTTP 502"), true},
		{"too many requests", newsdigest.StatusErrorf(newsdigest.EFETCH, 429, "HTTP 429"), true},
		{"not found", newsdigest.StatusErrorf(newsdigest.EFETCH, 404, "HTTP 404"), false},
		{"wrong content type", newsdigest.StatusErrorf(newsdigest.EFETCH, 200, "unexpected content type"), false},
		{"forbidden target", newsdigest.Errorf(newsdigest.EFORBIDDEN, "internal"), false},
		{"canceled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, acquire.Retryable(tt.err))
		})
	}
}
