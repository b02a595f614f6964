package acquire_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/acquire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements newsdigest.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ newsdigest.DomainLimiter = acquire.NewDomainLimiter(1)
	})

	t.Run("first request is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := acquire.NewDomainLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "news.example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond)
	})

	t.Run("throttles the same host", func(t *testing.T) {
		t.Parallel()

		limiter := acquire.NewDomainLimiter(10)

		require.NoError(t, limiter.Wait(context.Background(), "news.example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "news.example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
	})

	t.Run("hosts are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter := acquire.NewDomainLimiter(10)

		require.NoError(t, limiter.Wait(context.Background(), "news.example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "blog.example.org")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond)
	})

	t.Run("subdomains share a bucket", func(t *testing.T) {
		t.Parallel()

		limiter := acquire.NewDomainLimiter(10)

		require.NoError(t, limiter.Wait(context.Background(), "a.news.example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "b.news.example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
	})

	t.Run("zero rps never blocks", func(t *testing.T) {
		t.Parallel()

		limiter := acquire.NewDomainLimiter(0)

		start := time.Now()
		for range 20 {
			require.NoError(t, limiter.Wait(context.Background(), "news.example.com"))
		}

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("negative rps never blocks", func(t *testing.T) {
		t.Parallel()

		limiter := acquire.NewDomainLimiter(-1)

		for range 5 {
			require.NoError(t, limiter.Wait(context.Background(), "news.example.com"))
		}
	})

	t.Run("unlimited still honors cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, acquire.NewDomainLimiter(0).Wait(ctx, "news.example.com"), context.Canceled)
	})

	t.Run("returns error when context expires", func(t *testing.T) {
		t.Parallel()

		limiter := acquire.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "news.example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "news.example.com"))
	})

	t.Run("concurrent waiters all complete", func(t *testing.T) {
		t.Parallel()

		limiter := acquire.NewDomainLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background(), "news.example.com"); err == nil {
					completed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), completed.Load())
	})
}

func TestSiteKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		want string
	}{
		{"news.example.com", "example.com"},
		{"a.b.example.com", "example.com"},
		{"WWW.Example.COM.", "example.com"},
		{"www.bbc.co.uk", "bbc.co.uk"},
		{"example.com:8443", "example.com"},
		{"93.184.216.34", "93.184.216.34"},
		{"[2001:db8::1]", "2001:db8::1"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, acquire.SiteKey(tt.host))
		})
	}
}
