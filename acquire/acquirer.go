// Package acquire obtains article HTML, trying a plain HTTP fetch before
// falling back to a headless-browser render.
package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.Acquirer = (*Acquirer)(nil)

// Acquirer chooses between the fetch and render tiers.
//
// Fetcher and Renderer are both optional but at least one must be set.
// RetryDelays defaults to DefaultRetryDelays when nil; an empty non-nil
// slice disables fast-path retries.
type Acquirer struct {
	Fetcher     newsdigest.Fetcher
	Renderer    newsdigest.Renderer
	RateLimiter newsdigest.DomainLimiter
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Acquire validates the target, then tries the fast path (unless
// opts.ForceFullRender) and falls back to a full render. When both tiers
// fail the render error is returned wrapping the fetch error.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string, opts newsdigest.AcquireOptions) (*newsdigest.RenderResult, error) {
	if err := newsdigest.CheckTarget(rawURL); err != nil {
		return nil, err
	}
	if a.Fetcher == nil && a.Renderer == nil {
		return nil, newsdigest.Errorf(newsdigest.ECONFIG, "no fetcher or renderer configured")
	}

	if a.RateLimiter != nil {
		u, _ := url.Parse(rawURL)
		if err := a.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	logger := a.logger()

	var fetchErr error
	if !opts.ForceFullRender && a.Fetcher != nil {
		res, err := FetchWithRetry(ctx, rawURL, a.Fetcher.Fetch, a.retryDelays(), func(attempt int, err error) {
			logger.Debug("retrying fetch", "url", rawURL, "attempt", attempt, "err", err)
		})
		if err == nil {
			return checkFinal(res)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// A refused redirect would be refused again by the browser.
		if newsdigest.ErrorCode(err) == newsdigest.EFORBIDDEN {
			return nil, err
		}
		fetchErr = err
		logger.Debug("fetch failed", "url", rawURL, "err", err)
	}

	if a.Renderer == nil {
		return nil, fetchErr
	}

	res, err := a.Renderer.Render(ctx, rawURL)
	if err != nil {
		if fetchErr != nil {
			return nil, fmt.Errorf("render: %w (fetch: %w)", err, fetchErr)
		}
		return nil, err
	}
	return checkFinal(res)
}

// checkFinal applies the target guard to the URL a tier ended up on after
// redirects, dropping content served from a private network.
func checkFinal(res *newsdigest.RenderResult) (*newsdigest.RenderResult, error) {
	if res == nil || res.URL == "" {
		return res, nil
	}
	if err := newsdigest.CheckTarget(res.URL); err != nil {
		return nil, newsdigest.Errorf(newsdigest.EFORBIDDEN, "redirected to %s: %s", res.URL, newsdigest.ErrorMessage(err))
	}
	return res, nil
}

func (a *Acquirer) retryDelays() []time.Duration {
	if a.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return a.RetryDelays
}

func (a *Acquirer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.Logger
}
