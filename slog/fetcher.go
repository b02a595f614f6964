package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/hktitof/newsdigest"
)

// Ensure LoggingFetcher implements newsdigest.Fetcher.
var _ newsdigest.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   newsdigest.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next newsdigest.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *newsdigest.RenderResult, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"status", statusOf(res, err),
			"bytes", htmlLen(res),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Ensure LoggingRenderer implements newsdigest.Renderer.
var _ newsdigest.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   newsdigest.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next newsdigest.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (res *newsdigest.RenderResult, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("render",
			"url", url,
			"status", statusOf(res, err),
			"bytes", htmlLen(res),
			"screenshot", res != nil && res.Screenshot != "",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}

func statusOf(res *newsdigest.RenderResult, err error) int {
	if res != nil {
		return res.StatusCode
	}
	return newsdigest.ErrorStatus(err)
}

func htmlLen(res *newsdigest.RenderResult) int {
	if res == nil {
		return 0
	}
	return len(res.HTML)
}
