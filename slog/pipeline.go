package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/hktitof/newsdigest"
)

// Ensure LoggingPipeline implements newsdigest.Pipeline.
var _ newsdigest.Pipeline = (*LoggingPipeline)(nil)

// LoggingPipeline wraps a Pipeline with logging. Placeholder digests are
// logged at WARN so failed articles stand out.
type LoggingPipeline struct {
	next   newsdigest.Pipeline
	logger *slog.Logger
}

// NewLoggingPipeline creates a new LoggingPipeline.
func NewLoggingPipeline(next newsdigest.Pipeline, logger *slog.Logger) *LoggingPipeline {
	return &LoggingPipeline{next: next, logger: logger}
}

// SummarizeURL delegates to the wrapped pipeline and logs the outcome.
func (p *LoggingPipeline) SummarizeURL(ctx context.Context, url string, opts newsdigest.SummarizeOptions) (d *newsdigest.Digest, err error) {
	defer func(begin time.Time) {
		p.logDigest("summarize url", d, err, time.Since(begin), "url", url)
	}(time.Now())
	return p.next.SummarizeURL(ctx, url, opts)
}

// SummarizeHTML delegates to the wrapped pipeline and logs the outcome.
func (p *LoggingPipeline) SummarizeHTML(ctx context.Context, html string, opts newsdigest.SummarizeOptions) (d *newsdigest.Digest, err error) {
	defer func(begin time.Time) {
		p.logDigest("summarize html", d, err, time.Since(begin), "bytes", len(html))
	}(time.Now())
	return p.next.SummarizeHTML(ctx, html, opts)
}

// SummarizeBatch delegates to the wrapped pipeline.
func (p *LoggingPipeline) SummarizeBatch(ctx context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error) {
	return p.next.SummarizeBatch(ctx, req)
}

func (p *LoggingPipeline) logDigest(msg string, d *newsdigest.Digest, err error, elapsed time.Duration, args ...any) {
	if d != nil {
		args = append(args, "title", d.Title, "method", d.Method, "chars", d.ContentLength)
		if d.Unchanged {
			args = append(args, "unchanged", true)
		}
	}
	args = append(args, "duration", elapsed, "err", err)

	if d != nil && d.Placeholder {
		p.logger.Warn(msg, append(args, "placeholder", true)...)
		return
	}
	p.logger.Info(msg, args...)
}
