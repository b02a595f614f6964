// Package slog provides logging decorators for newsdigest services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/hktitof/newsdigest"
)

// Ensure LoggingAcquirer implements newsdigest.Acquirer.
var _ newsdigest.Acquirer = (*LoggingAcquirer)(nil)

// LoggingAcquirer wraps an Acquirer with logging. Refused targets are
// logged at WARN as a distinct event.
type LoggingAcquirer struct {
	next   newsdigest.Acquirer
	logger *slog.Logger
}

// NewLoggingAcquirer creates a new LoggingAcquirer.
func NewLoggingAcquirer(next newsdigest.Acquirer, logger *slog.Logger) *LoggingAcquirer {
	return &LoggingAcquirer{next: next, logger: logger}
}

// Acquire delegates to the wrapped acquirer and logs the outcome.
func (a *LoggingAcquirer) Acquire(ctx context.Context, url string, opts newsdigest.AcquireOptions) (res *newsdigest.RenderResult, err error) {
	defer func(begin time.Time) {
		if newsdigest.ErrorCode(err) == newsdigest.EFORBIDDEN {
			a.logger.Warn("acquire rejected",
				"event", "ssrf_rejected",
				"url", url,
				"reason", newsdigest.ErrorMessage(err),
			)
			return
		}
		var method newsdigest.RenderMethod
		var bytes int
		if res != nil {
			method = res.Method
			bytes = len(res.HTML)
		}
		a.logger.Info("acquire",
			"url", url,
			"forced", opts.ForceFullRender,
			"method", method,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Acquire(ctx, url, opts)
}
