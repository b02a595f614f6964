package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/hktitof/newsdigest"
)

// Ensure LoggingSummarizer implements newsdigest.Summarizer.
var _ newsdigest.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   newsdigest.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next newsdigest.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, req newsdigest.SummarizeRequest) (res *newsdigest.SummaryResult, err error) {
	defer func(begin time.Time) {
		var title string
		if res != nil {
			title = res.Title
		}
		s.logger.Info("summarize",
			"chars", len(req.Text),
			"max_words", req.MaxWords,
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, req)
}

// SummarizeBatch delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) SummarizeBatch(ctx context.Context, req newsdigest.BatchRequest) (res *newsdigest.BatchSummary, err error) {
	defer func(begin time.Time) {
		var kept int
		if res != nil {
			kept = res.Articles
		}
		s.logger.Info("summarize batch",
			"category", req.Category,
			"articles", len(req.Articles),
			"kept", kept,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SummarizeBatch(ctx, req)
}

// Ensure LoggingCompleter implements newsdigest.ChatCompleter.
var _ newsdigest.ChatCompleter = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a ChatCompleter with debug logging.
type LoggingCompleter struct {
	next   newsdigest.ChatCompleter
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next newsdigest.ChatCompleter, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the operation.
func (c *LoggingCompleter) Complete(ctx context.Context, req newsdigest.ChatRequest) (reply string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("chat completion",
			"messages", len(req.Messages),
			"max_tokens", req.MaxTokens,
			"reply_chars", len(reply),
			"status", newsdigest.ErrorStatus(err),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, req)
}
