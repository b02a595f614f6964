package slog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/mock"
	ndslog "github.com/hktitof/newsdigest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSummarizer(t *testing.T) {
	t.Parallel()

	t.Run("logs summarize", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Summarizer{
			SummarizeFn: func(context.Context, newsdigest.SummarizeRequest) (*newsdigest.SummaryResult, error) {
				return &newsdigest.SummaryResult{Title: "Budget", Summary: "Approved."}, nil
			},
		}

		s := ndslog.NewLoggingSummarizer(inner, newLogger(&buf))
		res, err := s.Summarize(context.Background(), newsdigest.SummarizeRequest{Text: "hello", MaxWords: 50})

		require.NoError(t, err)
		assert.Equal(t, "Budget", res.Title)
		output := buf.String()
		assert.Contains(t, output, "msg=summarize")
		assert.Contains(t, output, "chars=5")
		assert.Contains(t, output, "title=Budget")
	})

	t.Run("logs batch counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Summarizer{
			SummarizeBatchFn: func(_ context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error) {
				return &newsdigest.BatchSummary{Category: req.Category, Summary: "s", Articles: 1}, nil
			},
		}

		s := ndslog.NewLoggingSummarizer(inner, newLogger(&buf))
		_, err := s.SummarizeBatch(context.Background(), newsdigest.BatchRequest{
			Category: "Tech",
			Articles: []newsdigest.Article{{Title: "a"}, {Title: "a"}},
		})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "category=Tech")
		assert.Contains(t, output, "articles=2")
		assert.Contains(t, output, "kept=1")
	})
}

func TestLoggingCompleter_Complete(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.ChatCompleter{
		CompleteFn: func(context.Context, newsdigest.ChatRequest) (string, error) {
			return "", newsdigest.StatusErrorf(newsdigest.EUPSTREAM, 429, "rate limited")
		},
	}

	c := ndslog.NewLoggingCompleter(inner, newLogger(&buf))
	_, err := c.Complete(context.Background(), newsdigest.ChatRequest{Messages: []newsdigest.ChatMessage{{Content: "x"}}})

	require.Error(t, err)
	output := buf.String()
	assert.Contains(t, output, "msg=\"chat completion\"")
	assert.Contains(t, output, "messages=1")
	assert.Contains(t, output, "status=429")
}
