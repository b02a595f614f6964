package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/mock"
	ndslog "github.com/hktitof/newsdigest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingAcquirer_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("logs method bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Acquirer{
			AcquireFn: func(_ context.Context, url string, _ newsdigest.AcquireOptions) (*newsdigest.RenderResult, error) {
				return &newsdigest.RenderResult{URL: url, HTML: "<html>content</html>", Method: newsdigest.MethodRender}, nil
			},
		}

		a := ndslog.NewLoggingAcquirer(inner, newLogger(&buf))
		res, err := a.Acquire(context.Background(), "https://news.example.com/a", newsdigest.AcquireOptions{})

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", res.HTML)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "url=https://news.example.com/a")
		assert.Contains(t, output, "method=render")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs refused targets as a warning event", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Acquirer{
			AcquireFn: func(context.Context, string, newsdigest.AcquireOptions) (*newsdigest.RenderResult, error) {
				return nil, newsdigest.Errorf(newsdigest.EFORBIDDEN, "internal address")
			},
		}

		a := ndslog.NewLoggingAcquirer(inner, newLogger(&buf))
		_, err := a.Acquire(context.Background(), "http://127.0.0.1/admin", newsdigest.AcquireOptions{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "event=ssrf_rejected")
		assert.Contains(t, output, "reason=\"internal address\"")
	})

	t.Run("logs ordinary errors at info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Acquirer{
			AcquireFn: func(context.Context, string, newsdigest.AcquireOptions) (*newsdigest.RenderResult, error) {
				return nil, errors.New("network error")
			},
		}

		a := ndslog.NewLoggingAcquirer(inner, newLogger(&buf))
		_, err := a.Acquire(context.Background(), "https://news.example.com/a", newsdigest.AcquireOptions{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "err=\"network error\"")
		assert.NotContains(t, output, "ssrf_rejected")
	})
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs status from error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*newsdigest.RenderResult, error) {
				return nil, newsdigest.StatusErrorf(newsdigest.EFETCH, 403, "HTTP 403")
			},
		}

		f := ndslog.NewLoggingFetcher(inner, newLogger(&buf))
		_, err := f.Fetch(context.Background(), "https://news.example.com/a")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "status=403")
	})
}

func TestLoggingRenderer(t *testing.T) {
	t.Parallel()

	t.Run("logs render with screenshot flag", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Renderer{
			RenderFn: func(_ context.Context, url string) (*newsdigest.RenderResult, error) {
				return &newsdigest.RenderResult{URL: url, HTML: "<p>x</p>", StatusCode: 200, Screenshot: "abc"}, nil
			},
		}

		r := ndslog.NewLoggingRenderer(inner, newLogger(&buf))
		_, err := r.Render(context.Background(), "https://news.example.com/a")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "msg=render")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "screenshot=true")
	})

	t.Run("close delegates to inner renderer", func(t *testing.T) {
		t.Parallel()

		closed := false
		inner := &mock.Renderer{CloseFn: func() error {
			closed = true
			return nil
		}}

		var buf bytes.Buffer
		require.NoError(t, ndslog.NewLoggingRenderer(inner, newLogger(&buf)).Close())
		assert.True(t, closed)
	})
}
