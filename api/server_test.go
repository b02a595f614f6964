package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/api"
	"github.com/hktitof/newsdigest/mock"
	"github.com/hktitof/newsdigest/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rescannerFunc func(ctx context.Context, category *string, opts newsdigest.SummarizeOptions) (*pipeline.RescanResult, error)

func (f rescannerFunc) Rescan(ctx context.Context, category *string, opts newsdigest.SummarizeOptions) (*pipeline.RescanResult, error) {
	return f(ctx, category, opts)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func digest() *newsdigest.Digest {
	return &newsdigest.Digest{
		SummaryResult:   newsdigest.SummaryResult{Title: "Harbor Reopens", Summary: "Ships are moving again."},
		URL:             "https://example.com/harbor",
		OriginalContent: "The harbor reopened on Monday.",
		ContentLength:   30,
		Method:          newsdigest.MethodFetch,
	}
}

func TestServer_Summarize(t *testing.T) {
	t.Parallel()

	t.Run("summarizes a URL into the success envelope", func(t *testing.T) {
		t.Parallel()

		var gotOpts newsdigest.SummarizeOptions
		srv := &api.Server{Pipeline: &mock.Pipeline{
			SummarizeURLFn: func(_ context.Context, url string, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
				assert.Equal(t, "https://example.com/harbor", url)
				gotOpts = opts
				return digest(), nil
			},
		}}

		rec, body := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{"url":"https://example.com/harbor","forceFullRender":true}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Harbor Reopens", body["title"])
		assert.Equal(t, "Ships are moving again.", body["summary"])
		assert.Equal(t, "The harbor reopened on Monday.", body["originalContent"])
		assert.EqualValues(t, 30, body["contentLength"])
		assert.Equal(t, map[string]any{"title": "Harbor Reopens", "summary": "Ships are moving again."}, body["jsonOutput"])
		assert.True(t, gotOpts.ForceFullRender)
		assert.Equal(t, newsdigest.DefaultMaxWords, gotOpts.MaxWords)
		assert.NotEmpty(t, rec.Header().Get(api.RequestIDHeader))
	})

	t.Run("summarizes supplied HTML", func(t *testing.T) {
		t.Parallel()

		srv := &api.Server{MaxWords: 80, Pipeline: &mock.Pipeline{
			SummarizeHTMLFn: func(_ context.Context, html string, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
				assert.Equal(t, "<p>hi</p>", html)
				assert.Equal(t, "https://example.com/", opts.BaseURL)
				assert.Equal(t, 80, opts.MaxWords)
				return digest(), nil
			},
		}}

		rec, body := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{"html":"<p>hi</p>","baseUrl":"https://example.com/"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
	})

	t.Run("placeholder digests are successful", func(t *testing.T) {
		t.Parallel()

		srv := &api.Server{Pipeline: &mock.Pipeline{
			SummarizeURLFn: func(context.Context, string, newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
				return &newsdigest.Digest{SummaryResult: newsdigest.AccessDeniedPlaceholder, Placeholder: true}, nil
			},
		}}

		rec, body := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{"url":"https://example.com/paywall"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Access Denied", body["title"])
		assert.Equal(t, true, body["placeholder"])
		assert.NotContains(t, body, "originalContent")
	})

	t.Run("rejects missing input", func(t *testing.T) {
		t.Parallel()

		srv := &api.Server{Pipeline: &mock.Pipeline{}}

		rec, body := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "url or html required", body["error"])
	})

	t.Run("rejects both url and html", func(t *testing.T) {
		t.Parallel()

		srv := &api.Server{Pipeline: &mock.Pipeline{}}

		rec, _ := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{"url":"https://example.com","html":"<p>x</p>"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		srv := &api.Server{Pipeline: &mock.Pipeline{}}

		rec, body := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{"url":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("rejects wrong method", func(t *testing.T) {
		t.Parallel()

		srv := &api.Server{Pipeline: &mock.Pipeline{}}

		rec, _ := do(t, srv.Handler(), http.MethodGet, "/api/summarize", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid", newsdigest.Errorf(newsdigest.EINVALID, "bad url"), http.StatusBadRequest, "bad url"},
		{"forbidden", newsdigest.Errorf(newsdigest.EFORBIDDEN, "internal target"), http.StatusForbidden, "internal target"},
		{"insufficient", newsdigest.Errorf(newsdigest.EINSUFFICIENT, "too little text"), http.StatusUnprocessableEntity, "too little text"},
		{"upstream", newsdigest.StatusErrorf(newsdigest.EUPSTREAM, 429, "rate limited"), http.StatusBadGateway, "rate limited"},
		{"config", newsdigest.Errorf(newsdigest.ECONFIG, "azure openai key not configured"), http.StatusInternalServerError, "azure openai key not configured"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "Internal error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := &api.Server{Pipeline: &mock.Pipeline{
				SummarizeURLFn: func(context.Context, string, newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
					return nil, tt.err
				},
			}}

			rec, body := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{"url":"https://example.com"}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestServer_Batch(t *testing.T) {
	t.Parallel()

	srv := &api.Server{Pipeline: &mock.Pipeline{
		SummarizeBatchFn: func(_ context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error) {
			assert.Equal(t, "tech", req.Category)
			assert.Len(t, req.Articles, 2)
			return &newsdigest.BatchSummary{Category: "tech", Summary: "Chips and rockets.", Articles: 2}, nil
		},
	}}

	rec, body := do(t, srv.Handler(), http.MethodPost, "/api/summarize/batch",
		`{"category":"tech","articles":[{"title":"Chips","summary":"New chips."},{"title":"Rockets","summary":"A launch."}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Chips and rockets.", body["summary"])
	assert.EqualValues(t, 2, body["articles"])
}

func TestServer_Render(t *testing.T) {
	t.Parallel()

	t.Run("returns decorated HTML and screenshot", func(t *testing.T) {
		t.Parallel()

		srv := &api.Server{
			Pipeline: &mock.Pipeline{},
			Acquirer: &mock.Acquirer{
				AcquireFn: func(_ context.Context, url string, opts newsdigest.AcquireOptions) (*newsdigest.RenderResult, error) {
					assert.True(t, opts.ForceFullRender)
					return &newsdigest.RenderResult{URL: url, HTML: "<p>x</p>", Method: newsdigest.MethodRender, Screenshot: "aGk="}, nil
				},
			},
			Decorator: &mock.Decorator{
				DecorateFn: func(html, baseURL string) string {
					return "<base href=\"" + baseURL + "\">" + html
				},
			},
		}

		rec, body := do(t, srv.Handler(), http.MethodPost, "/api/render", `{"url":"https://example.com/a","forceFullRender":true}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `<base href="https://example.com/a"><p>x</p>`, body["html"])
		assert.Equal(t, "render", body["method"])
		assert.Equal(t, "aGk=", body["screenshot"])
	})

	t.Run("not registered without an acquirer", func(t *testing.T) {
		t.Parallel()

		srv := &api.Server{Pipeline: &mock.Pipeline{}}

		rec, _ := do(t, srv.Handler(), http.MethodPost, "/api/render", `{"url":"https://example.com"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Rescan(t *testing.T) {
	t.Parallel()

	srv := &api.Server{
		Pipeline: &mock.Pipeline{},
		Rescanner: rescannerFunc(func(_ context.Context, category *string, _ newsdigest.SummarizeOptions) (*pipeline.RescanResult, error) {
			require.NotNil(t, category)
			assert.Equal(t, "tech", *category)
			return &pipeline.RescanResult{Scanned: 3, Recovered: 2, Failed: 1}, nil
		}),
	}

	rec, body := do(t, srv.Handler(), http.MethodPost, "/api/rescan", `{"category":"tech"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["scanned"])
	assert.EqualValues(t, 2, body["recovered"])
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	srv := &api.Server{Pipeline: &mock.Pipeline{}}

	rec, body := do(t, srv.Handler(), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_PropagatesRequestID(t *testing.T) {
	t.Parallel()

	srv := &api.Server{Pipeline: &mock.Pipeline{}}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(api.RequestIDHeader))
}

func TestServer_ListenAndServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := &api.Server{Pipeline: &mock.Pipeline{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := srv.ListenAndServe(ctx, "127.0.0.1:0")

	assert.NoError(t, err)
}
