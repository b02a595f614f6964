// Package api serves the summarization pipeline over a JSON HTTP API.
//
// Every response is either a success envelope with "success": true or an
// error envelope {"success": false, "error": "..."}.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/pipeline"
)

// MaxBodyBytes bounds request bodies, which may carry full HTML pages.
const MaxBodyBytes = 10 << 20

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Rescanner re-runs failed links.
type Rescanner interface {
	Rescan(ctx context.Context, category *string, opts newsdigest.SummarizeOptions) (*pipeline.RescanResult, error)
}

// Server exposes the pipeline over HTTP. Acquirer, Decorator, Rescanner
// and Metrics are optional; their endpoints are not registered when nil.
type Server struct {
	Pipeline  newsdigest.Pipeline
	Acquirer  newsdigest.Acquirer
	Decorator newsdigest.Decorator
	Rescanner Rescanner
	Metrics   http.Handler
	Logger    *slog.Logger

	// MaxWords applies when a request does not set maxWords.
	MaxWords int
}

// SummarizeRequest is the body of POST /api/summarize. Exactly one of URL
// and HTML must be set.
type SummarizeRequest struct {
	URL             string `json:"url"`
	HTML            string `json:"html"`
	BaseURL         string `json:"baseUrl"`
	Title           string `json:"title"`
	MaxWords        int    `json:"maxWords"`
	ForceFullRender bool   `json:"forceFullRender"`
}

// RenderRequest is the body of POST /api/render.
type RenderRequest struct {
	URL             string `json:"url"`
	ForceFullRender bool   `json:"forceFullRender"`
}

// RenderEnvelope is the success body of the render endpoint.
type RenderEnvelope struct {
	Success    bool                    `json:"success"`
	URL        string                  `json:"url"`
	Method     newsdigest.RenderMethod `json:"method"`
	HTML       string                  `json:"html"`
	Screenshot string                  `json:"screenshot,omitempty"`
}

// BatchEnvelope is the success body of the batch endpoint.
type BatchEnvelope struct {
	Success bool `json:"success"`
	newsdigest.BatchSummary
}

// RescanRequest is the body of POST /api/rescan.
type RescanRequest struct {
	Category *string `json:"category"`
}

// RescanEnvelope is the success body of the rescan endpoint.
type RescanEnvelope struct {
	Success bool `json:"success"`
	pipeline.RescanResult
}

// Handler returns the routed handler wrapped in request ID and logging
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/summarize", s.handleSummarize)
	mux.HandleFunc("POST /api/summarize/batch", s.handleBatch)
	if s.Acquirer != nil {
		mux.HandleFunc("POST /api/render", s.handleRender)
	}
	if s.Rescanner != nil {
		mux.HandleFunc("POST /api/rescan", s.handleRescan)
	}
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.logger(), http.StatusOK, map[string]string{"status": "ok"})
	})
	return requestID(logRequests(s.logger(), mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger().Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, s.logger(), err)
		return
	}

	opts := newsdigest.SummarizeOptions{
		Title:           req.Title,
		MaxWords:        s.maxWords(req.MaxWords),
		ForceFullRender: req.ForceFullRender,
		BaseURL:         req.BaseURL,
	}

	var (
		d   *newsdigest.Digest
		err error
	)
	switch {
	case req.URL != "" && req.HTML != "":
		err = newsdigest.Errorf(newsdigest.EINVALID, "set either url or html, not both")
	case req.URL != "":
		d, err = s.Pipeline.SummarizeURL(r.Context(), req.URL, opts)
	case req.HTML != "":
		d, err = s.Pipeline.SummarizeHTML(r.Context(), req.HTML, opts)
	default:
		err = newsdigest.Errorf(newsdigest.EINVALID, "url or html required")
	}
	if err != nil {
		writeError(w, r, s.logger(), err)
		return
	}

	writeJSON(w, s.logger(), http.StatusOK, NewSummaryEnvelope(d))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req newsdigest.BatchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, s.logger(), err)
		return
	}
	req.MaxWords = s.maxWords(req.MaxWords)

	summary, err := s.Pipeline.SummarizeBatch(r.Context(), req)
	if err != nil {
		writeError(w, r, s.logger(), err)
		return
	}

	writeJSON(w, s.logger(), http.StatusOK, BatchEnvelope{Success: true, BatchSummary: *summary})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, s.logger(), err)
		return
	}
	if req.URL == "" {
		writeError(w, r, s.logger(), newsdigest.Errorf(newsdigest.EINVALID, "url required"))
		return
	}

	result, err := s.Acquirer.Acquire(r.Context(), req.URL, newsdigest.AcquireOptions{ForceFullRender: req.ForceFullRender})
	if err != nil {
		writeError(w, r, s.logger(), err)
		return
	}

	html := result.HTML
	if s.Decorator != nil {
		html = s.Decorator.Decorate(html, result.URL)
	}

	writeJSON(w, s.logger(), http.StatusOK, RenderEnvelope{
		Success:    true,
		URL:        result.URL,
		Method:     result.Method,
		HTML:       html,
		Screenshot: result.Screenshot,
	})
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	var req RescanRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, s.logger(), err)
		return
	}

	result, err := s.Rescanner.Rescan(r.Context(), req.Category, newsdigest.SummarizeOptions{MaxWords: s.maxWords(0)})
	if err != nil {
		writeError(w, r, s.logger(), err)
		return
	}

	writeJSON(w, s.logger(), http.StatusOK, RescanEnvelope{Success: true, RescanResult: *result})
}

// decode reads a JSON body. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return newsdigest.Errorf(newsdigest.EINVALID, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return newsdigest.Errorf(newsdigest.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) maxWords(n int) int {
	if n > 0 {
		return n
	}
	if s.MaxWords > 0 {
		return s.MaxWords
	}
	return newsdigest.DefaultMaxWords
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
