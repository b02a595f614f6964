// Package http provides the plain-HTTP acquisition tier: a newsdigest.Fetcher
// that retrieves server-rendered pages without executing JavaScript.
package http

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/hktitof/newsdigest"
)

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 10 << 20

// MaxRedirects is the longest redirect chain followed.
const MaxRedirects = 10

// Ensure Fetcher implements newsdigest.Fetcher at compile time.
var _ newsdigest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests with
// browser-like headers.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	decorator newsdigest.Decorator
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to newsdigest.DefaultFetchTimeout (5s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodyBytes caps the number of body bytes read.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// WithDecorator post-processes fetched HTML, typically injecting a <base>
// element and responsive styles.
func WithDecorator(d newsdigest.Decorator) Option {
	return func(f *Fetcher) {
		f.decorator = d
	}
}

// WithTransport replaces the HTTP transport. Tests use it to route requests
// without a network.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{CheckRedirect: checkRedirect},
		timeout:  newsdigest.DefaultFetchTimeout,
		maxBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client.Timeout = f.timeout

	return f
}

// Fetch retrieves the HTML content from the given URL. It fails with EFETCH
// when the response is not 2xx or not HTML; the status code is recorded on
// the error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*newsdigest.RenderResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "invalid URL: %v", err)
	}
	req.Header.Set("User-Agent", newsdigest.BrowserUserAgent)
	for k, v := range newsdigest.BrowserHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		var guardErr *newsdigest.Error
		if errors.As(err, &guardErr) && guardErr.Code == newsdigest.EFORBIDDEN {
			return nil, guardErr
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newsdigest.StatusErrorf(newsdigest.EFETCH, resp.StatusCode, "HTTP %d for %s", resp.StatusCode, url)
	}

	if !isHTML(resp.Header.Get("Content-Type")) {
		return nil, newsdigest.StatusErrorf(newsdigest.EFETCH, resp.StatusCode,
			"unexpected content type %q for %s", resp.Header.Get("Content-Type"), url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, err
	}

	// Redirects change the origin relative links resolve against.
	finalURL := resp.Request.URL.String()

	html := string(body)
	if f.decorator != nil {
		html = f.decorator.Decorate(html, finalURL)
	}

	return &newsdigest.RenderResult{
		URL:        finalURL,
		HTML:       html,
		Method:     newsdigest.MethodFetch,
		StatusCode: resp.StatusCode,
	}, nil
}

// checkRedirect applies the target guard to every hop, so a public page
// cannot bounce the fetch into a private network.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= MaxRedirects {
		return newsdigest.Errorf(newsdigest.EFETCH, "stopped after %d redirects", MaxRedirects)
	}
	if err := newsdigest.CheckTarget(req.URL.String()); err != nil {
		return newsdigest.Errorf(newsdigest.EFORBIDDEN, "redirect to %s refused: %s", req.URL.Redacted(), newsdigest.ErrorMessage(err))
	}
	return nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html"
}
