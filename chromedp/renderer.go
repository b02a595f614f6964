// Package chromedp provides an alternative full-render acquisition tier
// driving Chrome through the DevTools protocol with chromedp.
package chromedp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/hktitof/newsdigest"
)

// Ensure Renderer implements newsdigest.Renderer at compile time.
var _ newsdigest.Renderer = (*Renderer)(nil)

// Renderer renders pages in one shared headless Chrome process, opening a
// fresh tab per render.
type Renderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancelBrow  context.CancelFunc

	timeout   time.Duration
	settle    time.Duration
	quality   int64
	consent   []string
	decorator newsdigest.Decorator
	execPath  string
	noSandbox bool
	guard     func(rawURL string) error

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout bounds a whole render. Defaults to newsdigest.DefaultRenderTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.timeout = d }
}

// WithSettleDelay sets the pause after consent dismissal.
func WithSettleDelay(d time.Duration) Option {
	return func(r *Renderer) { r.settle = d }
}

// WithScreenshotQuality sets the JPEG quality. Zero disables screenshots.
func WithScreenshotQuality(q int) Option {
	return func(r *Renderer) { r.quality = int64(q) }
}

// WithDecorator post-processes rendered HTML.
func WithDecorator(d newsdigest.Decorator) Option {
	return func(r *Renderer) { r.decorator = d }
}

// WithExecPath sets the Chrome binary.
func WithExecPath(p string) Option {
	return func(r *Renderer) { r.execPath = p }
}

// WithNoSandbox disables the Chrome sandbox.
func WithNoSandbox(v bool) Option {
	return func(r *Renderer) { r.noSandbox = v }
}

// WithTargetGuard replaces the check applied to every document the tab
// loads. Defaults to newsdigest.CheckTarget.
func WithTargetGuard(guard func(rawURL string) error) Option {
	return func(r *Renderer) { r.guard = guard }
}

// NewRenderer starts headless Chrome. Close must be called when the
// Renderer is no longer needed.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		timeout: newsdigest.DefaultRenderTimeout,
		settle:  newsdigest.DefaultSettleDelay,
		quality: 80,
		consent: newsdigest.ConsentSelectors,
		guard:   newsdigest.CheckTarget,
	}
	for _, opt := range opts {
		opt(r)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", r.noSandbox),
		chromedp.UserAgent(newsdigest.BrowserUserAgent),
	)
	if r.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.execPath))
	}

	r.allocCtx, r.cancelAlloc = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	r.browserCtx, r.cancelBrow = chromedp.NewContext(r.allocCtx)

	// The first Run on a fresh context launches the browser.
	if err := chromedp.Run(r.browserCtx); err != nil {
		r.cancelBrow()
		r.cancelAlloc()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return r, nil
}

// Render navigates to the URL and returns the rendered HTML and a
// base64-encoded JPEG screenshot.
func (r *Renderer) Render(ctx context.Context, target string) (*newsdigest.RenderResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "renderer closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()
	tabCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	var refused atomic.Pointer[string]
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if e, ok := ev.(*fetch.EventRequestPaused); ok {
			go interceptRequest(tabCtx, r.guard, e, func(u string) { refused.CompareAndSwap(nil, &u) })
		}
	})

	headers := network.Headers{}
	for k, v := range newsdigest.BrowserHeaders() {
		headers[k] = v
	}

	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(1280, 800),
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		fetch.Enable().WithPatterns([]*fetch.RequestPattern{
			{URLPattern: "*", ResourceType: network.ResourceTypeDocument},
			{URLPattern: "*", ResourceType: network.ResourceTypeImage},
			{URLPattern: "*", ResourceType: network.ResourceTypeMedia},
			{URLPattern: "*", ResourceType: network.ResourceTypeFont},
		}),
	)
	if err != nil {
		return nil, contextErr(ctx, tabCtx, fmt.Errorf("preparing tab: %w", err))
	}

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(target))
	if err != nil {
		if u := refused.Load(); u != nil {
			return nil, newsdigest.Errorf(newsdigest.EFORBIDDEN, "navigation to %s refused", *u)
		}
		return nil, contextErr(ctx, tabCtx, fmt.Errorf("navigating to %s: %w", target, err))
	}
	status := 0
	if resp != nil {
		status = int(resp.Status)
	}
	if status >= 400 {
		return nil, newsdigest.StatusErrorf(newsdigest.EFETCH, status, "HTTP %d for %s", status, target)
	}

	selectors, _ := json.Marshal(r.consent)
	var html, finalURL string
	var shot []byte
	err = chromedp.Run(tabCtx,
		chromedp.Evaluate(fmt.Sprintf(dismissConsentJS, selectors), nil),
		chromedp.Sleep(r.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if r.quality <= 0 {
				return nil
			}
			// A missing preview does not fail the render.
			shot, _ = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatJpeg).
				WithQuality(r.quality).
				Do(ctx)
			return nil
		}),
	)
	if err != nil {
		return nil, contextErr(ctx, tabCtx, fmt.Errorf("capturing page: %w", err))
	}

	if finalURL == "" {
		finalURL = target
	}
	if err := r.guard(finalURL); err != nil {
		return nil, newsdigest.Errorf(newsdigest.EFORBIDDEN, "page ended on %s", finalURL)
	}
	if r.decorator != nil {
		html = r.decorator.Decorate(html, finalURL)
	}

	res := &newsdigest.RenderResult{
		URL:        finalURL,
		HTML:       html,
		Method:     newsdigest.MethodRender,
		StatusCode: status,
	}
	if len(shot) > 0 {
		res.Screenshot = base64.StdEncoding.EncodeToString(shot)
	}
	return res, nil
}

// Close shuts the browser down. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		r.cancelBrow()
		r.cancelAlloc()
	})
	return nil
}

// RequestPolicy decides whether an intercepted request may proceed. It
// returns the reason to fail it with and true, or false to let it through.
// Documents, every redirect hop included, must pass guard. Media, fonts and
// images without an image extension are blocked.
func RequestPolicy(guard func(rawURL string) error, kind network.ResourceType, rawURL string) (network.ErrorReason, bool) {
	switch kind {
	case network.ResourceTypeDocument:
		if guard(rawURL) != nil {
			return network.ErrorReasonAccessDenied, true
		}
		return "", false
	case network.ResourceTypeImage:
		if hasImageExtension(rawURL) {
			return "", false
		}
		return network.ErrorReasonBlockedByClient, true
	case network.ResourceTypeMedia, network.ResourceTypeFont:
		return network.ErrorReasonBlockedByClient, true
	}
	return "", false
}

// interceptRequest applies RequestPolicy to a paused request. onRefused
// receives documents refused by guard. Without a live target the request is
// only classified.
func interceptRequest(ctx context.Context, guard func(rawURL string) error, e *fetch.EventRequestPaused, onRefused func(string)) {
	var rawURL string
	if e.Request != nil {
		rawURL = e.Request.URL
	}
	reason, block := RequestPolicy(guard, e.ResourceType, rawURL)
	if block && e.ResourceType == network.ResourceTypeDocument {
		onRefused(rawURL)
	}

	c := chromedp.FromContext(ctx)
	if c == nil || c.Target == nil {
		return
	}
	exec := cdp.WithExecutor(ctx, c.Target)
	if !block {
		_ = fetch.ContinueRequest(e.RequestID).Do(exec)
		return
	}
	_ = fetch.FailRequest(e.RequestID, reason).Do(exec)
}

// contextErr prefers the caller's or the render's context error over the
// protocol error it caused.
func contextErr(callerCtx, tabCtx context.Context, err error) error {
	if cerr := callerCtx.Err(); cerr != nil {
		return cerr
	}
	if cerr := tabCtx.Err(); cerr != nil {
		return cerr
	}
	return err
}

func hasImageExtension(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, e := range newsdigest.ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// dismissConsentJS clicks the first match of each selector in a JSON array,
// ignoring failures.
const dismissConsentJS = `(function(selectors) {
	for (const sel of selectors) {
		try {
			const el = document.querySelector(sel);
			if (el) { el.click(); }
		} catch (e) {}
	}
	return true;
})(%s)`
