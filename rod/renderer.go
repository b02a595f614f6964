package rod

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/hktitof/newsdigest"
)

// Viewport dimensions of rendered pages.
const (
	ViewportWidth  = 1280
	ViewportHeight = 800
)

// DefaultScreenshotQuality is the JPEG quality of page screenshots.
const DefaultScreenshotQuality = 80

// consentClickTimeout bounds each best-effort consent click.
const consentClickTimeout = 2 * time.Second

// Ensure Renderer implements newsdigest.Renderer at compile time.
var _ newsdigest.Renderer = (*Renderer)(nil)

// Renderer loads pages in headless Chrome, dismisses cookie banners, and
// captures the serialized DOM and a screenshot.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager   *BrowserManager
	timeout   time.Duration
	settle    time.Duration
	quality   int
	consent   []string
	decorator newsdigest.Decorator
	guard     func(rawURL string) error
	closed    atomic.Bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout bounds a whole render, navigation included.
// Defaults to newsdigest.DefaultRenderTimeout (30s).
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithSettleDelay sets the pause after consent dismissal before capture.
// Defaults to newsdigest.DefaultSettleDelay (1s).
func WithSettleDelay(d time.Duration) Option {
	return func(r *Renderer) {
		r.settle = d
	}
}

// WithScreenshotQuality sets the JPEG quality (0-100). Zero disables
// screenshots.
func WithScreenshotQuality(q int) Option {
	return func(r *Renderer) {
		r.quality = q
	}
}

// WithConsentSelectors replaces the cookie-consent selectors.
func WithConsentSelectors(selectors []string) Option {
	return func(r *Renderer) {
		r.consent = selectors
	}
}

// WithDecorator post-processes rendered HTML.
func WithDecorator(d newsdigest.Decorator) Option {
	return func(r *Renderer) {
		r.decorator = d
	}
}

// WithTargetGuard replaces the check applied to every document the page
// loads. Defaults to newsdigest.CheckTarget.
func WithTargetGuard(guard func(rawURL string) error) Option {
	return func(r *Renderer) {
		r.guard = guard
	}
}

// NewRenderer creates a Renderer that opens pages from manager. The
// Renderer takes ownership of the manager: Close closes it.
func NewRenderer(manager *BrowserManager, opts ...Option) *Renderer {
	r := &Renderer{
		manager: manager,
		timeout: newsdigest.DefaultRenderTimeout,
		settle:  newsdigest.DefaultSettleDelay,
		quality: DefaultScreenshotQuality,
		consent: newsdigest.ConsentSelectors,
		guard:   newsdigest.CheckTarget,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to the URL and returns the rendered HTML and a
// base64-encoded JPEG screenshot.
func (r *Renderer) Render(ctx context.Context, target string) (*newsdigest.RenderResult, error) {
	if r.closed.Load() {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "renderer closed")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, release, err := r.manager.Page(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := r.preparePage(page); err != nil {
		return nil, err
	}

	var refused atomic.Pointer[string]
	router, err := interceptRequests(page, r.guard, func(u string) { refused.CompareAndSwap(nil, &u) })
	if err != nil {
		return nil, err
	}
	go router.Run()
	defer func() { _ = router.Stop() }()

	status, err := navigate(page, target)
	if err != nil {
		// Refused subframes do not fail navigation; a refused main document does.
		if u := refused.Load(); u != nil {
			return nil, newsdigest.Errorf(newsdigest.EFORBIDDEN, "navigation to %s refused", *u)
		}
		return nil, err
	}
	if status >= 400 {
		return nil, newsdigest.StatusErrorf(newsdigest.EFETCH, status, "HTTP %d for %s", status, target)
	}

	dismissConsent(page, r.consent)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(r.settle):
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading page content: %w", err)
	}

	finalURL := target
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}
	if err := r.guard(finalURL); err != nil {
		return nil, newsdigest.Errorf(newsdigest.EFORBIDDEN, "page ended on %s", finalURL)
	}
	if r.decorator != nil {
		html = r.decorator.Decorate(html, finalURL)
	}

	return &newsdigest.RenderResult{
		URL:        finalURL,
		HTML:       html,
		Method:     newsdigest.MethodRender,
		StatusCode: status,
		Screenshot: r.screenshot(page),
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.manager.Close()
}

func (r *Renderer) preparePage(page *rod.Page) error {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             ViewportWidth,
		Height:            ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("setting viewport: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      newsdigest.BrowserUserAgent,
		AcceptLanguage: newsdigest.BrowserAcceptLanguage,
	}); err != nil {
		return fmt.Errorf("setting user agent: %w", err)
	}

	var dict []string
	for k, v := range newsdigest.BrowserHeaders() {
		dict = append(dict, k, v)
	}
	if _, err := page.SetExtraHeaders(dict); err != nil {
		return fmt.Errorf("setting headers: %w", err)
	}
	return nil
}

// screenshot returns a base64 JPEG of the viewport, or "" when disabled or
// the capture fails. The HTML is the primary output; a missing preview does
// not fail the render.
func (r *Renderer) screenshot(page *rod.Page) string {
	if r.quality <= 0 {
		return ""
	}
	q := r.quality
	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &q,
	})
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// interceptedTypes are the resource types routed through RequestPolicy.
var interceptedTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeDocument,
	proto.NetworkResourceTypeMedia,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeImage,
}

// RequestPolicy decides whether an intercepted request may proceed. It
// returns the reason to fail it with and true, or false to let it through.
// Documents, including every redirect hop of a navigation, must pass guard.
// Media, fonts and images without an image extension are blocked to cut
// load time.
func RequestPolicy(guard func(rawURL string) error, kind proto.NetworkResourceType, u *url.URL) (proto.NetworkErrorReason, bool) {
	switch kind {
	case proto.NetworkResourceTypeDocument:
		if u == nil || guard(u.String()) != nil {
			return proto.NetworkErrorReasonAccessDenied, true
		}
		return "", false
	case proto.NetworkResourceTypeImage:
		if HasImageExtension(u) {
			return "", false
		}
		return proto.NetworkErrorReasonBlockedByClient, true
	case proto.NetworkResourceTypeMedia, proto.NetworkResourceTypeFont:
		return proto.NetworkErrorReasonBlockedByClient, true
	}
	return "", false
}

// interceptRequests applies RequestPolicy to the page. onRefused receives
// documents refused by the target guard, subframes included.
func interceptRequests(page *rod.Page, guard func(string) error, onRefused func(string)) (*rod.HijackRouter, error) {
	router := page.HijackRequests()

	handler := func(h *rod.Hijack) {
		kind := h.Request.Type()
		u := h.Request.URL()
		reason, block := RequestPolicy(guard, kind, u)
		if !block {
			h.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}
		if kind == proto.NetworkResourceTypeDocument && onRefused != nil {
			onRefused(u.String())
		}
		h.Response.Fail(reason)
	}
	for _, kind := range interceptedTypes {
		if err := router.Add("*", kind, handler); err != nil {
			return nil, fmt.Errorf("intercepting %s requests: %w", kind, err)
		}
	}
	return router, nil
}

// navigate loads target, waits for DOMContentLoaded and returns the main
// document's HTTP status.
func navigate(page *rod.Page, target string) (int, error) {
	var status int
	waitStatus := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})
	waitDOM := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)

	if err := page.Navigate(target); err != nil {
		return 0, fmt.Errorf("navigating to %s: %w", target, err)
	}
	waitDOM()
	waitStatus()

	if err := page.GetContext().Err(); err != nil {
		return 0, err
	}
	return status, nil
}

// dismissConsent clicks the first match of each selector. Failures are
// ignored: most pages have no banner.
func dismissConsent(page *rod.Page, selectors []string) {
	for _, sel := range selectors {
		els, err := page.Elements(sel)
		if err != nil || len(els) == 0 {
			continue
		}
		_ = els[0].Timeout(consentClickTimeout).Click(proto.InputMouseButtonLeft, 1)
	}
}

// HasImageExtension reports whether u's path ends in a known image extension.
func HasImageExtension(u *url.URL) bool {
	if u == nil {
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
