package newsdigest

import (
	"context"
	"time"
)

// RenderMethod identifies which acquisition tier produced a page.
type RenderMethod string

const (
	// MethodFetch is a plain HTTP GET without script execution.
	MethodFetch RenderMethod = "fetch"
	// MethodRender is a full headless-browser render.
	MethodRender RenderMethod = "render"
)

// Acquisition defaults. All are overridable through options.
const (
	DefaultFetchTimeout  = 5 * time.Second
	DefaultRenderTimeout = 30 * time.Second
	DefaultSettleDelay   = 1 * time.Second
)

// RenderResult holds the HTML obtained for a URL.
type RenderResult struct {
	URL        string       `json:"url"`
	HTML       string       `json:"html"`
	Method     RenderMethod `json:"method"`
	StatusCode int          `json:"statusCode"`

	// Screenshot is a base64-encoded JPEG. Only the render tier sets it.
	Screenshot string `json:"screenshot,omitempty"`
}

// Fetcher retrieves HTML with a plain HTTP request.
type Fetcher interface {
	// Fetch returns the page HTML. Non-2xx responses and non-HTML content
	// return EFETCH with the response status recorded.
	Fetch(ctx context.Context, url string) (*RenderResult, error)
}

// Renderer retrieves HTML by rendering the page in a headless browser.
type Renderer interface {
	// Render navigates to the URL, waits for the page to settle and returns
	// the serialized DOM plus a screenshot. Status codes >= 400 return EFETCH.
	Render(ctx context.Context, url string) (*RenderResult, error)

	// Close releases browser resources.
	Close() error
}

// AcquireOptions controls tier selection.
type AcquireOptions struct {
	// ForceFullRender skips the plain fetch tier.
	ForceFullRender bool
}

// Acquirer obtains HTML for a URL, choosing between a plain fetch and a
// full render.
type Acquirer interface {
	// Acquire validates the target with CheckTarget before any I/O. It
	// returns EFORBIDDEN for internal targets.
	Acquire(ctx context.Context, url string, opts AcquireOptions) (*RenderResult, error)
}

// DomainLimiter throttles requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}

// Decorator prepares acquired HTML for standalone display.
type Decorator interface {
	// Decorate injects a <base> element pointing at baseURL (when non-empty)
	// and a stylesheet capping media width.
	Decorate(html, baseURL string) string
}

// Browser-like request headers sent by both acquisition tiers.
const (
	BrowserUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	BrowserAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	BrowserAcceptLanguage = "en-US,en;q=0.9"
)

// BrowserHeaders returns the extra headers a renderer sets on every request.
// The user agent is set separately.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"Accept":          BrowserAccept,
		"Accept-Language": BrowserAcceptLanguage,
	}
}

// ConsentSelectors match common cookie-consent "accept" buttons. Renderers
// click them best-effort before capturing the page.
var ConsentSelectors = []string{
	"#onetrust-accept-btn-handler",
	"button#accept-cookies",
	"button[aria-label='Accept all']",
	"button[aria-label='Accept cookies']",
	".cookie-consent button.accept",
	"[data-testid='cookie-policy-dialog-accept-button']",
	".fc-cta-consent",
}

// ImageExtensions are the URL suffixes a render keeps for image requests.
// Image requests without one of them are aborted.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".svg", ".ico"}
