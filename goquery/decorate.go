package goquery

import (
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hktitof/newsdigest"
)

// Ensure Decorator implements newsdigest.Decorator at compile time.
var _ newsdigest.Decorator = (*Decorator)(nil)

// ResponsiveCSS caps embedded media at the container width.
const ResponsiveCSS = `img, video, iframe, embed, object { max-width: 100% !important; height: auto !important; }`

// Decorator injects a <base> element and ResponsiveCSS into acquired HTML
// so it displays correctly outside its origin.
type Decorator struct{}

// NewDecorator creates a new Decorator.
func NewDecorator() *Decorator {
	return &Decorator{}
}

// Decorate returns page with a <base> pointing at the origin of baseURL
// (unless one is already present) and the responsive stylesheet. Decorating
// twice is a no-op. HTML that
// cannot be parsed is returned unchanged.
func (d *Decorator) Decorate(page, baseURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return page
	}

	head := doc.Find("head").First()
	if head.Length() == 0 {
		return page
	}

	if origin := Origin(baseURL); origin != "" && doc.Find("base[href]").Length() == 0 {
		head.PrependHtml(`<base href="` + html.EscapeString(origin) + `"/>`)
	}
	if doc.Find(`style[data-newsdigest="responsive"]`).Length() == 0 {
		head.AppendHtml(`<style data-newsdigest="responsive">` + ResponsiveCSS + `</style>`)
	}

	out, err := doc.Html()
	if err != nil {
		return page
	}
	return out
}

// Origin returns "scheme://host/" for rawURL, or "" when it has no host.
func Origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}
