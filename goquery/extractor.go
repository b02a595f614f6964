// Package goquery extracts visible article text from HTML documents and
// prepares acquired HTML for standalone display, using goquery over
// golang.org/x/net/html.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hktitof/newsdigest"
)

// Ensure Extractor implements newsdigest.Extractor at compile time.
var _ newsdigest.Extractor = (*Extractor)(nil)

// Extractor isolates visible text and a best-guess title from HTML.
type Extractor struct {
	strict bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrict drops page chrome (header, nav, aside, footer, form, iframe)
// and lines of ten characters or fewer.
func WithStrict(strict bool) Option {
	return func(e *Extractor) {
		e.strict = strict
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses raw HTML and returns its title and visible text.
func (e *Extractor) Extract(rawHTML string) (*newsdigest.Content, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "failed to parse HTML: %v", err)
	}

	return newsdigest.NewContent(ExtractTitle(doc), ExtractVisibleText(doc, e.strict)), nil
}
