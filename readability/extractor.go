// Package readability isolates the main article of a page with
// go-readability and reduces it to visible text.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/goquery"
)

// Ensure Extractor implements newsdigest.Extractor at compile time.
var _ newsdigest.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	text *goquery.Extractor
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{text: goquery.NewExtractor()}
}

// Extract returns the title and visible text of the page's main article.
// Pages readability cannot score yield empty content rather than an error.
func (e *Extractor) Extract(rawHTML string) (*newsdigest.Content, error) {
	title, body, err := e.article(rawHTML)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return newsdigest.NewContent(title, ""), nil
	}

	content, err := e.text.Extract(body)
	if err != nil {
		return nil, err
	}
	if title != "" {
		content.Title = title
	}
	return content, nil
}

// ExtractHTML returns the main article as cleaned HTML.
func (e *Extractor) ExtractHTML(rawHTML string) (string, error) {
	_, body, err := e.article(rawHTML)
	return body, err
}

func (e *Extractor) article(rawHTML string) (title, body string, err error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", "", newsdigest.Errorf(newsdigest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", "", nil
	}
	return strings.TrimSpace(article.Title), article.Content, nil
}
