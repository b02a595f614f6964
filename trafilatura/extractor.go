// Package trafilatura extracts article text with go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/hktitof/newsdigest"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements newsdigest.Extractor at compile time.
var _ newsdigest.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the title and main text.
// Pages trafilatura finds no content in yield empty content.
func (e *Extractor) Extract(rawHTML string) (*newsdigest.Content, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil || result == nil {
		return newsdigest.NewContent("", ""), nil
	}

	return newsdigest.NewContent(
		strings.TrimSpace(result.Metadata.Title),
		strings.TrimSpace(result.ContentText),
	), nil
}
