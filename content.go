package newsdigest

import (
	"context"
	"unicode/utf8"
)

// MinContentLength is the shortest extracted text, in characters, worth
// sending to the summarizer. Anything shorter is treated as a failed
// extraction.
const MinContentLength = 50

// Content is the human-readable text isolated from an HTML page.
type Content struct {
	Title       string `json:"title"`
	TextContent string `json:"textContent"`
	Length      int    `json:"length"`
}

// NewContent builds a Content, computing Length from the text.
func NewContent(title, text string) *Content {
	return &Content{
		Title:       title,
		TextContent: text,
		Length:      utf8.RuneCountInString(text),
	}
}

// Sufficient reports whether the content is long enough to summarize.
func (c *Content) Sufficient() bool {
	return c != nil && c.Length >= MinContentLength
}

// Extractor isolates readable text from HTML pages.
type Extractor interface {
	// Extract parses raw HTML and returns its title and visible text.
	// Malformed HTML never fails; only empty input returns EINVALID.
	Extract(html string) (*Content, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

// TokenCounter estimates how many model tokens a text occupies.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
