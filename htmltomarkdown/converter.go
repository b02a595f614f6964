// Package htmltomarkdown renders extracted article HTML as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/hktitof/newsdigest"
)

// Ensure Converter implements newsdigest.Converter at compile time.
var _ newsdigest.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", newsdigest.Errorf(newsdigest.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", newsdigest.Errorf(newsdigest.EINVALID, "convert HTML: %v", err)
	}

	return strings.TrimSpace(result), nil
}

// ConvertArticle converts an article body and heads it with the title,
// unless the body already opens with that heading.
func (c *Converter) ConvertArticle(title, html string) (string, error) {
	md, err := c.Convert(html)
	if err != nil {
		return "", err
	}

	title = strings.TrimSpace(title)
	if title == "" || strings.HasPrefix(md, "# "+title) {
		return md + "\n", nil
	}
	return "# " + title + "\n\n" + md + "\n", nil
}
