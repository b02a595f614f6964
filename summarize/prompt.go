package summarize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hktitof/newsdigest"
)

// Template tokens replaced literally when building prompts.
const (
	TokenCategory = "{category}"
	TokenMaxWords = "{maxWords}"
	TokenTitle    = "{title}"
	TokenText     = "{text}"
)

// DefaultSystemPrompt frames every summarization call.
const DefaultSystemPrompt = "You are a news editor. You write short, factual summaries and always answer with a single JSON object."

// DefaultArticlePrompt asks for a title and summary of one article.
const DefaultArticlePrompt = `Summarize the article below in at most {maxWords} words.

Rules:
- Start directly with the facts. Never open with phrases like "This article discusses", "The article explains" or "In this piece".
- Keep names, numbers and dates that matter.
- Write a short headline-style title.

Respond with JSON only: {"title": "...", "summary": "..."}

Original title: {title}

Article:
{text}`

// DefaultBatchPrompt asks for one digest covering many articles.
const DefaultBatchPrompt = `Write a digest of the {category} news below in at most {maxWords} words.

Rules:
- Merge overlapping stories and lead with the most important development.
- Start directly with the facts. Never open with phrases like "Here is a summary" or "These articles discuss".

Respond with JSON only: {"summary": "..."}`

// Prompts holds the templates a Client builds requests from. Empty fields
// fall back to the defaults.
type Prompts struct {
	System  string `yaml:"system"`
	Article string `yaml:"article"`
	Batch   string `yaml:"batch"`
}

func (p Prompts) withDefaults() Prompts {
	if p.System == "" {
		p.System = DefaultSystemPrompt
	}
	if p.Article == "" {
		p.Article = DefaultArticlePrompt
	}
	if p.Batch == "" {
		p.Batch = DefaultBatchPrompt
	}
	return p
}

// BuildArticlePrompt fills the article template.
func BuildArticlePrompt(tmpl, text, title string, maxWords int) string {
	if title == "" {
		title = newsdigest.UntitledTitle
	}
	r := strings.NewReplacer(
		TokenMaxWords, strconv.Itoa(maxWords),
		TokenTitle, title,
		TokenText, text,
	)
	return r.Replace(tmpl)
}

// BuildBatchPrompt fills the batch template and appends the numbered
// article list.
func BuildBatchPrompt(tmpl, category string, maxWords int, articles []newsdigest.Article) string {
	r := strings.NewReplacer(
		TokenCategory, category,
		TokenMaxWords, strconv.Itoa(maxWords),
	)

	var sb strings.Builder
	sb.WriteString(r.Replace(tmpl))
	sb.WriteString("\n\nArticles:\n")
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, a.Title, a.Summary)
	}
	return sb.String()
}

// Truncate cuts s to at most limit runes. It reports whether s was cut.
func Truncate(s string, limit int) (string, bool) {
	if limit <= 0 || len(s) <= limit {
		return s, false
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}
