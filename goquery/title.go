package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/hktitof/newsdigest"
)

// minTitleLength is the shortest suffix-stripped title accepted before
// falling back to the text ahead of the first separator.
const minTitleLength = 5

// ExtractTitle picks the article title: the first non-empty <h1>, else the
// <title> element, with a trailing " | Site Name" style suffix removed.
// Returns "Untitled" when the document has neither.
func ExtractTitle(doc *goquery.Document) string {
	raw := ""
	doc.Find("h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw = normalizeSpace(s.Text())
		return raw == ""
	})
	if raw == "" {
		raw = normalizeSpace(doc.Find("title").First().Text())
	}
	if raw == "" {
		return newsdigest.UntitledTitle
	}
	return CleanTitle(raw)
}

// CleanTitle strips a site-name suffix from a page title. It cuts at the last
// separator (|, -, – or —) that has text before it. When that leaves fewer
// than five characters it keeps the text before the first separator instead.
func CleanTitle(raw string) string {
	raw = normalizeSpace(raw)
	if raw == "" {
		return newsdigest.UntitledTitle
	}

	seps := separatorIndexes(raw)
	if len(seps) == 0 {
		return raw
	}

	title := raw
	if last := seps[len(seps)-1]; strings.TrimSpace(raw[:last]) != "" {
		title = strings.TrimSpace(raw[:last])
	}

	if utf8.RuneCountInString(title) < minTitleLength {
		if first := strings.TrimSpace(raw[:seps[0]]); first != "" {
			title = first
		}
	}

	if title == "" {
		return newsdigest.UntitledTitle
	}
	return title
}

// separatorIndexes returns the byte offsets of title separators in s, in
// order. Hyphens only count when surrounded by spaces so hyphenated words
// survive; the other separators always count.
func separatorIndexes(s string) []int {
	var idx []int
	for i, r := range s {
		switch r {
		case '|', '–', '—':
			idx = append(idx, i)
		case '-':
			if i > 0 && s[i-1] == ' ' && i+1 < len(s) && s[i+1] == ' ' {
				idx = append(idx, i)
			}
		}
	}
	return idx
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
