package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// nonContentSelector matches subtrees that never hold article text.
const nonContentSelector = "script, style, noscript, svg, head"

// strictNonContentSelector additionally drops page chrome.
const strictNonContentSelector = nonContentSelector + ", footer, nav, aside, form, iframe, header"

// strictMinLineLength is the longest line strict extraction still drops.
const strictMinLineLength = 10

// blockTags start and end a line of extracted text.
var blockTags = map[string]bool{
	"p": true, "div": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "td": true, "th": true, "tr": true,
	"section": true, "article": true, "blockquote": true, "br": true,
}

var (
	excessNewlinesRe  = regexp.MustCompile(`\n{3,}`)
	horizontalSpaceRe = regexp.MustCompile(`[ \t\r\f\v\x{00a0}]+`)
	newlinePaddingRe  = regexp.MustCompile(` *\n *`)
)

// ExtractVisibleText returns the human-readable text of the document body,
// one block per line. Hidden elements are skipped with their whole subtree.
// In strict mode navigation chrome and lines of ten characters or fewer are
// dropped as well. A document without a body yields "".
//
// The document is not modified.
func ExtractVisibleText(doc *goquery.Document, strict bool) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}

	body = body.Clone()
	if strict {
		body.Find(strictNonContentSelector).Remove()
	} else {
		body.Find(nonContentSelector).Remove()
	}

	return cleanText(visibleText(body.Nodes[0]), strict)
}

// visibleText renders n and its descendants as text.
func visibleText(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return strings.TrimSpace(n.Data)
	case html.ElementNode:
		return elementText(n)
	default:
		return ""
	}
}

func elementText(n *html.Node) string {
	if isHidden(n) {
		return ""
	}

	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := visibleText(c); s != "" {
			parts = append(parts, s)
		}
	}
	text := strings.Join(parts, " ")

	if blockTags[n.Data] {
		return "\n" + text + "\n"
	}
	return text
}

// isHidden reports whether the element hides itself and its subtree.
func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(strings.TrimSpace(a.Val), "true") {
				return true
			}
		case "type":
			if strings.EqualFold(strings.TrimSpace(a.Val), "hidden") {
				return true
			}
		case "style":
			style := strings.ToLower(strings.Join(strings.Fields(a.Val), ""))
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// cleanText normalizes whitespace and drops empty (or, in strict mode,
// short) lines.
func cleanText(s string, strict bool) string {
	s = excessNewlinesRe.ReplaceAllString(s, "\n\n")
	s = horizontalSpaceRe.ReplaceAllString(s, " ")
	s = newlinePaddingRe.ReplaceAllString(s, "\n")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strict && utf8.RuneCountInString(line) <= strictMinLineLength {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
