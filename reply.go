package newsdigest

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Last-resort values used when neither the model nor the caller supplied one.
const (
	UntitledTitle    = "Untitled"
	NoSummaryMessage = "No summary available."
)

var (
	titleFieldRe   = regexp.MustCompile(`"title"\s*:\s*"([^"]*)"`)
	summaryFieldRe = regexp.MustCompile(`"summary"\s*:\s*"([^"]*)"`)
	codeFenceRe    = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
)

// replyStrategy attempts to read a summary out of a raw model reply.
type replyStrategy func(raw, fallbackTitle string) (SummaryResult, bool)

// replyStrategies are tried in order; the first that succeeds wins.
var replyStrategies = []replyStrategy{
	parseStrictJSON,
	parseFencedJSON,
	parseFieldsByPattern,
	parseRawText,
}

// ParseSummaryReply turns a model reply into a SummaryResult. Replies that
// are not the requested JSON object degrade through fence stripping, field
// pattern matching and finally the raw text. It never fails, and both
// fields of the result are always non-empty.
func ParseSummaryReply(raw, fallbackTitle string) SummaryResult {
	for _, strategy := range replyStrategies {
		if res, ok := strategy(raw, fallbackTitle); ok {
			return finalize(res, fallbackTitle)
		}
	}
	return finalize(SummaryResult{}, fallbackTitle)
}

// StripCodeFence removes a Markdown code fence (```json ... ```) wrapping s.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

func parseStrictJSON(raw, fallbackTitle string) (SummaryResult, bool) {
	return decodeReplyObject(strings.TrimSpace(raw), fallbackTitle)
}

func parseFencedJSON(raw, fallbackTitle string) (SummaryResult, bool) {
	stripped := StripCodeFence(raw)
	if res, ok := decodeReplyObject(stripped, fallbackTitle); ok {
		return res, true
	}

	// Prose around the object: try the outermost braces.
	start, end := strings.Index(stripped, "{"), strings.LastIndex(stripped, "}")
	if start < 0 || end <= start {
		return SummaryResult{}, false
	}
	return decodeReplyObject(stripped[start:end+1], fallbackTitle)
}

func parseFieldsByPattern(raw, fallbackTitle string) (SummaryResult, bool) {
	m := summaryFieldRe.FindStringSubmatch(raw)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return SummaryResult{}, false
	}

	res := SummaryResult{Title: fallbackTitle, Summary: unescapeNewlines(m[1])}
	if t := titleFieldRe.FindStringSubmatch(raw); t != nil && strings.TrimSpace(t[1]) != "" {
		res.Title = unescapeNewlines(t[1])
	}
	return res, true
}

func parseRawText(raw, fallbackTitle string) (SummaryResult, bool) {
	return SummaryResult{
		Title:   fallbackTitle,
		Summary: unescapeNewlines(StripCodeFence(raw)),
	}, true
}

// decodeReplyObject accepts a JSON object whose summary is a non-empty
// string. A missing or non-string title falls back to fallbackTitle.
func decodeReplyObject(s, fallbackTitle string) (SummaryResult, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return SummaryResult{}, false
	}

	summary, _ := obj["summary"].(string)
	if strings.TrimSpace(summary) == "" {
		return SummaryResult{}, false
	}
	title, _ := obj["title"].(string)
	if strings.TrimSpace(title) == "" {
		title = fallbackTitle
	}
	return SummaryResult{Title: title, Summary: summary}, true
}

func unescapeNewlines(s string) string {
	s = strings.ReplaceAll(s, `\r\n`, "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	return strings.TrimSpace(s)
}

func finalize(res SummaryResult, fallbackTitle string) SummaryResult {
	res.Title = strings.TrimSpace(res.Title)
	res.Summary = strings.TrimSpace(res.Summary)
	if res.Title == "" {
		res.Title = strings.TrimSpace(fallbackTitle)
	}
	if res.Title == "" {
		res.Title = UntitledTitle
	}
	if res.Summary == "" {
		res.Summary = NoSummaryMessage
	}
	return res
}
