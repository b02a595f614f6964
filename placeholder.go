package newsdigest

import "strings"

// Placeholder results stand in for a summary when an article could not be
// processed. They are successful results, and callers look for them to find
// articles worth retrying.
var (
	AccessDeniedPlaceholder = SummaryResult{
		Title:   "Access Denied",
		Summary: "Unable to fetch content due to access restrictions.",
	}
	FetchErrorPlaceholder = SummaryResult{
		Title:   "Fetch Error",
		Summary: "Unable to fetch content due to network issues.",
	}
	GenericErrorPlaceholder = SummaryResult{
		Title:   "Error",
		Summary: "Failed to process article.",
	}
)

// Placeholders lists every placeholder result.
var Placeholders = []SummaryResult{
	AccessDeniedPlaceholder,
	FetchErrorPlaceholder,
	GenericErrorPlaceholder,
}

// IsPlaceholder reports whether r is, or embeds, a placeholder result.
// Titles must match exactly; summaries match by substring.
func IsPlaceholder(r SummaryResult) bool {
	title := strings.TrimSpace(r.Title)
	for _, p := range Placeholders {
		if title == p.Title || strings.Contains(r.Summary, p.Summary) {
			return true
		}
	}
	return false
}
