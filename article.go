package newsdigest

import "strings"

// DefaultSimilarityThreshold is the Jaccard similarity above which two
// articles are considered the same story.
const DefaultSimilarityThreshold = 0.70

// minTokenLength is the shortest token that counts toward similarity.
// Shorter words ("the", "and", "is") carry no signal.
const minTokenLength = 4

// Article is an already-summarized article supplied for batch summarization.
// Two articles are the same if their normalized text is sufficiently similar.
type Article struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// normalized returns the lowercase text used for similarity comparisons.
func (a Article) normalized() string {
	return strings.ToLower(a.Title + " " + a.Summary)
}

// Deduplicate removes near-duplicate articles. Order is preserved and the
// first occurrence wins. An article is dropped when its similarity to any
// previously accepted article exceeds threshold.
//
// Every article is compared against every accepted one, so the cost is
// quadratic in the batch size. Batches are tens of articles.
func Deduplicate(articles []Article, threshold float64) []Article {
	if len(articles) <= 1 {
		return articles
	}

	var seen []map[string]struct{}
	result := make([]Article, 0, len(articles))
	for _, a := range articles {
		tokens := tokenSet(a.normalized())

		duplicate := false
		for _, s := range seen {
			if jaccard(tokens, s) > threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen = append(seen, tokens)
		result = append(result, a)
	}
	return result
}

// Similarity returns the Jaccard similarity of the word sets of a and b,
// counting only words longer than three characters.
func Similarity(a, b string) float64 {
	return jaccard(tokenSet(a), tokenSet(b))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		if len([]rune(tok)) >= minTokenLength {
			set[tok] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
