package newsdigest

import "context"

// DefaultMaxWords caps summary length when the caller does not.
const DefaultMaxWords = 150

// SummaryResult is the normalized output of a summarization call.
// Both fields are non-empty once produced by a Summarizer.
type SummaryResult struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// SummarizeRequest asks for a single-article summary.
type SummarizeRequest struct {
	Text     string
	Title    string
	MaxWords int
}

// Validate returns an error if the request contains invalid fields.
func (r *SummarizeRequest) Validate() error {
	if r.Text == "" {
		return Errorf(EINVALID, "text required")
	}
	if r.MaxWords < 0 {
		return Errorf(EINVALID, "max words must not be negative")
	}
	return nil
}

// BatchRequest asks for a single summary covering many articles.
type BatchRequest struct {
	Articles []Article `json:"articles"`
	Category string    `json:"category"`
	MaxWords int       `json:"maxWords"`

	// PromptTemplate overrides the default batch prompt. The tokens
	// {category} and {maxWords} are replaced literally.
	PromptTemplate string `json:"promptTemplate,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *BatchRequest) Validate() error {
	if len(r.Articles) == 0 {
		return Errorf(EINVALID, "at least one article required")
	}
	if r.Category == "" {
		return Errorf(EINVALID, "category required")
	}
	if r.MaxWords < 0 {
		return Errorf(EINVALID, "max words must not be negative")
	}
	return nil
}

// BatchSummary is the digest produced for a category of articles.
type BatchSummary struct {
	Category string `json:"category"`
	Summary  string `json:"summary"`

	// Articles is the number of articles left after deduplication.
	Articles int `json:"articles"`
}

// Summarizer produces summaries through a language model.
type Summarizer interface {
	// Summarize returns a title and summary for the text. Once the model
	// has answered, a malformed reply never surfaces as an error.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummaryResult, error)

	// SummarizeBatch deduplicates the articles and summarizes them as one.
	SummarizeBatch(ctx context.Context, req BatchRequest) (*BatchSummary, error)
}
