package newsdigest

import "context"

// Digest is the outcome of summarizing a single article.
type Digest struct {
	SummaryResult

	// URL is the final page URL, or the caller-supplied base URL for HTML.
	URL string `json:"url,omitempty"`

	// OriginalContent is the extracted text the summary was built from.
	OriginalContent string       `json:"originalContent,omitempty"`
	ContentLength   int          `json:"contentLength,omitempty"`
	Method          RenderMethod `json:"method,omitempty"`

	// Placeholder is set when the summary is a placeholder standing in for
	// a failed acquisition or summarization.
	Placeholder bool `json:"placeholder,omitempty"`

	// ContentHash fingerprints OriginalContent.
	ContentHash string `json:"contentHash,omitempty"`

	// Unchanged is set when the text matched SummarizeOptions.PreviousHash.
	// The model was not called and the digest carries no summary.
	Unchanged bool `json:"unchanged,omitempty"`
}

// SummarizeOptions tunes a single pipeline run.
type SummarizeOptions struct {
	// Title is used when the model reply carries none. Defaults to the
	// extracted page title.
	Title           string
	MaxWords        int
	ForceFullRender bool

	// BaseURL records where supplied HTML came from.
	BaseURL string

	// PreviousHash is the ContentHash of an earlier digest of the same
	// article. Matching text skips summarization.
	PreviousHash string
}

// Pipeline composes acquisition, extraction and summarization.
type Pipeline interface {
	// SummarizeURL acquires, extracts and summarizes the page at url.
	// Recoverable acquisition and summarization failures come back as
	// placeholder digests rather than errors. Returns EFORBIDDEN for
	// internal targets and EINSUFFICIENT when too little text was found.
	SummarizeURL(ctx context.Context, url string, opts SummarizeOptions) (*Digest, error)

	// SummarizeHTML extracts and summarizes caller-supplied HTML.
	SummarizeHTML(ctx context.Context, html string, opts SummarizeOptions) (*Digest, error)

	// SummarizeBatch deduplicates and summarizes a batch of articles.
	SummarizeBatch(ctx context.Context, req BatchRequest) (*BatchSummary, error)
}

// URLSet remembers URLs seen during a bulk run.
type URLSet interface {
	// TestAndAdd records url and reports whether it was already present.
	// Implementations may report false positives but never false negatives.
	TestAndAdd(url string) bool
}
