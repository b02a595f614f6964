// Package pipeline composes acquisition, extraction and summarization into
// the article summarization flows.
package pipeline

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.Pipeline = (*Pipeline)(nil)

// Pipeline runs the URL, HTML and batch flows.
type Pipeline struct {
	Acquirer   newsdigest.Acquirer
	Extractor  newsdigest.Extractor
	Summarizer newsdigest.Summarizer

	// MaxWords applies when a call does not set its own limit.
	MaxWords int
}

// SummarizeURL acquires the page, extracts its text and summarizes it.
// Acquisition and summarization failures become placeholder digests;
// terminal errors (see Terminal) are returned.
func (p *Pipeline) SummarizeURL(ctx context.Context, url string, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
	res, err := p.Acquirer.Acquire(ctx, url, newsdigest.AcquireOptions{ForceFullRender: opts.ForceFullRender})
	if err != nil {
		return p.fallback(ctx, err, Classify)
	}

	content, err := p.extract(res.HTML)
	if err != nil {
		return nil, err
	}

	if d, ok := unchanged(content, opts); ok {
		d.URL = res.URL
		d.Method = res.Method
		return d, nil
	}

	digest, err := p.summarize(ctx, content, opts)
	if err != nil {
		return p.fallback(ctx, err, classifySummary)
	}
	digest.URL = res.URL
	digest.Method = res.Method
	return digest, nil
}

// SummarizeHTML extracts and summarizes caller-supplied HTML. Errors are
// returned as they are; no placeholders are produced.
func (p *Pipeline) SummarizeHTML(ctx context.Context, html string, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
	if html == "" {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "html required")
	}

	content, err := p.extract(html)
	if err != nil {
		return nil, err
	}

	if d, ok := unchanged(content, opts); ok {
		d.URL = opts.BaseURL
		return d, nil
	}

	digest, err := p.summarize(ctx, content, opts)
	if err != nil {
		return nil, err
	}
	digest.URL = opts.BaseURL
	return digest, nil
}

// SummarizeBatch delegates to the summarizer.
func (p *Pipeline) SummarizeBatch(ctx context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error) {
	if req.MaxWords == 0 {
		req.MaxWords = p.MaxWords
	}
	return p.Summarizer.SummarizeBatch(ctx, req)
}

func (p *Pipeline) extract(html string) (*newsdigest.Content, error) {
	if html == "" {
		return nil, newsdigest.Errorf(newsdigest.EINSUFFICIENT, "page returned no HTML")
	}
	content, err := p.Extractor.Extract(html)
	if err != nil {
		return nil, err
	}
	if !content.Sufficient() {
		return nil, newsdigest.Errorf(newsdigest.EINSUFFICIENT,
			"extracted %d characters of text, need at least %d", content.Length, newsdigest.MinContentLength)
	}
	return content, nil
}

func (p *Pipeline) summarize(ctx context.Context, content *newsdigest.Content, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
	title := opts.Title
	if title == "" {
		title = content.Title
	}
	maxWords := opts.MaxWords
	if maxWords == 0 {
		maxWords = p.MaxWords
	}

	sum, err := p.Summarizer.Summarize(ctx, newsdigest.SummarizeRequest{
		Text:     content.TextContent,
		Title:    title,
		MaxWords: maxWords,
	})
	if err != nil {
		return nil, err
	}

	return &newsdigest.Digest{
		SummaryResult:   *sum,
		OriginalContent: content.TextContent,
		ContentLength:   content.Length,
		ContentHash:     ContentHash(content.TextContent),
	}, nil
}

// unchanged returns a summary-less digest when content hashes to
// opts.PreviousHash.
func unchanged(content *newsdigest.Content, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, bool) {
	if opts.PreviousHash == "" {
		return nil, false
	}
	hash := ContentHash(content.TextContent)
	if hash != opts.PreviousHash {
		return nil, false
	}
	return &newsdigest.Digest{
		OriginalContent: content.TextContent,
		ContentLength:   content.Length,
		ContentHash:     hash,
		Unchanged:       true,
	}, true
}

// fallback turns err into a placeholder digest when classify allows it.
// A done caller context always wins.
func (p *Pipeline) fallback(ctx context.Context, err error, classify func(error) (newsdigest.SummaryResult, bool)) (*newsdigest.Digest, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	ph, ok := classify(err)
	if !ok {
		return nil, err
	}
	return &newsdigest.Digest{SummaryResult: ph, Placeholder: true}, nil
}

// classifySummary maps model failures to the generic placeholder. Upstream
// statuses describe the model API, not the article, so they never produce
// Access Denied.
func classifySummary(err error) (newsdigest.SummaryResult, bool) {
	if Terminal(err) {
		return newsdigest.SummaryResult{}, false
	}
	return newsdigest.GenericErrorPlaceholder, true
}
