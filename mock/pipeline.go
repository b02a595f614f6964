package mock

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.Pipeline = (*Pipeline)(nil)

// Pipeline is a mock implementation of newsdigest.Pipeline.
type Pipeline struct {
	SummarizeURLFn   func(ctx context.Context, url string, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error)
	SummarizeHTMLFn  func(ctx context.Context, html string, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error)
	SummarizeBatchFn func(ctx context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error)
}

func (p *Pipeline) SummarizeURL(ctx context.Context, url string, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
	return p.SummarizeURLFn(ctx, url, opts)
}

func (p *Pipeline) SummarizeHTML(ctx context.Context, html string, opts newsdigest.SummarizeOptions) (*newsdigest.Digest, error) {
	return p.SummarizeHTMLFn(ctx, html, opts)
}

func (p *Pipeline) SummarizeBatch(ctx context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error) {
	return p.SummarizeBatchFn(ctx, req)
}
