package mock

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of newsdigest.Summarizer.
type Summarizer struct {
	SummarizeFn      func(ctx context.Context, req newsdigest.SummarizeRequest) (*newsdigest.SummaryResult, error)
	SummarizeBatchFn func(ctx context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, req newsdigest.SummarizeRequest) (*newsdigest.SummaryResult, error) {
	return s.SummarizeFn(ctx, req)
}

func (s *Summarizer) SummarizeBatch(ctx context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error) {
	return s.SummarizeBatchFn(ctx, req)
}
