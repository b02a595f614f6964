package mock

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of newsdigest.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*newsdigest.RenderResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*newsdigest.RenderResult, error) {
	return f.FetchFn(ctx, url)
}
