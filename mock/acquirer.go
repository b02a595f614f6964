package mock

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.Acquirer = (*Acquirer)(nil)

// Acquirer is a mock implementation of newsdigest.Acquirer.
type Acquirer struct {
	AcquireFn func(ctx context.Context, url string, opts newsdigest.AcquireOptions) (*newsdigest.RenderResult, error)
}

func (a *Acquirer) Acquire(ctx context.Context, url string, opts newsdigest.AcquireOptions) (*newsdigest.RenderResult, error) {
	return a.AcquireFn(ctx, url, opts)
}
