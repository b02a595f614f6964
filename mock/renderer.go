package mock

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of newsdigest.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (*newsdigest.RenderResult, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (*newsdigest.RenderResult, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}
