package mock

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.ChatCompleter = (*ChatCompleter)(nil)

// ChatCompleter is a mock implementation of newsdigest.ChatCompleter.
type ChatCompleter struct {
	CompleteFn func(ctx context.Context, req newsdigest.ChatRequest) (string, error)
}

func (c *ChatCompleter) Complete(ctx context.Context, req newsdigest.ChatRequest) (string, error) {
	return c.CompleteFn(ctx, req)
}
