package mock

import (
	"context"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of newsdigest.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
