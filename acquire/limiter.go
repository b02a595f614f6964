package acquire

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/hktitof/newsdigest"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

var _ newsdigest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each site. Subdomains of one
// registrable domain (www.bbc.co.uk, news.bbc.co.uk) share a bucket, so a
// publisher spread over several hosts is still paced as one site.
type DomainLimiter struct {
	mu    sync.Mutex
	sites map[string]*rate.Limiter
	limit rate.Limit
}

// NewDomainLimiter allows rps requests per second to each site with a burst
// of 1. An rps of zero or less disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	d := &DomainLimiter{limit: rate.Inf}
	if rps > 0 {
		d.limit = rate.Limit(rps)
		d.sites = make(map[string]*rate.Limiter)
	}
	return d
}

// Wait blocks until the site owning host may be contacted again.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.limit == rate.Inf {
		return ctx.Err()
	}

	key := SiteKey(host)
	d.mu.Lock()
	limiter, ok := d.sites[key]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.sites[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// SiteKey reduces host to its registrable domain. IP literals and hosts
// without a known public suffix are returned lower-cased as they are.
func SiteKey(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return site
}
