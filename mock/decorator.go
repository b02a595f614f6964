package mock

import "github.com/hktitof/newsdigest"

var _ newsdigest.Decorator = (*Decorator)(nil)

// Decorator is a mock implementation of newsdigest.Decorator.
type Decorator struct {
	DecorateFn func(html, baseURL string) string
}

func (d *Decorator) Decorate(html, baseURL string) string {
	return d.DecorateFn(html, baseURL)
}
