package mock

import "github.com/hktitof/newsdigest"

var _ newsdigest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of newsdigest.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*newsdigest.Content, error)
}

func (e *Extractor) Extract(html string) (*newsdigest.Content, error) {
	return e.ExtractFn(html)
}
