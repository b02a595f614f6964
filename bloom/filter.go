// Package bloom provides URL deduplication for bulk runs using Bloom filters.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/hktitof/newsdigest"
)

var _ newsdigest.URLSet = (*Filter)(nil)

// DefaultFalsePositiveRate is used by NewURLSet.
const DefaultFalsePositiveRate = 0.001

// Filter is a Bloom filter over normalized article URLs.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewURLSet returns a Filter sized for n URLs at DefaultFalsePositiveRate.
func NewURLSet(n int) newsdigest.URLSet {
	return NewFilter(uint(max(n, 1)), DefaultFalsePositiveRate)
}

// Add records a URL.
func (f *Filter) Add(u string) {
	f.f.AddString(Normalize(u))
}

// Test returns true if the URL might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(u string) bool {
	return f.f.TestString(Normalize(u))
}

// TestAndAdd records the URL and reports whether it might have been
// recorded before.
func (f *Filter) TestAndAdd(u string) bool {
	return f.f.TestAndAddString(Normalize(u))
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Normalize canonicalizes a URL so trivially different spellings of the
// same article collide: scheme and host are lowercased, the fragment is
// dropped and a trailing slash is trimmed. Unparseable input is returned
// trimmed but otherwise unchanged.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	if u.Path == "/" {
		u.Path = ""
	}
	return u.String()
}
