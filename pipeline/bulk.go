package pipeline

import (
	"context"

	"github.com/hktitof/newsdigest"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel URL runs.
const DefaultConcurrency = 4

// Result is the outcome of one URL in a bulk run.
type Result struct {
	URL    string
	Digest *newsdigest.Digest
	Err    error

	// Duplicate is set for URLs skipped because an earlier entry matched.
	Duplicate bool
}

// Bulk summarizes many URLs with bounded concurrency.
type Bulk struct {
	Pipeline    newsdigest.Pipeline
	Concurrency int

	// NewURLSet builds the set used to skip repeated URLs. Nil disables
	// deduplication.
	NewURLSet func(n int) newsdigest.URLSet
}

// SummarizeURLs runs the URL flow for every entry of urls. Results keep the
// input order. Per-URL failures are reported in Result.Err; the returned
// error is only set when ctx ends the run early.
func (b *Bulk) SummarizeURLs(ctx context.Context, urls []string, opts newsdigest.SummarizeOptions) ([]Result, error) {
	results := make([]Result, len(urls))

	var seen newsdigest.URLSet
	if b.NewURLSet != nil {
		seen = b.NewURLSet(len(urls))
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, url := range urls {
		results[i].URL = url
		if seen != nil && seen.TestAndAdd(url) {
			results[i].Duplicate = true
			continue
		}
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}

		g.Go(func() error {
			digest, err := b.Pipeline.SummarizeURL(ctx, url, opts)
			results[i].Digest = digest
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}
