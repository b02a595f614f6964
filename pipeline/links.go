package pipeline

import (
	"context"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/hktitof/newsdigest"
	"golang.org/x/sync/errgroup"
)

// ContentHash fingerprints extracted article text.
func ContentHash(text string) string {
	if text == "" {
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}

// Links saves summarized links and retries the ones that failed.
type Links struct {
	Links       newsdigest.LinkService
	Pipeline    newsdigest.Pipeline
	Concurrency int
}

// SaveStatus describes what Add did with a link.
type SaveStatus string

const (
	SaveCreated   SaveStatus = "created"
	SaveUpdated   SaveStatus = "updated"
	SaveUnchanged SaveStatus = "unchanged"
	// SaveKept means a refresh produced a placeholder and the stored
	// summary was left alone.
	SaveKept SaveStatus = "kept"
)

// Add summarizes url and stores it under category. Placeholder digests are
// stored as well so a later rescan can retry them.
//
// A URL already saved in the category is refreshed instead: when its text
// hashes to the stored ContentHash the model is not called, and a
// placeholder never replaces a real summary.
func (l *Links) Add(ctx context.Context, category, url string, opts newsdigest.SummarizeOptions) (*newsdigest.Link, SaveStatus, error) {
	link := &newsdigest.Link{Category: category, URL: url}
	if err := link.Validate(); err != nil {
		return nil, "", err
	}

	existing, err := l.Links.FindLinks(ctx, newsdigest.LinkFilter{Category: &category, URL: &url, Limit: 1})
	if err != nil {
		return nil, "", err
	}
	if len(existing) > 0 {
		return l.refresh(ctx, existing[0], opts)
	}

	digest, err := l.Pipeline.SummarizeURL(ctx, url, opts)
	if err != nil {
		return nil, "", err
	}

	link.Title = digest.Title
	link.Summary = digest.Summary
	link.ContentHash = digestHash(digest)
	if err := l.Links.CreateLink(ctx, link); err != nil {
		return nil, "", err
	}
	return link, SaveCreated, nil
}

func (l *Links) refresh(ctx context.Context, link *newsdigest.Link, opts newsdigest.SummarizeOptions) (*newsdigest.Link, SaveStatus, error) {
	// A failed link has no summary worth keeping.
	if !link.Failed() {
		opts.PreviousHash = link.ContentHash
	}

	digest, err := l.Pipeline.SummarizeURL(ctx, link.URL, opts)
	if err != nil {
		return nil, "", err
	}
	switch {
	case digest.Unchanged:
		return link, SaveUnchanged, nil
	case digest.Placeholder && !link.Failed():
		return link, SaveKept, nil
	}

	hash := digestHash(digest)
	updated, err := l.Links.UpdateLink(ctx, link.ID, newsdigest.LinkUpdate{
		Title:       &digest.Title,
		Summary:     &digest.Summary,
		ContentHash: &hash,
	})
	if err != nil {
		return nil, "", err
	}
	return updated, SaveUpdated, nil
}

// digestHash prefers the hash computed by the pipeline.
func digestHash(d *newsdigest.Digest) string {
	if d.ContentHash != "" {
		return d.ContentHash
	}
	return ContentHash(d.OriginalContent)
}

// RescanResult counts the outcome of a rescan.
type RescanResult struct {
	Scanned   int `json:"scanned"`
	Recovered int `json:"recovered"`
	Failed    int `json:"failed"`
	Errors    int `json:"errors"`

	// Updated holds the links that now carry a real summary.
	Updated []*newsdigest.Link `json:"updated"`
}

// Rescan re-runs the URL flow for every link whose stored summary is a
// placeholder. A nil category scans all categories.
func (l *Links) Rescan(ctx context.Context, category *string, opts newsdigest.SummarizeOptions) (*RescanResult, error) {
	links, err := l.Links.FindLinks(ctx, newsdigest.LinkFilter{Category: category, FailedOnly: true})
	if err != nil {
		return nil, err
	}

	concurrency := l.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu     sync.Mutex
		result = &RescanResult{Scanned: len(links)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, link := range links {
		g.Go(func() error {
			digest, err := l.Pipeline.SummarizeURL(gctx, link.URL, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				result.Errors++
				mu.Unlock()
				return nil
			}
			if digest.Placeholder {
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			}

			hash := digestHash(digest)
			updated, err := l.Links.UpdateLink(gctx, link.ID, newsdigest.LinkUpdate{
				Title:       &digest.Title,
				Summary:     &digest.Summary,
				ContentHash: &hash,
			})
			if err != nil {
				return err
			}

			mu.Lock()
			result.Recovered++
			result.Updated = append(result.Updated, updated)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
