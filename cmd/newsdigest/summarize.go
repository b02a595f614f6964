package main

import (
	"fmt"
	"os"

	"github.com/hktitof/newsdigest"
)

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	opts := newsdigest.SummarizeOptions{
		Title:           c.Title,
		ForceFullRender: c.ForceRender,
		BaseURL:         c.BaseURL,
	}

	switch {
	case c.HTMLFile != "" && len(c.URLs) > 0:
		return fail(deps, newsdigest.Errorf(newsdigest.EINVALID, "use either URLs or --html-file, not both"))
	case c.HTMLFile != "":
		return c.runHTML(deps, opts)
	case len(c.URLs) == 0:
		return fail(deps, newsdigest.Errorf(newsdigest.EINVALID, "at least one URL or --html-file required"))
	case len(c.URLs) == 1:
		d, err := deps.Pipeline.SummarizeURL(deps.Ctx, c.URLs[0], opts)
		if err != nil {
			return fail(deps, err)
		}
		return printDigest(deps.Stdout, d, c.JSON, c.Content)
	default:
		return c.runBulk(deps, opts)
	}
}

func (c *SummarizeCmd) runHTML(deps *Dependencies, opts newsdigest.SummarizeOptions) error {
	data, err := os.ReadFile(c.HTMLFile)
	if err != nil {
		return fail(deps, newsdigest.Errorf(newsdigest.EINVALID, "read %s: %v", c.HTMLFile, err))
	}

	d, err := deps.Pipeline.SummarizeHTML(deps.Ctx, string(data), opts)
	if err != nil {
		return fail(deps, err)
	}
	return printDigest(deps.Stdout, d, c.JSON, c.Content)
}

func (c *SummarizeCmd) runBulk(deps *Dependencies, opts newsdigest.SummarizeOptions) error {
	results, err := deps.Bulk.SummarizeURLs(deps.Ctx, c.URLs, opts)
	if err != nil {
		return fail(deps, err)
	}

	var failed int
	for i, r := range results {
		switch {
		case r.Duplicate:
			fmt.Fprintf(deps.Stderr, "skipped duplicate %s\n", r.URL)
			continue
		case r.Err != nil:
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.URL, newsdigest.ErrorMessage(r.Err))
			continue
		}

		if !c.JSON {
			if i > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintf(deps.Stdout, "== %s\n", r.URL)
		}
		if err := printDigest(deps.Stdout, r.Digest, c.JSON, c.Content); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(results))
	}
	return nil
}
