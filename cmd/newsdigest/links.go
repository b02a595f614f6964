package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/pipeline"
)

// Run executes the links add command.
func (c *LinksAddCmd) Run(deps *Dependencies) error {
	opts := newsdigest.SummarizeOptions{ForceFullRender: c.ForceRender}

	var failed int
	for _, u := range c.URLs {
		link, saved, err := deps.Linker.Add(deps.Ctx, c.Category, u, opts)
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", u, newsdigest.ErrorMessage(err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", link.ID, link.Title, saveNote(link, saved))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d links not saved", failed, len(c.URLs))
	}
	return nil
}

func saveNote(link *newsdigest.Link, saved pipeline.SaveStatus) string {
	switch saved {
	case pipeline.SaveUnchanged:
		return "unchanged, summary kept"
	case pipeline.SaveKept:
		return "refresh failed, summary kept"
	case pipeline.SaveUpdated:
		if link.Failed() {
			return "updated (placeholder, retry with rescan)"
		}
		return "updated"
	}
	if link.Failed() {
		return "saved (placeholder, retry with rescan)"
	}
	return "saved"
}

// Run executes the links list command.
func (c *LinksListCmd) Run(deps *Dependencies) error {
	filter := newsdigest.LinkFilter{FailedOnly: c.Failed, Limit: c.Limit}
	if c.Category != "" {
		filter.Category = &c.Category
	}

	links, err := deps.Links.FindLinks(deps.Ctx, filter)
	if err != nil {
		return fail(deps, err)
	}

	if len(links) == 0 {
		fmt.Fprintln(deps.Stdout, "No links found. Use 'newsdigest links add' to save one.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	for _, l := range links {
		mark := ""
		if l.Failed() {
			mark = "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.Category, mark, l.Title, l.URL)
	}
	return tw.Flush()
}

// Run executes the links delete command.
func (c *LinksDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Links.DeleteLink(deps.Ctx, c.ID); err != nil {
		if newsdigest.ErrorCode(err) == newsdigest.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: link %q not found. Use 'newsdigest links list' to see saved links.\n", c.ID)
			return err
		}
		return fail(deps, err)
	}

	fmt.Fprintf(deps.Stdout, "Deleted link %s\n", c.ID)
	return nil
}
