package main

import (
	"fmt"

	"github.com/hktitof/newsdigest"
)

// Run executes the rescan command.
func (c *RescanCmd) Run(deps *Dependencies) error {
	var category *string
	if c.Category != "" {
		category = &c.Category
	}

	result, err := deps.Linker.Rescan(deps.Ctx, category, newsdigest.SummarizeOptions{})
	if err != nil {
		return fail(deps, err)
	}

	for _, l := range result.Updated {
		fmt.Fprintf(deps.Stdout, "recovered  %s  %s\n", l.Title, l.URL)
	}
	fmt.Fprintf(deps.Stdout, "Scanned %d, recovered %d, still failing %d, errors %d\n",
		result.Scanned, result.Recovered, result.Failed, result.Errors)
	return nil
}
