package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/hktitof/newsdigest"
)

// Run executes the render command.
func (c *RenderCmd) Run(deps *Dependencies) error {
	res, err := deps.Acquirer.Acquire(deps.Ctx, c.URL, newsdigest.AcquireOptions{ForceFullRender: !c.Fetch})
	if err != nil {
		return fail(deps, err)
	}

	if c.Output == "" {
		fmt.Fprint(deps.Stdout, res.HTML)
	} else if err := os.WriteFile(c.Output, []byte(res.HTML), 0644); err != nil {
		return fail(deps, fmt.Errorf("write %s: %w", c.Output, err))
	}

	if c.Screenshot != "" {
		if res.Screenshot == "" {
			fmt.Fprintf(deps.Stderr, "warning: no screenshot for %s (acquired via %s)\n", res.URL, res.Method)
		} else if err := writeScreenshot(c.Screenshot, res.Screenshot); err != nil {
			return fail(deps, err)
		}
	}

	fmt.Fprintf(deps.Stderr, "%s via %s (status %d, %d bytes)\n", res.URL, res.Method, res.StatusCode, len(res.HTML))
	return nil
}

func writeScreenshot(path, encoded string) error {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode screenshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
