package main

import (
	"fmt"

	"github.com/hktitof/newsdigest"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	res, err := deps.Acquirer.Acquire(deps.Ctx, c.URL, newsdigest.AcquireOptions{ForceFullRender: c.ForceRender})
	if err != nil {
		return fail(deps, err)
	}

	content, err := deps.Extractor.Extract(res.HTML)
	if err != nil {
		return fail(deps, err)
	}

	if c.Markdown {
		md, err := c.markdown(deps, content.Title, res.HTML)
		if err != nil {
			return fail(deps, err)
		}
		fmt.Fprint(deps.Stdout, md)
	} else {
		fmt.Fprintln(deps.Stdout, content.Title)
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, content.TextContent)
	}

	fmt.Fprintf(deps.Stderr, "%s via %s: %d characters\n", res.URL, res.Method, content.Length)
	if !content.Sufficient() {
		fmt.Fprintf(deps.Stderr, "warning: fewer than %d characters extracted; summarization would fail\n", newsdigest.MinContentLength)
	}

	if c.Tokens {
		n, err := deps.TokenCounter.CountTokens(deps.Ctx, content.TextContent)
		if err != nil {
			return fail(deps, err)
		}
		fmt.Fprintf(deps.Stderr, "tokens: %d\n", n)
	}

	return nil
}

// markdown converts the page's main article, or the whole page when no
// article could be isolated.
func (c *ExtractCmd) markdown(deps *Dependencies, title, page string) (string, error) {
	body, err := deps.Isolator.ExtractHTML(page)
	if err != nil {
		return "", err
	}
	if body == "" {
		body = page
	}
	return deps.Converter.ConvertArticle(title, body)
}
