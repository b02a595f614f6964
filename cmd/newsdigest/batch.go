package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hktitof/newsdigest"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	req, err := readBatchFile(c.File)
	if err != nil {
		return fail(deps, err)
	}
	if c.Category != "" {
		req.Category = c.Category
	}
	if c.Template != "" {
		req.PromptTemplate = c.Template
	}

	summary, err := deps.Pipeline.SummarizeBatch(deps.Ctx, req)
	if err != nil {
		return fail(deps, err)
	}

	if c.JSON {
		return printJSON(deps.Stdout, summary)
	}
	fmt.Fprintf(deps.Stdout, "%s (%d articles)\n\n%s\n", summary.Category, summary.Articles, summary.Summary)
	return nil
}

// readBatchFile accepts either a JSON array of articles or a full batch
// request object.
func readBatchFile(path string) (newsdigest.BatchRequest, error) {
	var req newsdigest.BatchRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, newsdigest.Errorf(newsdigest.EINVALID, "read %s: %v", path, err)
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		err = json.Unmarshal(data, &req.Articles)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return req, newsdigest.Errorf(newsdigest.EINVALID, "parse %s: %v", path, err)
	}
	return req, nil
}
