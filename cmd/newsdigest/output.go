package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/api"
)

// printDigest writes a digest as text, or as the API success envelope.
func printDigest(w io.Writer, d *newsdigest.Digest, asJSON, content bool) error {
	if asJSON {
		env := api.NewSummaryEnvelope(d)
		if !content {
			env.OriginalContent = ""
		}
		return printJSON(w, env)
	}

	fmt.Fprintln(w, d.Title)
	fmt.Fprintln(w)
	fmt.Fprintln(w, d.Summary)
	if d.Placeholder {
		fmt.Fprintln(w, "(placeholder: the article could not be processed)")
	}
	if content && d.OriginalContent != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "--- extracted text (%d characters) ---\n", d.ContentLength)
		fmt.Fprintln(w, d.OriginalContent)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail reports err on stderr and returns it.
func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
	return err
}
