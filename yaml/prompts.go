// Package yaml loads prompt templates from YAML files.
package yaml

import (
	"bytes"
	"io"
	"os"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/summarize"
	"gopkg.in/yaml.v3"
)

// LoadPrompts reads prompt templates from the file at path.
func LoadPrompts(path string) (summarize.Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return summarize.Prompts{}, newsdigest.Errorf(newsdigest.ECONFIG, "read prompts: %v", err)
	}
	return DecodePrompts(bytes.NewReader(data))
}

// DecodePrompts parses prompt templates. Unknown keys are rejected so a
// misspelled template name does not silently fall back to the default.
func DecodePrompts(r io.Reader) (summarize.Prompts, error) {
	var p summarize.Prompts
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return summarize.Prompts{}, newsdigest.Errorf(newsdigest.ECONFIG, "parse prompts: %v", err)
	}
	return p, nil
}
