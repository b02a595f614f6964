// Package gemini implements newsdigest.ChatCompleter and
// newsdigest.TokenCounter using Google Gemini.
package gemini

import (
	"context"
	"sync"

	"github.com/hktitof/newsdigest"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ newsdigest.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens locally with the Gemini tokenizer. The
// tokenizer is loaded on first use.
type TokenCounter struct {
	model string

	once sync.Once
	tok  *tokenizer.LocalTokenizer
	err  error
}

// NewTokenCounter returns a TokenCounter for model. An empty model selects
// DefaultModel.
func NewTokenCounter(model string) *TokenCounter {
	if model == "" {
		model = DefaultModel
	}
	return &TokenCounter{model: model}
}

// CountTokens counts the tokens text would occupy as a user message.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	tc.once.Do(func() {
		tc.tok, tc.err = tokenizer.NewLocalTokenizer(tc.model)
	})
	if tc.err != nil {
		return 0, newsdigest.Errorf(newsdigest.ECONFIG, "load tokenizer for %s: %v", tc.model, tc.err)
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
