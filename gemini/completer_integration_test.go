//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestCompleter_Integration_ReturnsJSONReply(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	c := gemini.NewCompleter(client, "")

	out, err := c.Complete(ctx, newsdigest.ChatRequest{
		Messages: []newsdigest.ChatMessage{{
			Role:    newsdigest.RoleUser,
			Content: `Return {"title": "...", "summary": "..."} for: The city council approved a new bike lane network on Tuesday.`,
		}},
		Temperature: 0.3,
		JSON:        true,
	})
	require.NoError(t, err)

	res := newsdigest.ParseSummaryReply(out, "fallback")
	assert.NotEmpty(t, res.Summary)
	assert.NotEqual(t, newsdigest.NoSummaryMessage, res.Summary)
}
