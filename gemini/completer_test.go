package gemini_test

import (
	"context"
	"testing"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Complete_ReturnsErrorWhenNoMessages(t *testing.T) {
	t.Parallel()

	c := gemini.NewCompleter(nil, "") // nil client ok for this test

	_, err := c.Complete(context.Background(), newsdigest.ChatRequest{})

	require.Error(t, err)
	assert.Equal(t, newsdigest.EINVALID, newsdigest.ErrorCode(err))
}

func TestCompleter_Complete_ReturnsConfigErrorWithoutClient(t *testing.T) {
	t.Parallel()

	c := gemini.NewCompleter(nil, "")

	_, err := c.Complete(context.Background(), newsdigest.ChatRequest{
		Messages: []newsdigest.ChatMessage{{Role: newsdigest.RoleUser, Content: "hi"}},
	})

	require.Error(t, err)
	assert.Equal(t, newsdigest.ECONFIG, newsdigest.ErrorCode(err))
}

func TestBuildRequest_SetsSystemInstruction(t *testing.T) {
	t.Parallel()

	contents, config := gemini.BuildRequest(newsdigest.ChatRequest{
		Messages: []newsdigest.ChatMessage{
			{Role: newsdigest.RoleSystem, Content: "You summarize news."},
			{Role: newsdigest.RoleUser, Content: "Article text"},
		},
	})

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Equal(t, "You summarize news.", config.SystemInstruction.Parts[0].Text)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
}

func TestBuildRequest_SetsTemperatureAndTokens(t *testing.T) {
	t.Parallel()

	_, config := gemini.BuildRequest(newsdigest.ChatRequest{
		Messages:    []newsdigest.ChatMessage{{Role: newsdigest.RoleUser, Content: "x"}},
		Temperature: 0.3,
		MaxTokens:   300,
	})

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.3, *config.Temperature, 0.001)
	assert.Equal(t, int32(300), config.MaxOutputTokens)
	assert.Empty(t, config.ResponseMIMEType)
}

func TestBuildRequest_RequestsJSON(t *testing.T) {
	t.Parallel()

	_, config := gemini.BuildRequest(newsdigest.ChatRequest{
		Messages: []newsdigest.ChatMessage{{Role: newsdigest.RoleUser, Content: "x"}},
		JSON:     true,
	})

	assert.Equal(t, "application/json", config.ResponseMIMEType)
}

func TestBuildRequest_MapsAssistantToModelRole(t *testing.T) {
	t.Parallel()

	contents, _ := gemini.BuildRequest(newsdigest.ChatRequest{
		Messages: []newsdigest.ChatMessage{
			{Role: newsdigest.RoleUser, Content: "q"},
			{Role: newsdigest.RoleAssistant, Content: "a"},
		},
	})

	require.Len(t, contents, 2)
	assert.Equal(t, "model", contents[1].Role)
}
