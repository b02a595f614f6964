package gemini

import (
	"context"
	"errors"

	"github.com/hktitof/newsdigest"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements newsdigest.ChatCompleter at compile time.
var _ newsdigest.ChatCompleter = (*Completer)(nil)

// Completer implements newsdigest.ChatCompleter using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model selects DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete sends the conversation to Gemini and returns the reply text.
func (c *Completer) Complete(ctx context.Context, req newsdigest.ChatRequest) (string, error) {
	contents, config := BuildRequest(req)
	if len(contents) == 0 {
		return "", newsdigest.Errorf(newsdigest.EINVALID, "at least one message required")
	}
	if c.client == nil {
		return "", newsdigest.Errorf(newsdigest.ECONFIG, "gemini client not configured")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", newsdigest.StatusErrorf(newsdigest.EUPSTREAM, apiErr.Code, "gemini: %s", apiErr.Message)
		}
		return "", err
	}
	if result == nil {
		return "", newsdigest.Errorf(newsdigest.EUPSTREAM, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildRequest converts a chat request to Gemini contents and config.
// System messages become the system instruction.
func BuildRequest(req newsdigest.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	temp := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case newsdigest.RoleSystem:
			if config.SystemInstruction == nil {
				config.SystemInstruction = &genai.Content{}
			}
			config.SystemInstruction.Parts = append(config.SystemInstruction.Parts, &genai.Part{Text: m.Content})
		case newsdigest.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, config
}
