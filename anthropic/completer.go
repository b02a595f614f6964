// Package anthropic implements newsdigest.ChatCompleter using the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hktitof/newsdigest"
)

// DefaultModel is used when no model is configured.
const DefaultModel = anthropic.ModelClaudeSonnet4_5

// defaultMaxTokens applies when a request does not set MaxTokens; the API
// requires one.
const defaultMaxTokens = 1024

var _ newsdigest.ChatCompleter = (*Completer)(nil)

// Completer sends chat requests to Claude.
type Completer struct {
	client    anthropic.Client
	model     anthropic.Model
	configErr error
}

// NewCompleter returns a Completer authenticating with apiKey. Extra
// request options (base URL, HTTP client) are passed to the SDK. The SDK's
// own retries are disabled.
func NewCompleter(apiKey, model string, opts ...option.RequestOption) *Completer {
	if apiKey == "" {
		return &Completer{configErr: newsdigest.Errorf(newsdigest.ECONFIG, "anthropic API key not configured")}
	}
	if model == "" {
		model = string(DefaultModel)
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &Completer{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

// Complete sends req and concatenates the text blocks of the reply.
// System messages become the system prompt.
func (c *Completer) Complete(ctx context.Context, req newsdigest.ChatRequest) (string, error) {
	if c.configErr != nil {
		return "", c.configErr
	}

	params := BuildParams(c.model, req)
	if len(params.Messages) == 0 {
		return "", newsdigest.Errorf(newsdigest.EINVALID, "at least one message required")
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", newsdigest.StatusErrorf(newsdigest.EUPSTREAM, apiErr.StatusCode,
				"anthropic: %s %s", http.StatusText(apiErr.StatusCode), apiErr.RawJSON())
		}
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", newsdigest.Errorf(newsdigest.EUPSTREAM, "no text content in response")
	}
	return sb.String(), nil
}

// BuildParams converts a provider-neutral request to Messages API params.
func BuildParams(model anthropic.Model, req newsdigest.ChatRequest) anthropic.MessageNewParams {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(float64(req.Temperature)),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case newsdigest.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case newsdigest.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return params
}
