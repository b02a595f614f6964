// Package openai implements newsdigest.ChatCompleter on top of the OpenAI
// and Azure OpenAI chat-completion APIs.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hktitof/newsdigest"
	openai "github.com/sashabaranov/go-openai"
)

// Defaults for the two flavors of the API.
const (
	DefaultModel           = "gpt-4o-mini"
	DefaultAzureAPIVersion = "2024-02-15-preview"
)

var _ newsdigest.ChatCompleter = (*Completer)(nil)

// Completer sends chat-completion requests to OpenAI or an Azure OpenAI
// deployment.
type Completer struct {
	client *openai.Client
	model  string

	// configErr is returned from every call when required settings were
	// missing at construction time.
	configErr error
}

// Option configures a Completer.
type Option func(*options)

type options struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithAPIVersion sets the Azure api-version query parameter.
func WithAPIVersion(v string) Option {
	return func(o *options) { o.apiVersion = v }
}

// WithHTTPClient sets the HTTP client used for API calls. Its timeout
// bounds every model call.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// NewAzureCompleter returns a Completer for an Azure OpenAI deployment.
// Missing endpoint, key or deployment is reported as ECONFIG when the
// completer is called.
func NewAzureCompleter(endpoint, apiKey, deployment string, opts ...Option) *Completer {
	o := options{apiVersion: DefaultAzureAPIVersion}
	for _, opt := range opts {
		opt(&o)
	}

	var missing []string
	if endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if apiKey == "" {
		missing = append(missing, "API key")
	}
	if deployment == "" {
		missing = append(missing, "deployment")
	}
	if len(missing) > 0 {
		return &Completer{configErr: newsdigest.Errorf(newsdigest.ECONFIG,
			"azure openai %s not configured", strings.Join(missing, ", "))}
	}

	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	cfg.APIVersion = o.apiVersion
	cfg.AzureModelMapperFunc = func(string) string { return deployment }
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}

	return &Completer{client: openai.NewClientWithConfig(cfg), model: deployment}
}

// NewCompleter returns a Completer for the public OpenAI API. An empty
// model selects DefaultModel.
func NewCompleter(apiKey, model string, opts ...Option) *Completer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if apiKey == "" {
		return &Completer{configErr: newsdigest.Errorf(newsdigest.ECONFIG, "openai API key not configured")}
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}

	return &Completer{client: openai.NewClientWithConfig(cfg), model: model}
}

// Complete sends req and returns the content of the first choice.
func (c *Completer) Complete(ctx context.Context, req newsdigest.ChatRequest) (string, error) {
	if c.configErr != nil {
		return "", c.configErr
	}
	if len(req.Messages) == 0 {
		return "", newsdigest.Errorf(newsdigest.EINVALID, "at least one message required")
	}

	creq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    BuildMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSON {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return "", translateError(err)
	}
	if len(resp.Choices) == 0 {
		return "", newsdigest.Errorf(newsdigest.EUPSTREAM, "no choices in completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

// BuildMessages converts provider-neutral messages to the API form.
func BuildMessages(msgs []newsdigest.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case newsdigest.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case newsdigest.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// translateError maps API errors to EUPSTREAM carrying the upstream status.
// Transport and context errors pass through unchanged.
func translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return newsdigest.StatusErrorf(newsdigest.EUPSTREAM, apiErr.HTTPStatusCode, "%s", apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.HTTPStatus
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return newsdigest.StatusErrorf(newsdigest.EUPSTREAM, reqErr.HTTPStatusCode, "%s", msg)
	}
	return err
}
