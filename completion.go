package newsdigest

import "context"

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single message of a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a provider-neutral chat-completion request.
type ChatRequest struct {
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float32

	// JSON asks the provider for a JSON object response where supported.
	JSON bool
}

// ChatCompleter sends a chat-completion request to a language model.
type ChatCompleter interface {
	// Complete returns the text of the first choice. Missing credentials
	// return ECONFIG; non-2xx responses return EUPSTREAM with the upstream
	// status recorded.
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
