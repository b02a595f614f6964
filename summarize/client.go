// Package summarize turns article text into titled summaries through a
// chat-completion model.
package summarize

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/hktitof/newsdigest"
)

// Request defaults.
const (
	// MaxInputChars caps the article text embedded in a prompt.
	MaxInputChars = 15000

	// Temperature favors focused, repeatable output.
	Temperature = 0.3
)

var _ newsdigest.Summarizer = (*Client)(nil)

// Client implements newsdigest.Summarizer on top of a ChatCompleter.
// Calls are not retried.
type Client struct {
	completer     newsdigest.ChatCompleter
	prompts       Prompts
	threshold     float64
	maxInputChars int
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithPrompts overrides the prompt templates.
func WithPrompts(p Prompts) Option {
	return func(c *Client) {
		c.prompts = p.withDefaults()
	}
}

// WithSimilarityThreshold sets the batch deduplication threshold.
func WithSimilarityThreshold(t float64) Option {
	return func(c *Client) {
		c.threshold = t
	}
}

// WithMaxInputChars sets the article text cap.
func WithMaxInputChars(n int) Option {
	return func(c *Client) {
		c.maxInputChars = n
	}
}

// WithLogger sets the logger used for truncation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client sending requests through completer.
func NewClient(completer newsdigest.ChatCompleter, opts ...Option) *Client {
	c := &Client{
		completer:     completer,
		prompts:       Prompts{}.withDefaults(),
		threshold:     newsdigest.DefaultSimilarityThreshold,
		maxInputChars: MaxInputChars,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize asks the model for a title and summary of req.Text. The reply
// is parsed leniently; only validation, configuration and transport
// failures are returned as errors.
func (c *Client) Summarize(ctx context.Context, req newsdigest.SummarizeRequest) (*newsdigest.SummaryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	maxWords := req.MaxWords
	if maxWords == 0 {
		maxWords = newsdigest.DefaultMaxWords
	}

	text, cut := Truncate(req.Text, c.maxInputChars)
	if cut {
		c.logger.Warn("truncated article text",
			"chars", utf8.RuneCountInString(req.Text),
			"limit", c.maxInputChars)
	}

	raw, err := c.completer.Complete(ctx, newsdigest.ChatRequest{
		Messages: []newsdigest.ChatMessage{
			{Role: newsdigest.RoleSystem, Content: c.prompts.System},
			{Role: newsdigest.RoleUser, Content: BuildArticlePrompt(c.prompts.Article, text, req.Title, maxWords)},
		},
		MaxTokens:   maxTokens(maxWords),
		Temperature: Temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	res := newsdigest.ParseSummaryReply(raw, req.Title)
	return &res, nil
}

// SummarizeBatch deduplicates the articles and asks for one digest. A
// caller-supplied template replaces the default batch prompt.
func (c *Client) SummarizeBatch(ctx context.Context, req newsdigest.BatchRequest) (*newsdigest.BatchSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	maxWords := req.MaxWords
	if maxWords == 0 {
		maxWords = newsdigest.DefaultMaxWords
	}

	articles := newsdigest.Deduplicate(req.Articles, c.threshold)
	if dropped := len(req.Articles) - len(articles); dropped > 0 {
		c.logger.Debug("dropped duplicate articles", "category", req.Category, "dropped", dropped)
	}

	tmpl := req.PromptTemplate
	if tmpl == "" {
		tmpl = c.prompts.Batch
	}

	raw, err := c.completer.Complete(ctx, newsdigest.ChatRequest{
		Messages: []newsdigest.ChatMessage{
			{Role: newsdigest.RoleSystem, Content: c.prompts.System},
			{Role: newsdigest.RoleUser, Content: BuildBatchPrompt(tmpl, req.Category, maxWords, articles)},
		},
		MaxTokens:   maxTokens(maxWords),
		Temperature: Temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	res := newsdigest.ParseSummaryReply(raw, req.Category)
	return &newsdigest.BatchSummary{
		Category: req.Category,
		Summary:  res.Summary,
		Articles: len(articles),
	}, nil
}

// maxTokens leaves room for the JSON wrapper around maxWords of prose.
func maxTokens(maxWords int) int {
	return maxWords*2 + 100
}
