package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/hktitof/newsdigest"
)

// Config holds the global flags. Every flag can also be set from the
// environment.
type Config struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"NEWSDIGEST_LOG_LEVEL" help:"Log level (${enum})"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" env:"NEWSDIGEST_LOG_FORMAT" help:"Log format (${enum})"`
	DB        string `name:"db" env:"NEWSDIGEST_DB" type:"path" help:"SQLite database path (default ~/.newsdigest/newsdigest.db)"`

	Provider        string        `name:"provider" group:"Model" default:"azure" enum:"azure,openai,anthropic,gemini" env:"NEWSDIGEST_PROVIDER" help:"Model provider (${enum})"`
	AzureEndpoint   string        `name:"azure-endpoint" group:"Model" env:"AZURE_OPENAI_ENDPOINT" help:"Azure OpenAI endpoint"`
	AzureKey        string        `name:"azure-key" group:"Model" env:"AZURE_OPENAI_API_KEY" help:"Azure OpenAI API key"`
	AzureDeployment string        `name:"azure-deployment" group:"Model" env:"AZURE_OPENAI_DEPLOYMENT" help:"Azure OpenAI deployment"`
	AzureAPIVersion string        `name:"azure-api-version" group:"Model" env:"AZURE_OPENAI_API_VERSION" default:"2024-02-15-preview" help:"Azure OpenAI API version"`
	OpenAIKey       string        `name:"openai-key" group:"Model" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	AnthropicKey    string        `name:"anthropic-key" group:"Model" env:"ANTHROPIC_API_KEY" help:"Anthropic API key"`
	GeminiKey       string        `name:"gemini-key" group:"Model" env:"GEMINI_API_KEY" help:"Gemini API key"`
	Model           string        `name:"model" group:"Model" env:"NEWSDIGEST_MODEL" help:"Model name (provider default when empty)"`
	Prompts         string        `name:"prompts" group:"Model" type:"existingfile" env:"NEWSDIGEST_PROMPTS" help:"YAML file overriding prompt templates"`
	ModelTimeout    time.Duration `name:"model-timeout" group:"Model" default:"60s" help:"Timeout for one model call"`

	FetchTimeout  time.Duration `name:"fetch-timeout" group:"Acquisition" default:"5s" help:"Plain fetch timeout"`
	RenderTimeout time.Duration `name:"render-timeout" group:"Acquisition" default:"30s" help:"Browser navigation timeout"`
	Settle        time.Duration `name:"settle" group:"Acquisition" default:"1s" help:"Wait after consent dismissal before capture"`
	Renderer      string        `name:"renderer" group:"Acquisition" default:"rod" enum:"rod,chromedp,none" env:"NEWSDIGEST_RENDERER" help:"Headless browser driver (${enum})"`
	BrowserBin    string        `name:"browser-bin" group:"Acquisition" env:"NEWSDIGEST_BROWSER_BIN" help:"Chrome binary path"`
	NoSandbox     bool          `name:"no-sandbox" group:"Acquisition" env:"NEWSDIGEST_NO_SANDBOX" help:"Disable the Chrome sandbox (containers running as root)"`
	RPS           float64       `name:"rps" group:"Acquisition" default:"1" help:"Requests per second per site, 0 for unlimited"`
	Retries       int           `name:"retries" group:"Acquisition" default:"1" help:"Plain fetch retries before rendering"`

	Threshold   float64 `name:"threshold" group:"Pipeline" default:"0.7" help:"Jaccard similarity above which batch articles are duplicates"`
	MaxWords    int     `name:"max-words" group:"Pipeline" default:"150" help:"Summary length limit in words"`
	Strict      bool    `name:"strict" group:"Pipeline" help:"Drop page chrome and short lines during extraction"`
	Extractor   string  `name:"extractor" group:"Pipeline" default:"text" enum:"text,readability,trafilatura" help:"Text extractor (${enum})"`
	Concurrency int     `name:"concurrency" group:"Pipeline" default:"4" help:"Concurrent URLs in bulk runs and rescans"`
}

// newLogger builds the process logger from the log flags.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// maxWords returns n, or the default when n is not positive.
func maxWords(n int) int {
	if n > 0 {
		return n
	}
	return newsdigest.DefaultMaxWords
}
