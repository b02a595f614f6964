package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/acquire"
	"github.com/hktitof/newsdigest/anthropic"
	"github.com/hktitof/newsdigest/api"
	"github.com/hktitof/newsdigest/bloom"
	"github.com/hktitof/newsdigest/chromedp"
	"github.com/hktitof/newsdigest/gemini"
	"github.com/hktitof/newsdigest/gobreaker"
	"github.com/hktitof/newsdigest/goquery"
	"github.com/hktitof/newsdigest/htmltomarkdown"
	"github.com/hktitof/newsdigest/http"
	"github.com/hktitof/newsdigest/openai"
	"github.com/hktitof/newsdigest/pipeline"
	ndprom "github.com/hktitof/newsdigest/prometheus"
	"github.com/hktitof/newsdigest/readability"
	"github.com/hktitof/newsdigest/rod"
	ndslog "github.com/hktitof/newsdigest/slog"
	"github.com/hktitof/newsdigest/summarize"
	"github.com/hktitof/newsdigest/trafilatura"
	"github.com/hktitof/newsdigest/yaml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/genai"
)

// tokenizerModel is the model whose local tokenizer counts tokens for
// "extract --tokens". It need not match the summarization model.
const tokenizerModel = gemini.DefaultModel

// wiring builds services from the global flags. Every service is wrapped in
// the metrics and logging decorators. Resources it starts are released by
// Close.
type wiring struct {
	cfg      *Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *ndprom.Metrics
	closers  []func() error

	acq newsdigest.Acquirer
}

func newWiring(cfg *Config, stderr io.Writer) *wiring {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &wiring{
		cfg:      cfg,
		logger:   newLogger(stderr, cfg.LogLevel, cfg.LogFormat),
		registry: reg,
		metrics:  ndprom.NewMetrics(reg),
	}
}

// Close releases everything the wiring started, newest first.
func (w *wiring) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = append(errs, w.closers[i]())
	}
	w.closers = nil
	return errors.Join(errs...)
}

func (w *wiring) decorator() newsdigest.Decorator {
	return goquery.NewDecorator()
}

// renderer starts the configured headless browser. A browser that fails to
// launch disables the render tier instead of failing the command.
func (w *wiring) renderer() newsdigest.Renderer {
	var (
		r   newsdigest.Renderer
		err error
	)
	switch w.cfg.Renderer {
	case "none":
		return nil
	case "chromedp":
		r, err = chromedp.NewRenderer(
			chromedp.WithTimeout(w.cfg.RenderTimeout),
			chromedp.WithSettleDelay(w.cfg.Settle),
			chromedp.WithDecorator(w.decorator()),
			chromedp.WithExecPath(w.cfg.BrowserBin),
			chromedp.WithNoSandbox(w.cfg.NoSandbox),
		)
	default:
		var bm *rod.BrowserManager
		bm, err = rod.NewBrowserManager(
			rod.WithNoSandbox(w.cfg.NoSandbox),
			rod.WithBrowserBin(w.cfg.BrowserBin),
			rod.WithManagerLogger(w.logger),
		)
		if err == nil {
			r = rod.NewRenderer(bm,
				rod.WithTimeout(w.cfg.RenderTimeout),
				rod.WithSettleDelay(w.cfg.Settle),
				rod.WithDecorator(w.decorator()),
			)
		}
	}
	if err != nil {
		w.logger.Warn("browser unavailable, render tier disabled", "renderer", w.cfg.Renderer, "err", err)
		return nil
	}

	w.closers = append(w.closers, r.Close)
	return ndslog.NewLoggingRenderer(r, w.logger)
}

// acquirer returns the two-tier acquirer. It is built once.
func (w *wiring) acquirer() newsdigest.Acquirer {
	if w.acq != nil {
		return w.acq
	}

	fetcher := http.NewFetcher(
		http.WithTimeout(w.cfg.FetchTimeout),
		http.WithDecorator(w.decorator()),
	)

	a := &acquire.Acquirer{
		Fetcher:     ndslog.NewLoggingFetcher(fetcher, w.logger),
		RateLimiter: acquire.NewDomainLimiter(w.cfg.RPS),
		RetryDelays: acquire.BackoffDelays(w.cfg.Retries, acquire.DefaultInitialDelay, acquire.DefaultBackoffFactor),
		Logger:      w.logger,
	}
	// Assigned separately so a nil renderer stays a nil interface.
	if r := w.renderer(); r != nil {
		a.Renderer = r
	}

	w.acq = ndslog.NewLoggingAcquirer(ndprom.NewAcquirer(a, w.metrics), w.logger)
	return w.acq
}

func (w *wiring) extractor() newsdigest.Extractor {
	switch w.cfg.Extractor {
	case "readability":
		return readability.NewExtractor()
	case "trafilatura":
		return trafilatura.NewExtractor()
	default:
		return goquery.NewExtractor(goquery.WithStrict(w.cfg.Strict))
	}
}

func (w *wiring) isolator() ArticleIsolator {
	return readability.NewExtractor()
}

func (w *wiring) converter() ArticleConverter {
	return htmltomarkdown.NewConverter()
}

func (w *wiring) tokenCounter() newsdigest.TokenCounter {
	return gemini.NewTokenCounter(tokenizerModel)
}

// completer returns the configured provider behind a circuit breaker.
// Missing credentials surface as ECONFIG on the first call.
func (w *wiring) completer(ctx context.Context) (newsdigest.ChatCompleter, error) {
	httpClient := &nethttp.Client{Timeout: w.cfg.ModelTimeout}

	var c newsdigest.ChatCompleter
	switch w.cfg.Provider {
	case "openai":
		c = openai.NewCompleter(w.cfg.OpenAIKey, w.cfg.Model, openai.WithHTTPClient(httpClient))
	case "anthropic":
		c = anthropic.NewCompleter(w.cfg.AnthropicKey, w.cfg.Model, option.WithRequestTimeout(w.cfg.ModelTimeout))
	case "gemini":
		var client *genai.Client
		if w.cfg.GeminiKey != "" {
			var err error
			client, err = genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:     w.cfg.GeminiKey,
				Backend:    genai.BackendGeminiAPI,
				HTTPClient: httpClient,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
		}
		c = gemini.NewCompleter(client, w.cfg.Model)
	default:
		c = openai.NewAzureCompleter(w.cfg.AzureEndpoint, w.cfg.AzureKey, w.cfg.AzureDeployment,
			openai.WithAPIVersion(w.cfg.AzureAPIVersion),
			openai.WithHTTPClient(httpClient),
		)
	}

	c = gobreaker.NewCompleter(c, gobreaker.DefaultConfig(w.cfg.Provider), w.logger)
	c = ndprom.NewCompleter(c, w.metrics)
	return ndslog.NewLoggingCompleter(c, w.logger), nil
}

func (w *wiring) summarizer(ctx context.Context) (newsdigest.Summarizer, error) {
	completer, err := w.completer(ctx)
	if err != nil {
		return nil, err
	}

	opts := []summarize.Option{
		summarize.WithSimilarityThreshold(w.cfg.Threshold),
		summarize.WithLogger(w.logger),
	}
	if w.cfg.Prompts != "" {
		prompts, err := yaml.LoadPrompts(w.cfg.Prompts)
		if err != nil {
			return nil, err
		}
		opts = append(opts, summarize.WithPrompts(prompts))
	}

	return ndslog.NewLoggingSummarizer(summarize.NewClient(completer, opts...), w.logger), nil
}

// pipeline builds the pipeline. Without acquisition only the HTML and
// batch flows work, and no browser is started.
func (w *wiring) pipeline(ctx context.Context, acquisition bool) (newsdigest.Pipeline, error) {
	s, err := w.summarizer(ctx)
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{
		Extractor:  w.extractor(),
		Summarizer: s,
		MaxWords:   maxWords(w.cfg.MaxWords),
	}
	if acquisition {
		p.Acquirer = w.acquirer()
	}

	return ndslog.NewLoggingPipeline(ndprom.NewPipeline(p, w.metrics), w.logger), nil
}

func (w *wiring) bulk(p newsdigest.Pipeline) *pipeline.Bulk {
	return &pipeline.Bulk{
		Pipeline:    p,
		Concurrency: w.cfg.Concurrency,
		NewURLSet:   bloom.NewURLSet,
	}
}

func (w *wiring) linker(links newsdigest.LinkService, p newsdigest.Pipeline) *pipeline.Links {
	return &pipeline.Links{
		Links:       links,
		Pipeline:    p,
		Concurrency: w.cfg.Concurrency,
	}
}

func (w *wiring) server(p newsdigest.Pipeline, a newsdigest.Acquirer, linker *pipeline.Links) *api.Server {
	return &api.Server{
		Pipeline:  p,
		Acquirer:  a,
		Decorator: w.decorator(),
		Rescanner: linker,
		Metrics:   ndprom.Handler(w.registry),
		Logger:    w.logger,
		MaxWords:  maxWords(w.cfg.MaxWords),
	}
}
