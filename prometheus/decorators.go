package prometheus

import (
	"context"
	"time"

	"github.com/hktitof/newsdigest"
)

var _ newsdigest.Acquirer = (*Acquirer)(nil)

// Acquirer records acquisition counts and latency.
type Acquirer struct {
	next    newsdigest.Acquirer
	metrics *Metrics
}

// NewAcquirer wraps next.
func NewAcquirer(next newsdigest.Acquirer, m *Metrics) *Acquirer {
	return &Acquirer{next: next, metrics: m}
}

// Acquire delegates to the wrapped acquirer. Failures are labeled with
// the tier that was requested: render when forced, fetch otherwise.
func (a *Acquirer) Acquire(ctx context.Context, url string, opts newsdigest.AcquireOptions) (res *newsdigest.RenderResult, err error) {
	defer func(begin time.Time) {
		method := string(newsdigest.MethodFetch)
		if opts.ForceFullRender {
			method = string(newsdigest.MethodRender)
		}
		if res != nil {
			method = string(res.Method)
		}

		outcome := OutcomeOK
		switch {
		case newsdigest.ErrorCode(err) == newsdigest.EFORBIDDEN:
			outcome = OutcomeRejected
		case err != nil:
			outcome = OutcomeError
		}

		a.metrics.AcquisitionsTotal.WithLabelValues(method, outcome).Inc()
		a.metrics.AcquisitionDuration.WithLabelValues(method).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return a.next.Acquire(ctx, url, opts)
}

var _ newsdigest.Pipeline = (*Pipeline)(nil)

// Pipeline records digest outcomes and placeholder reasons.
type Pipeline struct {
	next    newsdigest.Pipeline
	metrics *Metrics
}

// NewPipeline wraps next.
func NewPipeline(next newsdigest.Pipeline, m *Metrics) *Pipeline {
	return &Pipeline{next: next, metrics: m}
}

// SummarizeURL delegates to the wrapped pipeline.
func (p *Pipeline) SummarizeURL(ctx context.Context, url string, opts newsdigest.SummarizeOptions) (d *newsdigest.Digest, err error) {
	defer func() { p.observe("url", d, err) }()
	return p.next.SummarizeURL(ctx, url, opts)
}

// SummarizeHTML delegates to the wrapped pipeline.
func (p *Pipeline) SummarizeHTML(ctx context.Context, html string, opts newsdigest.SummarizeOptions) (d *newsdigest.Digest, err error) {
	defer func() { p.observe("html", d, err) }()
	return p.next.SummarizeHTML(ctx, html, opts)
}

// SummarizeBatch delegates to the wrapped pipeline.
func (p *Pipeline) SummarizeBatch(ctx context.Context, req newsdigest.BatchRequest) (s *newsdigest.BatchSummary, err error) {
	defer func() {
		outcome := OutcomeOK
		if err != nil {
			outcome = OutcomeError
		}
		p.metrics.DigestsTotal.WithLabelValues("batch", outcome).Inc()
	}()
	return p.next.SummarizeBatch(ctx, req)
}

func (p *Pipeline) observe(flow string, d *newsdigest.Digest, err error) {
	switch {
	case err != nil:
		p.metrics.DigestsTotal.WithLabelValues(flow, OutcomeError).Inc()
	case d.Placeholder:
		p.metrics.DigestsTotal.WithLabelValues(flow, OutcomePlaceholder).Inc()
		p.metrics.PlaceholdersTotal.WithLabelValues(d.Title).Inc()
	case d.Unchanged:
		p.metrics.DigestsTotal.WithLabelValues(flow, OutcomeUnchanged).Inc()
	default:
		p.metrics.DigestsTotal.WithLabelValues(flow, OutcomeOK).Inc()
		p.metrics.ContentLength.Observe(float64(d.ContentLength))
	}
}

var _ newsdigest.ChatCompleter = (*Completer)(nil)

// Completer records model call counts and latency.
type Completer struct {
	next    newsdigest.ChatCompleter
	metrics *Metrics
}

// NewCompleter wraps next.
func NewCompleter(next newsdigest.ChatCompleter, m *Metrics) *Completer {
	return &Completer{next: next, metrics: m}
}

// Complete delegates to the wrapped completer.
func (c *Completer) Complete(ctx context.Context, req newsdigest.ChatRequest) (reply string, err error) {
	defer func(begin time.Time) {
		outcome := OutcomeOK
		if err != nil {
			outcome = OutcomeError
		}
		c.metrics.CompletionsTotal.WithLabelValues(outcome).Inc()
		c.metrics.CompletionDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())
	return c.next.Complete(ctx, req)
}
