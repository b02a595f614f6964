// Package gobreaker guards a newsdigest.ChatCompleter with a circuit
// breaker so a failing model API is not hammered by every article in a
// batch.
package gobreaker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/hktitof/newsdigest"
	"github.com/sony/gobreaker"
)

// Config holds the circuit breaker settings.
type Config struct {
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts periodically.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the breaker once
	// MinRequests have been seen.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig returns the settings used for model APIs.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

var _ newsdigest.ChatCompleter = (*Completer)(nil)

// Completer wraps a ChatCompleter with a circuit breaker.
type Completer struct {
	next    newsdigest.ChatCompleter
	breaker *gobreaker.CircuitBreaker
}

// NewCompleter wraps next. Breaker state changes are logged at WARN.
func NewCompleter(next newsdigest.ChatCompleter, cfg Config, logger *slog.Logger) *Completer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"circuit", name,
				"from", from.String(),
				"to", to.String())
		},
		IsSuccessful: countsAsSuccess,
	}

	return &Completer{next: next, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Complete forwards req unless the breaker is open, in which case it
// returns EUPSTREAM without calling the wrapped completer.
func (c *Completer) Complete(ctx context.Context, req newsdigest.ChatRequest) (string, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.next.Complete(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", newsdigest.Errorf(newsdigest.EUPSTREAM, "model API unavailable: circuit breaker %s", c.breaker.State())
		}
		return "", err
	}
	return out.(string), nil
}

// State returns the current breaker state.
func (c *Completer) State() gobreaker.State {
	return c.breaker.State()
}

// countsAsSuccess keeps caller-side failures from tripping the breaker:
// bad input, missing configuration and cancellation say nothing about the
// API's health.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	switch newsdigest.ErrorCode(err) {
	case newsdigest.EINVALID, newsdigest.ECONFIG:
		return true
	}
	return false
}
