package ingest

import (
	"log/slog"
	"time"
)

type Option func(o *Orchestrator)

// WithLogger specifies the logger for the orchestrator
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithQueryInterval specifies query interval for the orchestrator's jobs.
// Defaults to 1s.
// This should only be modified if the registered providers with the orchestrator
// have sparse runs (once every hour / 24hrs)
func WithQueryInterval(q time.Duration) Option {
	return func(o *Orchestrator) {
		o.queryInterval = q
	}
}

// WithRetryInterval specifies how long a failed provider fetch waits
// before it is retried. Defaults to 10s
func WithRetryInterval(r time.Duration) Option {
	return func(o *Orchestrator) {
		o.retryInterval = r
	}
}

// WithSaveTimeout specifies the timeout of a single rate save.
// Defaults to 10s
func WithSaveTimeout(t time.Duration) Option {
	return func(o *Orchestrator) {
		o.saveTimeout = t
	}
}

// WithFetchTimeout specifies the timeout of a single provider fetch.
// Defaults to 2m, non-positive values disable it
func WithFetchTimeout(t time.Duration) Option {
	return func(o *Orchestrator) {
		o.fetchTimeout = t
	}
}
