package ingest

import (
	"context"
	"time"

	"github.com/sig-0/ptax/storage/types"
)

// Provider is a periodic source of exchange rates, such as a published rate sheet
type Provider interface {
	// Name returns the unique, human-readable provider name
	Name() string

	// Interval returns the delay between two successful fetches.
	// Must be positive
	Interval() time.Duration

	// Fetch yields the provider's current exchange rates.
	// A failed fetch is retried after the orchestrator's retry interval
	Fetch(context.Context) ([]*types.ExchangeRate, error)
}
