package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sig-0/ptax/storage/types"
)

type fetchDelegate func(context.Context) ([]*types.ExchangeRate, error)

// mockProvider is a provider with a fixed name and interval
type mockProvider struct {
	fetchFn fetchDelegate

	name     string
	interval time.Duration

	fetches atomic.Int32
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Interval() time.Duration {
	return m.interval
}

func (m *mockProvider) Fetch(ctx context.Context) ([]*types.ExchangeRate, error) {
	m.fetches.Add(1)

	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}

	return nil, nil
}
