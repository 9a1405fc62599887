package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/ptax/provider/currencies"
	"github.com/sig-0/ptax/storage/types"
)

func TestWorker_ScheduledIngestLess(t *testing.T) {
	t.Parallel()

	var (
		now = time.Now()

		early = scheduledIngest{at: now}
		late  = scheduledIngest{at: now.Add(time.Second)}
	)

	assert.True(t, early.Less(late))
	assert.False(t, late.Less(early))
	assert.False(t, early.Less(early))
}

func TestWorker_HandleJob(t *testing.T) {
	t.Parallel()

	t.Run("delivers the fetched rates", func(t *testing.T) {
		t.Parallel()

		var (
			resCh = make(chan *workerResponse, 1)
			id    = xid.New()

			provider = &mockProvider{
				name:     testProviderName,
				interval: time.Hour,
				fetchFn: func(_ context.Context) ([]*types.ExchangeRate, error) {
					return []*types.ExchangeRate{{
						Base:   currencies.USD,
						Target: currencies.BRL,
						Rate:   decimal.RequireFromString("2.5346"),
					}}, nil
				},
			}
		)

		handleJob(context.Background(), &workerInfo{
			provider:   provider,
			resCh:      resCh,
			providerID: id,
			timeout:    time.Second,
		})

		response := <-resCh

		require.NoError(t, response.error)
		require.Len(t, response.rates, 1)
		assert.Equal(t, id, response.providerID)
		assert.Equal(t, int32(1), provider.fetches.Load())
	})

	t.Run("fetch timeout", func(t *testing.T) {
		t.Parallel()

		var (
			resCh = make(chan *workerResponse, 1)

			provider = &mockProvider{
				name:     testProviderName,
				interval: time.Hour,
				fetchFn: func(ctx context.Context) ([]*types.ExchangeRate, error) {
					<-ctx.Done()

					return nil, ctx.Err()
				},
			}
		)

		handleJob(context.Background(), &workerInfo{
			provider: provider,
			resCh:    resCh,
			timeout:  time.Millisecond * 20,
		})

		response := <-resCh

		assert.ErrorIs(t, response.error, context.DeadlineExceeded)
		assert.Nil(t, response.rates)
	})

	t.Run("provider panic", func(t *testing.T) {
		t.Parallel()

		var (
			resCh = make(chan *workerResponse, 1)

			provider = &mockProvider{
				name:     testProviderName,
				interval: time.Hour,
				fetchFn: func(_ context.Context) ([]*types.ExchangeRate, error) {
					panic("boom")
				},
			}
		)

		handleJob(context.Background(), &workerInfo{
			provider: provider,
			resCh:    resCh,
		})

		response := <-resCh

		require.Error(t, response.error)
		assert.Contains(t, response.error.Error(), "panicked")
	})

	t.Run("cancelled context drops the response", func(t *testing.T) {
		t.Parallel()

		var (
			resCh = make(chan *workerResponse) // unbuffered, never read

			provider = &mockProvider{
				name:     testProviderName,
				interval: time.Hour,
				fetchFn: func(_ context.Context) ([]*types.ExchangeRate, error) {
					return nil, errors.New("fetch failed")
				},
			}
		)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan struct{})

		go func() {
			defer close(done)

			handleJob(ctx, &workerInfo{
				provider: provider,
				resCh:    resCh,
			})
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("worker blocked on a cancelled context")
		}
	})
}
