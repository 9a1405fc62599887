// Package mock provides a delegate-backed storage.Storage for tests
package mock

import (
	"context"
	"time"

	"github.com/sig-0/ptax/storage"
	"github.com/sig-0/ptax/storage/types"
)

var _ storage.Storage = (*Storage)(nil)

type (
	SaveExchangeRateDelegate func(context.Context, *types.ExchangeRate) error
	RateAsOfDelegate         func(context.Context, *types.RateQuery, time.Time) (*types.Page[*types.ExchangeRate], error)
	ListSourcesDelegate      func(context.Context) ([]types.Source, error)
	ListCurrenciesDelegate   func(context.Context) ([]types.Currency, error)
)

// Storage calls the matching delegate, if set.
// Unset delegates succeed with empty results
type Storage struct {
	SaveExchangeRateFn SaveExchangeRateDelegate
	RateAsOfFn         RateAsOfDelegate
	ListSourcesFn      ListSourcesDelegate
	ListCurrenciesFn   ListCurrenciesDelegate
}

func (m *Storage) SaveExchangeRate(ctx context.Context, rate *types.ExchangeRate) error {
	if m.SaveExchangeRateFn == nil {
		return nil
	}

	return m.SaveExchangeRateFn(ctx, rate)
}

func (m *Storage) RateAsOf(
	ctx context.Context,
	query *types.RateQuery,
	asOf time.Time,
) (*types.Page[*types.ExchangeRate], error) {
	if m.RateAsOfFn == nil {
		return &types.Page[*types.ExchangeRate]{
			Results: []*types.ExchangeRate{},
		}, nil
	}

	return m.RateAsOfFn(ctx, query, asOf)
}

func (m *Storage) ListSources(ctx context.Context) ([]types.Source, error) {
	if m.ListSourcesFn == nil {
		return []types.Source{}, nil
	}

	return m.ListSourcesFn(ctx)
}

func (m *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	if m.ListCurrenciesFn == nil {
		return []types.Currency{}, nil
	}

	return m.ListCurrenciesFn(ctx)
}
