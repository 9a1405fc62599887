package storage

import (
	"context"
	"time"

	"github.com/sig-0/ptax/storage/types"
)

const (
	// DefaultLimit is the page size used when a query sets none
	DefaultLimit = int32(100)

	// MaxLimit is the largest page size a query can request
	MaxLimit = int32(500)
)

// Storage is an abstraction over ingested exchange rate data
type Storage interface {
	// SaveExchangeRate saves the given exchange rate data point
	SaveExchangeRate(context.Context, *types.ExchangeRate) error

	// RateAsOf fetches the latest rates effective at the given time,
	// one per (target, source, rate type)
	RateAsOf(context.Context, *types.RateQuery, time.Time) (*types.Page[*types.ExchangeRate], error)

	// ListSources lists all present sources for fx rates
	ListSources(context.Context) ([]types.Source, error)

	// ListCurrencies lists all currencies present
	ListCurrencies(context.Context) ([]types.Currency, error)
}

// ClampLimit normalizes the query page size
func ClampLimit(limit int32) int32 {
	if limit <= 0 {
		return DefaultLimit
	}

	return min(limit, MaxLimit)
}
