package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sig-0/ptax/storage"
	"github.com/sig-0/ptax/storage/types"
)

// series identifies a single rate time series
type series struct {
	base     types.Currency
	target   types.Currency
	source   types.Source
	rateType types.RateType
}

// Storage is a mutex-guarded, in-memory rate store.
// Rates are kept per series, keyed by their effective date
type Storage struct {
	data map[series]map[int64]types.ExchangeRate

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[series]map[int64]types.ExchangeRate),
	}
}

func (s *Storage) SaveExchangeRate(_ context.Context, r *types.ExchangeRate) error {
	k := series{
		base:     r.Base,
		target:   r.Target,
		source:   r.Source,
		rateType: r.RateType,
	}

	elem := *r
	elem.AsOf = elem.AsOf.UTC()
	elem.FetchedAt = elem.FetchedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	points, ok := s.data[k]
	if !ok {
		points = make(map[int64]types.ExchangeRate)
		s.data[k] = points
	}

	// A re-fetch of the same effective date replaces the old point
	points[elem.AsOf.UnixNano()] = elem

	return nil
}

func (s *Storage) RateAsOf(
	_ context.Context,
	query *types.RateQuery,
	asOf time.Time,
) (*types.Page[*types.ExchangeRate], error) {
	cutoff := asOf.UTC()

	s.mu.RLock()

	out := make([]*types.ExchangeRate, 0)

	for k, points := range s.data {
		if !matches(k, query) {
			continue
		}

		if latest, ok := latestBefore(points, cutoff); ok {
			out = append(out, &latest)
		}
	}

	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *types.ExchangeRate) int {
		return cmp.Or(
			cmp.Compare(a.Target, b.Target),
			cmp.Compare(a.Source, b.Source),
			cmp.Compare(a.RateType, b.RateType),
		)
	})

	var (
		total  = int64(len(out))
		offset = max(query.Offset, 0)
	)

	if offset >= total {
		return &types.Page[*types.ExchangeRate]{
			Results: []*types.ExchangeRate{},
			Total:   total,
		}, nil
	}

	var (
		start = int(offset)
		end   = min(start+int(storage.ClampLimit(query.Limit)), len(out))
	)

	return &types.Page[*types.ExchangeRate]{
		Results: out[start:end],
		Total:   total,
	}, nil
}

func (s *Storage) ListSources(_ context.Context) ([]types.Source, error) {
	s.mu.RLock()

	seen := make(map[types.Source]struct{})

	for k := range s.data {
		seen[k.source] = struct{}{}
	}

	s.mu.RUnlock()

	return sortedKeys(seen), nil
}

func (s *Storage) ListCurrencies(_ context.Context) ([]types.Currency, error) {
	s.mu.RLock()

	seen := make(map[types.Currency]struct{})

	for k := range s.data {
		seen[k.base] = struct{}{}
		seen[k.target] = struct{}{}
	}

	s.mu.RUnlock()

	return sortedKeys(seen), nil
}

// matches checks if the series satisfies the query filters
func matches(k series, query *types.RateQuery) bool {
	if k.base != query.Base {
		return false
	}

	if query.Target != nil && k.target != *query.Target {
		return false
	}

	if query.Source != nil && k.source != *query.Source {
		return false
	}

	if query.RateType != nil && k.rateType != *query.RateType {
		return false
	}

	return true
}

// latestBefore returns the most recent point effective at the cutoff
func latestBefore(points map[int64]types.ExchangeRate, cutoff time.Time) (types.ExchangeRate, bool) {
	var (
		best  types.ExchangeRate
		found bool
	)

	for _, v := range points {
		if v.AsOf.After(cutoff) {
			continue
		}

		if !found || v.AsOf.After(best.AsOf) {
			best = v
			found = true
		}
	}

	return best, found
}

func sortedKeys[T ~string](set map[T]struct{}) []T {
	out := make([]T, 0, len(set))

	for v := range set {
		out = append(out, v)
	}

	slices.Sort(out)

	return out
}
