package convert

import (
	"context"
	"time"

	"github.com/sig-0/ptax/provider/bcb"
)

type fetchDelegate func(context.Context, time.Time) (*bcb.SheetFile, error)

type mockFetcher struct {
	fetchFn fetchDelegate
}

func (m *mockFetcher) Fetch(ctx context.Context, date time.Time) (*bcb.SheetFile, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, date)
	}

	return nil, nil
}
