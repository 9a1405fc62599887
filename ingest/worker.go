package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/ptax/storage/types"
)

// scheduledIngest is a single scheduled Provider ingest job
type scheduledIngest struct {
	at         time.Time
	provider   Provider
	providerID xid.ID
}

// Less orders scheduled ingests by due time, earliest first
func (a scheduledIngest) Less(b scheduledIngest) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for a single provider fetch
type workerInfo struct {
	provider   Provider
	resCh      chan<- *workerResponse
	providerID xid.ID
	timeout    time.Duration
}

// workerResponse is the outcome of a single provider fetch
type workerResponse struct {
	error      error
	rates      []*types.ExchangeRate
	providerID xid.ID
	elapsed    time.Duration
}

// handleJob runs a single provider fetch, bounded by the worker timeout.
// A panicking provider is reported as a failed fetch
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	started := time.Now()

	rates, err := fetchRates(ctx, info)

	response := &workerResponse{
		error:      err,
		rates:      rates,
		providerID: info.providerID,
		elapsed:    time.Since(started),
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}

func fetchRates(ctx context.Context, info *workerInfo) (rates []*types.ExchangeRate, err error) {
	defer func() {
		if r := recover(); r != nil {
			rates = nil
			err = fmt.Errorf("provider %q panicked: %v", info.provider.Name(), r)
		}
	}()

	if info.timeout > 0 {
		var cancelFn context.CancelFunc

		ctx, cancelFn = context.WithTimeout(ctx, info.timeout)
		defer cancelFn()
	}

	return info.provider.Fetch(ctx)
}
