package serve

import (
	"log/slog"

	"github.com/sig-0/ptax/ingest"
	"github.com/sig-0/ptax/provider/bcb"
)

// defaultProviders returns the default ingestion providers
func defaultProviders(fetcher *bcb.Fetcher, parser *bcb.Parser, logger *slog.Logger) []ingest.Provider {
	return []ingest.Provider{
		// Official BCB closing rates
		bcb.NewProvider(fetcher, parser, logger),
	}
}
