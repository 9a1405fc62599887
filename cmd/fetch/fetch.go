// Package fetch registers the rate sheet download flags shared by the commands
package fetch

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sig-0/ptax/provider/bcb"
)

// Config wraps the rate sheet fetcher settings
type Config struct {
	SheetURL   string
	ScratchDir string
	Timeout    time.Duration
}

// RegisterFlags registers the fetcher flags on the given set
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.SheetURL,
		"sheet-url",
		bcb.DefaultBaseURL,
		"the base URL of the BCB closing rate sheets",
	)

	fs.DurationVar(
		&c.Timeout,
		"sheet-timeout",
		bcb.DefaultTimeout,
		"the timeout for a single rate sheet download",
	)

	fs.StringVar(
		&c.ScratchDir,
		"scratch-dir",
		os.TempDir(),
		"the directory rate sheets are downloaded to",
	)
}

// NewFetcher creates a rate sheet fetcher from the configuration
func (c *Config) NewFetcher(logger *slog.Logger, opts ...bcb.FetcherOption) (*bcb.Fetcher, error) {
	if err := os.MkdirAll(c.ScratchDir, 0o750); err != nil {
		return nil, fmt.Errorf("unable to create scratch dir: %w", err)
	}

	opts = append(
		[]bcb.FetcherOption{
			bcb.WithFetcherLogger(logger),
			bcb.WithTimeout(c.Timeout),
			bcb.WithScratchDir(c.ScratchDir),
		},
		opts...,
	)

	return bcb.NewFetcher(c.SheetURL, opts...)
}
