package bcb

import (
	"log/slog"
	"net/http"
	"time"
)

type FetcherOption func(f *Fetcher)

// WithFetcherLogger specifies the logger for the fetcher
func WithFetcherLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// WithHTTPClient specifies the HTTP client used for downloads.
// The fetcher uses a copy carrying its own timeout
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithTimeout specifies the download timeout.
// Defaults to 30s
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithScratchDir specifies the directory the sheets are downloaded to.
// Defaults to the working directory
func WithScratchDir(dir string) FetcherOption {
	return func(f *Fetcher) {
		f.scratchDir = dir
	}
}

// WithUniqueNames suffixes every scratch file with a unique ID,
// so concurrent fetches of the same date don't collide
func WithUniqueNames() FetcherOption {
	return func(f *Fetcher) {
		f.uniqueNames = true
	}
}

type ParserOption func(p *Parser)

// WithNumberFormat specifies the number format of the sheet.
// Defaults to BrazilianFormat
func WithNumberFormat(format NumberFormat) ParserOption {
	return func(p *Parser) {
		p.format = format
	}
}

// WithDateLayout specifies the exchange date layout of the sheet.
// Defaults to DD/MM/YYYY
func WithDateLayout(layout string) ParserOption {
	return func(p *Parser) {
		p.dateLayout = layout
	}
}
