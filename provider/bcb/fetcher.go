package bcb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/xid"
)

const (
	// DefaultBaseURL is the BCB location of the daily closing rate sheets
	DefaultBaseURL = "https://www4.bcb.gov.br/Download/fechamento/"

	// DefaultTimeout is the default sheet download timeout
	DefaultTimeout = time.Second * 30

	sheetNameLayout = "20060102"
	sheetExtension  = ".csv"
	readBufferSize  = 1024
)

var (
	// ErrSheetUnavailable is returned when the rate sheet for a date cannot be retrieved
	ErrSheetUnavailable = errors.New("rate sheet unavailable")

	// ErrSheetNotPublished is returned, next to ErrSheetUnavailable, when the BCB has
	// no sheet for the date (holidays, or before the afternoon publication)
	ErrSheetNotPublished = errors.New("rate sheet not published")

	errInvalidBaseURL = errors.New("invalid base URL")
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Fetcher downloads BCB rate sheets to local scratch files
type Fetcher struct {
	logger *slog.Logger
	client *http.Client

	baseURL     *url.URL
	scratchDir  string
	timeout     time.Duration
	uniqueNames bool
}

// NewFetcher creates a new rate sheet fetcher for the given base location
func NewFetcher(baseURL string, opts ...FetcherOption) (*Fetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidBaseURL, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", errInvalidBaseURL, baseURL)
	}

	f := &Fetcher{
		logger:  noopLogger,
		baseURL: u,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	// The timeout is applied to a copy, so a shared client is never modified
	client := http.Client{}
	if f.client != nil {
		client = *f.client
	}

	client.Timeout = f.timeout
	f.client = &client

	return f, nil
}

// SheetFile is a downloaded rate sheet. The file is scratch space,
// and is removed when the sheet is closed
type SheetFile struct {
	Date time.Time
	Path string

	closeOnce sync.Once
	closeErr  error
}

// Close removes the sheet file from local storage. Safe to call multiple times
func (s *SheetFile) Close() error {
	s.closeOnce.Do(func() {
		if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.closeErr = err
		}
	})

	return s.closeErr
}

// SheetURL returns the location of the rate sheet for the given date
func (f *Fetcher) SheetURL(date time.Time) string {
	return f.baseURL.JoinPath(sheetName(date)).String()
}

// Fetch downloads the rate sheet for the given (business) date.
// The caller owns the returned sheet, and must close it
func (f *Fetcher) Fetch(ctx context.Context, date time.Time) (*SheetFile, error) {
	path := filepath.Join(f.scratchDir, f.fileName(date))

	if err := f.download(ctx, f.SheetURL(date), path); err != nil {
		return nil, fmt.Errorf(
			"%w for %s: %w",
			ErrSheetUnavailable,
			date.Format(DefaultDateLayout),
			err,
		)
	}

	f.logger.Debug(
		"fetched rate sheet",
		"date", date.Format(time.DateOnly),
		"path", path,
	)

	return &SheetFile{
		Date: date,
		Path: path,
	}, nil
}

// download copies the remote resource into the file at path.
// The file is removed if the transfer fails
func (f *Fetcher) download(ctx context.Context, location, path string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return fmt.Errorf("unable to create GET request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: invalid status code received: %d", ErrSheetNotPublished, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create sheet file: %w", err)
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("unable to close sheet file: %w", closeErr)
		}

		if err != nil {
			_ = os.Remove(path) //nolint:errcheck // best effort
		}
	}()

	buf := make([]byte, readBufferSize)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err = out.Write(buf[:n]); err != nil {
				return fmt.Errorf("unable to write sheet file: %w", err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}

		if readErr != nil {
			return fmt.Errorf("unable to read response body: %w", readErr)
		}
	}
}

// fileName returns the local scratch file name for the given date
func (f *Fetcher) fileName(date time.Time) string {
	if !f.uniqueNames {
		return sheetName(date)
	}

	return date.Format(sheetNameLayout) + "-" + xid.New().String() + sheetExtension
}

// sheetName returns the BCB file name for the given date (YYYYMMDD.csv)
func sheetName(date time.Time) string {
	return date.Format(sheetNameLayout) + sheetExtension
}
