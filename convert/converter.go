package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sig-0/ptax/provider/bcb"
)

// DateLayout is the layout of the quotation date (DD/MM/YYYY)
const DateLayout = bcb.DefaultDateLayout

const currencyLength = 3

// SheetFetcher retrieves the rate sheet of a business day
type SheetFetcher interface {
	// Fetch downloads the rate sheet for the given date.
	// The returned sheet file is owned (and closed) by the caller
	Fetch(context.Context, time.Time) (*bcb.SheetFile, error)
}

// Converter converts amounts between currencies, using the BCB closing rates
// of a given quotation date
type Converter struct {
	fetcher SheetFetcher
	parser  *bcb.Parser
	logger  *slog.Logger
}

// New creates a new converter on top of the given sheet fetcher
func New(fetcher SheetFetcher, opts ...Option) *Converter {
	c := &Converter{
		fetcher: fetcher,
		parser:  bcb.NewParser(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Convert converts the amount of the "from" currency into the "to" currency,
// using the rate sheet of the business day the quotation date (DD/MM/YYYY) resolves to.
// The result is rounded half-up to two decimals.
//
// Input is validated before any I/O. Failures can be classified using KindOf
func (c *Converter) Convert(
	ctx context.Context,
	from, to string,
	amount decimal.Decimal,
	quotationDate string,
) (decimal.Decimal, error) {
	date, err := validate(from, to, amount, quotationDate)
	if err != nil {
		return decimal.Zero, err
	}

	// Weekends don't have sheets
	businessDay := bcb.ResolveBusinessDay(date)

	sheetFile, err := c.fetcher.Fetch(ctx, businessDay)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	defer func() {
		// Best effort, not a conversion failure
		if closeErr := sheetFile.Close(); closeErr != nil {
			c.logger.Warn(
				"unable to remove rate sheet",
				"path", sheetFile.Path,
				"err", closeErr,
			)
		}
	}()

	sheet, err := c.parser.ParseFile(sheetFile.Path)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}

	converted, err := Calculate(sheet, from, to, amount)
	if err != nil {
		return decimal.Zero, err
	}

	c.logger.Debug(
		"converted amount",
		"from", from,
		"to", to,
		"amount", amount.String(),
		"business_day", businessDay.Format(time.DateOnly),
		"converted", converted.StringFixed(Places),
	)

	return converted, nil
}

// validate checks the conversion request, and returns the parsed quotation date
func validate(from, to string, amount decimal.Decimal, quotationDate string) (time.Time, error) {
	if err := validateCurrency("from", from); err != nil {
		return time.Time{}, err
	}

	if err := validateCurrency("to", to); err != nil {
		return time.Time{}, err
	}

	if amount.IsNegative() {
		return time.Time{}, fmt.Errorf("%w: amount must be equal or greater than zero", ErrInvalidInput)
	}

	if strings.TrimSpace(quotationDate) == "" {
		return time.Time{}, fmt.Errorf("%w: quotation date is empty", ErrInvalidInput)
	}

	date, err := time.Parse(DateLayout, quotationDate)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"%w: unable to parse quotation date %q (expected DD/MM/YYYY)",
			ErrInvalidInput,
			quotationDate,
		)
	}

	return date, nil
}

// validateCurrency checks the currency is exactly three characters long.
// Whether the currency exists is only known once the sheet is parsed
func validateCurrency(param, currency string) error {
	if currency == "" {
		return fmt.Errorf("%w: %q currency is empty", ErrInvalidInput, param)
	}

	if len([]rune(currency)) != currencyLength {
		return fmt.Errorf(
			"%w: %q currency %q must have %d characters",
			ErrInvalidInput,
			param,
			currency,
			currencyLength,
		)
	}

	return nil
}
