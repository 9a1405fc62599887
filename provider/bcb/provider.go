package bcb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sig-0/ptax/provider/currencies"
	"github.com/sig-0/ptax/storage/types"
)

var Source types.Source = "BCB"

// lookbackDays is the number of business day sheets a fetch tries
const lookbackDays = 5

// Provider is the BCB closing rate sheet ingest provider
type Provider struct {
	fetcher *Fetcher
	parser  *Parser
	logger  *slog.Logger

	now func() time.Time
}

// NewProvider creates a new instance of the BCB sheet provider
func NewProvider(fetcher *Fetcher, parser *Parser, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = noopLogger
	}

	return &Provider{
		fetcher: fetcher,
		parser:  parser,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *Provider) Name() string {
	return "BCB"
}

func (p *Provider) Interval() time.Duration {
	return time.Hour * 24 // one sheet per business day
}

// Fetch ingests the latest published sheet. Today's sheet is published in
// the afternoon and holidays have none, so earlier business days are tried,
// up to lookbackDays sheets in total
func (p *Provider) Fetch(ctx context.Context) ([]*types.ExchangeRate, error) {
	fetchTime := p.now().UTC()

	// Sheets are dated in Brasília time
	y, m, d := fetchTime.In(brasiliaLocation()).Date()
	date := ResolveBusinessDay(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))

	sheetFile, err := p.latestSheet(ctx, date)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := sheetFile.Close(); err != nil {
			p.logger.Warn(
				"unable to remove rate sheet",
				"path", sheetFile.Path,
				"err", err,
			)
		}
	}()

	sheet, err := p.parser.ParseFile(sheetFile.Path)
	if err != nil {
		return nil, err
	}

	if len(sheet) == 0 {
		return nil, fmt.Errorf("empty rate sheet for %s", sheetFile.Date.Format(DefaultDateLayout))
	}

	return sheetRates(sheet, fetchTime), nil
}

// latestSheet fetches the sheet of the given business day, stepping back a
// business day while the sheet is not published. Other failures are returned as-is
func (p *Provider) latestSheet(ctx context.Context, date time.Time) (*SheetFile, error) {
	var firstErr error

	for range lookbackDays {
		sheetFile, err := p.fetcher.Fetch(ctx, date)
		if err == nil {
			if firstErr != nil {
				p.logger.Debug(
					"using an earlier rate sheet",
					"date", date.Format(time.DateOnly),
				)
			}

			return sheetFile, nil
		}

		if !errors.Is(err, ErrSheetNotPublished) {
			return nil, err
		}

		if firstErr == nil {
			firstErr = err
		}

		date = ResolveBusinessDay(date.AddDate(0, 0, -1))
	}

	return nil, fmt.Errorf("no sheet published in the last %d business days: %w", lookbackDays, firstErr)
}

// sheetRates converts the sheet records into BUY and SELL rates against BRL
func sheetRates(sheet Sheet, fetchTime time.Time) []*types.ExchangeRate {
	out := make([]*types.ExchangeRate, 0, len(sheet)*2)

	for _, record := range sheet {
		base := types.Currency(record.Abbreviation)

		out = append(
			out,
			&types.ExchangeRate{
				AsOf:      record.ExchangeDate,
				FetchedAt: fetchTime,
				Base:      base,
				Target:    currencies.BRL,
				RateType:  types.RateTypeBUY,
				Source:    Source,
				Rate:      record.BuyingRate,
			},
			&types.ExchangeRate{
				AsOf:      record.ExchangeDate,
				FetchedAt: fetchTime,
				Base:      base,
				Target:    currencies.BRL,
				RateType:  types.RateTypeSELL,
				Source:    Source,
				Rate:      record.SellingRate,
			},
		)
	}

	return out
}

func brasiliaLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err == nil {
		return loc
	}

	return time.FixedZone("BRT", -3*60*60)
}
