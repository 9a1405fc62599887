package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sig-0/ptax/storage"
	"github.com/sig-0/ptax/storage/types"
)

// DBTX is the subset of the pgx pool / connection API used by the storage
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
}

const saveExchangeRateQuery = `
INSERT INTO exchange_rates (base, target, rate, rate_type, source, as_of, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (base, target, source, rate_type, as_of)
DO UPDATE SET rate = EXCLUDED.rate, fetched_at = EXCLUDED.fetched_at`

const rateAsOfQuery = `
WITH latest AS (
    SELECT DISTINCT ON (target, source, rate_type)
        base, target, rate, rate_type, source, as_of, fetched_at
    FROM exchange_rates
    WHERE base = $1
      AND ($2::text IS NULL OR target = $2)
      AND ($3::text IS NULL OR source = $3)
      AND ($4::text IS NULL OR rate_type = $4)
      AND as_of <= $5
    ORDER BY target, source, rate_type, as_of DESC, fetched_at DESC
)
SELECT base, target, rate, rate_type, source, as_of, fetched_at, COUNT(*) OVER () AS total
FROM latest
ORDER BY target, source, rate_type
LIMIT $6 OFFSET $7`

const listSourcesQuery = `SELECT DISTINCT source FROM exchange_rates ORDER BY source`

const listCurrenciesQuery = `
SELECT base AS code FROM exchange_rates
UNION
SELECT target AS code FROM exchange_rates
ORDER BY code`

// Storage is the Postgres rate store
type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) *Storage {
	return &Storage{
		db: db,
	}
}

func (s *Storage) SaveExchangeRate(
	ctx context.Context,
	rate *types.ExchangeRate,
) error {
	_, err := s.db.Exec(
		ctx,
		saveExchangeRateQuery,
		rate.Base.String(),
		rate.Target.String(),
		decimalToNumeric(rate.Rate),
		rate.RateType.String(),
		rate.Source.String(),
		timeToTimestampz(rate.AsOf),
		timeToTimestampz(rate.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("unable to save exchange rate: %w", err)
	}

	return nil
}

func (s *Storage) RateAsOf(
	ctx context.Context,
	query *types.RateQuery,
	t time.Time,
) (*types.Page[*types.ExchangeRate], error) {
	rows, err := s.db.Query(
		ctx,
		rateAsOfQuery,
		query.Base.String(),
		optionalString(query.Target),
		optionalString(query.Source),
		optionalString(query.RateType),
		timeToTimestampz(t),
		storage.ClampLimit(query.Limit),
		max(query.Offset, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch rates: %w", err)
	}
	defer rows.Close()

	page := &types.Page[*types.ExchangeRate]{
		Results: []*types.ExchangeRate{},
	}

	for rows.Next() {
		var (
			rate             pgtype.Numeric
			total            int64
			asOf, fetchedAt  pgtype.Timestamptz
			base, target     string
			rateType, source string
		)

		if err := rows.Scan(
			&base,
			&target,
			&rate,
			&rateType,
			&source,
			&asOf,
			&fetchedAt,
			&total,
		); err != nil {
			return nil, fmt.Errorf("unable to scan rate: %w", err)
		}

		page.Total = total
		page.Results = append(page.Results, &types.ExchangeRate{
			Base:      types.Currency(base),
			Target:    types.Currency(target),
			Rate:      numericToDecimal(rate),
			RateType:  types.RateType(rateType),
			Source:    types.Source(source),
			AsOf:      timestampzToTime(asOf),
			FetchedAt: timestampzToTime(fetchedAt),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch rates: %w", err)
	}

	return page, nil
}

func (s *Storage) ListSources(ctx context.Context) ([]types.Source, error) {
	results, err := s.listStrings(ctx, listSourcesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch sources: %w", err)
	}

	out := make([]types.Source, 0, len(results))

	for _, src := range results {
		out = append(out, types.Source(src))
	}

	return out, nil
}

func (s *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	results, err := s.listStrings(ctx, listCurrenciesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch currencies: %w", err)
	}

	out := make([]types.Currency, 0, len(results))

	for _, code := range results {
		out = append(out, types.Currency(code))
	}

	return out, nil
}

// listStrings runs a single text column query
func (s *Storage) listStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return results, nil
}

// optionalString converts an optional string-like filter to a nullable query argument
func optionalString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}

	s := string(*v)

	return &s
}

// decimalToNumeric converts the decimal value to postgres numeric, without loss
func decimalToNumeric(value decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   value.Coefficient(),
		Exp:   value.Exponent(),
		Valid: true,
	}
}

// numericToDecimal converts the postgres value to decimal
func numericToDecimal(value pgtype.Numeric) decimal.Decimal {
	if !value.Valid || value.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(value.Int, value.Exp)
}

// timeToTimestampz converts the time value to postgres timestamp
func timeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}

// timestampzToTime converts the postgres timestamp value to time
func timestampzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}

	return ts.Time
}
