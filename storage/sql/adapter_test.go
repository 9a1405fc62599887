package sql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/ptax/storage/types"
)

func TestAdapter_Numeric(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"2.5346", "1234.56780000", "0", "-0.001", "1e-12"} {
			value := decimal.RequireFromString(raw)

			assert.True(t, value.Equal(numericToDecimal(decimalToNumeric(value))), raw)
		}
	})

	t.Run("null", func(t *testing.T) {
		t.Parallel()

		assert.True(t, decimal.Zero.Equal(numericToDecimal(pgtype.Numeric{})))
	})
}

func TestAdapter_Timestamptz(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*60*60)
	value := time.Date(2014, time.November, 20, 13, 0, 0, 0, loc)

	ts := timeToTimestampz(value)

	assert.True(t, ts.Valid)
	assert.Equal(t, time.UTC, ts.Time.Location())
	assert.True(t, value.Equal(timestampzToTime(ts)))
	assert.True(t, timestampzToTime(pgtype.Timestamptz{}).IsZero())
}

func TestAdapter_OptionalString(t *testing.T) {
	t.Parallel()

	assert.Nil(t, optionalString[types.Source](nil))

	source := types.Source("BCB")

	v := optionalString(&source)
	if assert.NotNil(t, v) {
		assert.Equal(t, "BCB", *v)
	}
}

// emptyRows is a result set without rows
type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(_ ...any) error                          { return nil }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

// emptyDB answers every query with no rows
type emptyDB struct{}

func (emptyDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (emptyDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return emptyRows{}, nil
}

func TestStorage_EmptyResults(t *testing.T) {
	t.Parallel()

	s := NewStorage(emptyDB{})

	page, err := s.RateAsOf(
		context.Background(),
		&types.RateQuery{Base: "USD"},
		time.Now(),
	)
	require.NoError(t, err)

	encoded, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[],"total":0}`, string(encoded))

	sources, err := s.ListSources(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sources)
	assert.Empty(t, sources)

	currencies, err := s.ListCurrencies(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, currencies)
	assert.Empty(t, currencies)
}
