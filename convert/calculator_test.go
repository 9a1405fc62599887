package convert

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/ptax/provider/bcb"
)

func testSheet() bcb.Sheet {
	return bcb.Sheet{
		"USD": {
			Abbreviation: "USD",
			BuyingRate:   decimal.RequireFromString("2.5346"),
			SellingRate:  decimal.RequireFromString("2.5352"),
		},
		"EUR": {
			Abbreviation: "EUR",
			BuyingRate:   decimal.RequireFromString("3.1806"),
			SellingRate:  decimal.RequireFromString("3.1827"),
		},
		"BRL": {
			Abbreviation: "BRL",
			BuyingRate:   decimal.NewFromInt(1),
			SellingRate:  decimal.NewFromInt(1),
		},
		"XXX": {
			Abbreviation: "XXX",
			BuyingRate:   decimal.Zero,
		},
	}
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	t.Run("buying rate ratio", func(t *testing.T) {
		t.Parallel()

		converted, err := Calculate(testSheet(), "USD", "EUR", decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.Equal(t, "79.69", converted.StringFixed(Places))
	})

	t.Run("same currency", func(t *testing.T) {
		t.Parallel()

		converted, err := Calculate(testSheet(), "EUR", "EUR", decimal.RequireFromString("12.345"))
		require.NoError(t, err)

		// Half-up rounding
		assert.Equal(t, "12.35", converted.StringFixed(Places))
	})

	t.Run("to real", func(t *testing.T) {
		t.Parallel()

		converted, err := Calculate(testSheet(), "USD", "BRL", decimal.NewFromInt(10))
		require.NoError(t, err)

		assert.Equal(t, "25.35", converted.StringFixed(Places))
	})

	t.Run("selling rate ignored", func(t *testing.T) {
		t.Parallel()

		sheet := testSheet()
		sheet["EUR"].SellingRate = decimal.NewFromInt(1000)

		converted, err := Calculate(sheet, "USD", "EUR", decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.Equal(t, "79.69", converted.StringFixed(Places))
	})

	t.Run("missing from", func(t *testing.T) {
		t.Parallel()

		_, err := Calculate(testSheet(), "???", "EUR", decimal.NewFromInt(1))

		require.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), `"???"`)
	})

	t.Run("missing to", func(t *testing.T) {
		t.Parallel()

		_, err := Calculate(testSheet(), "USD", "ABC", decimal.NewFromInt(1))

		require.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), `"ABC"`)
	})

	t.Run("zero target rate", func(t *testing.T) {
		t.Parallel()

		_, err := Calculate(testSheet(), "USD", "XXX", decimal.NewFromInt(1))

		assert.ErrorIs(t, err, ErrMalformedData)
	})
}
