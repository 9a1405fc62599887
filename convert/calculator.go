package convert

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sig-0/ptax/provider/bcb"
)

// Places is the number of fractional digits of a converted amount
const Places = 2

// Calculate converts the amount between the given currencies using the sheet's
// buying rates against BRL. The result is rounded half-up to two decimals
func Calculate(sheet bcb.Sheet, from, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	fromRecord, ok := sheet.Lookup(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotFound, from)
	}

	toRecord, ok := sheet.Lookup(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotFound, to)
	}

	if toRecord.BuyingRate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero buying rate for %q", ErrMalformedData, to)
	}

	rate := fromRecord.BuyingRate.Div(toRecord.BuyingRate)

	return amount.Mul(rate).Round(Places), nil
}
