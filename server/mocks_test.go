package server

import (
	"context"

	"github.com/shopspring/decimal"
)

type convertDelegate func(context.Context, string, string, decimal.Decimal, string) (decimal.Decimal, error)

type mockConverter struct {
	convertFn convertDelegate
}

func (m *mockConverter) Convert(
	ctx context.Context,
	from, to string,
	amount decimal.Decimal,
	quotationDate string,
) (decimal.Decimal, error) {
	if m.convertFn != nil {
		return m.convertFn(ctx, from, to, amount, quotationDate)
	}

	return decimal.Zero, nil
}
