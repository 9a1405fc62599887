package currencies

import "github.com/sig-0/ptax/storage/types"

var (
	BRL types.Currency = "BRL"
	USD types.Currency = "USD"
	EUR types.Currency = "EUR"
	GBP types.Currency = "GBP"
	JPY types.Currency = "JPY"
	CHF types.Currency = "CHF"
	CNY types.Currency = "CNY"
	ARS types.Currency = "ARS"
)
