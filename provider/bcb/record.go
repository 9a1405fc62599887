package bcb

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single rate sheet line, quoting a currency against BRL
type Record struct {
	ExchangeDate time.Time `json:"exchange_date"`
	CurrencyCode string    `json:"currency_code"`
	Type         string    `json:"type"`
	Abbreviation string    `json:"abbreviation"`

	BuyingRate  decimal.Decimal `json:"buying_rate"`
	SellingRate decimal.Decimal `json:"selling_rate"`
	BuyingPPP   decimal.Decimal `json:"buying_ppp"`
	SellingPPP  decimal.Decimal `json:"selling_ppp"`
}

// Sheet maps a currency abbreviation to its rate sheet record
type Sheet map[string]*Record

// Lookup returns the record for the given currency abbreviation, if any
func (s Sheet) Lookup(abbreviation string) (*Record, bool) {
	r, ok := s[abbreviation]

	return r, ok
}
