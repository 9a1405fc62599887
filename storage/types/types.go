package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 style currency abbreviation
type Currency string

func (c Currency) String() string {
	return string(c)
}

type RateType string

const (
	RateTypeMID  RateType = "MID"
	RateTypeBUY  RateType = "BUY"
	RateTypeSELL RateType = "SELL"
)

func (r RateType) String() string {
	return string(r)
}

type Source string

func (s Source) String() string {
	return string(s)
}

// ExchangeRate is a single observed rate: 1 Base = Rate Target
type ExchangeRate struct {
	AsOf      time.Time       `json:"as_of"`
	FetchedAt time.Time       `json:"fetched_at"`
	Base      Currency        `json:"base"`
	Target    Currency        `json:"target"`
	RateType  RateType        `json:"rate_type"`
	Source    Source          `json:"source"`
	Rate      decimal.Decimal `json:"rate"`
}

type RateQuery struct {
	Target   *Currency `json:"target"`
	RateType *RateType `json:"rate_type"`
	Source   *Source   `json:"source"`
	Base     Currency  `json:"base"`
	Offset   int64     `json:"offset"`
	Limit    int32     `json:"limit"`
}

// Page wraps the results for pagination
type Page[T any] struct {
	Results []T   `json:"results"`
	Total   int64 `json:"total"`
}
