package server

import "github.com/sig-0/ptax/storage/types"

type SourcesResponse struct {
	Results []types.Source `json:"results"`
}

type CurrenciesResponse struct {
	Results []types.Currency `json:"results"`
}

// ConvertResponse is the result of a single conversion.
// Amounts are decimal strings, the result always has two fractional digits
type ConvertResponse struct {
	From          string `json:"from"`
	To            string `json:"to"`
	Amount        string `json:"amount"`
	QuotationDate string `json:"quotation_date"`
	Result        string `json:"result"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
