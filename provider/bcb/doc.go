// Package bcb provides access to the Banco Central do Brasil closing rate sheets.
//
// # Rate sheets
//
// Source: "BCB"
// URL: https://www4.bcb.gov.br/Download/fechamento/<YYYYMMDD>.csv
//
// The BCB publishes one semicolon separated file per business day, with one line per
// currency quoted against the Brazilian Real (BRL):
//
//	20/11/2014;220;A;USD;2,5346;2,5352;1,0000;1,0000
//
// Columns, in order: exchange date (DD/MM/YYYY), BCB currency code, currency type,
// abbreviation, buying rate, selling rate, buying parity, selling parity.
// Numbers follow the Brazilian convention: comma as decimal separator and
// period as grouping separator ("1.234,56").
//
// No sheet exists for weekends, so dates are first moved to the preceding weekday
// (ResolveBusinessDay). Bank holidays are not known to the package; requesting one
// surfaces as ErrSheetUnavailable.
//
// # Provider
//
// Provider implements the ingest provider contract, fetching the latest business day
// sheet once a day and yielding BUY and SELL rates for every listed currency
// against BRL.
package bcb
