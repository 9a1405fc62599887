package bcb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errEmptyNumber     = errors.New("empty number")
	errInvalidNumber   = errors.New("invalid number")
	errInvalidGrouping = errors.New("misplaced grouping separator")
	errInvalidDecimal  = errors.New("multiple decimal separators")
)

// groupSize is the number of integer digits between two grouping separators
const groupSize = 3

// NumberFormat describes how decimal numbers are written in a rate sheet
type NumberFormat struct {
	DecimalSeparator  rune
	GroupingSeparator rune
}

// BrazilianFormat is the number format used by the BCB sheets: "1.234,56"
var BrazilianFormat = NumberFormat{
	DecimalSeparator:  ',',
	GroupingSeparator: '.',
}

// ParseDecimal parses the given localized number into an exact decimal.
// The accepted form is an optional sign, integer digits grouped in threes (or
// ungrouped), and an optional decimal separator followed by digits
func (f NumberFormat) ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errEmptyNumber
	}

	intPart, fracPart, hasFrac := strings.Cut(s, string(f.DecimalSeparator))

	if hasFrac {
		if strings.ContainsRune(fracPart, f.DecimalSeparator) {
			return decimal.Zero, fmt.Errorf("unable to parse %q: %w", s, errInvalidDecimal)
		}

		if strings.ContainsRune(fracPart, f.GroupingSeparator) {
			return decimal.Zero, fmt.Errorf("unable to parse %q: %w", s, errInvalidGrouping)
		}

		if !isDigits(fracPart) {
			return decimal.Zero, fmt.Errorf("unable to parse %q: %w", s, errInvalidNumber)
		}
	}

	var sign string

	switch {
	case strings.HasPrefix(intPart, "-"):
		sign, intPart = "-", intPart[1:]
	case strings.HasPrefix(intPart, "+"):
		intPart = intPart[1:]
	}

	digits, err := f.integerDigits(intPart)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse %q: %w", s, err)
	}

	normalized := sign + digits
	if hasFrac {
		normalized += "." + fracPart
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse %q: %w", s, err)
	}

	return d, nil
}

// integerDigits strips the grouping separators off the integer part.
// Every group must be digits only, and every group but the first exactly three long
func (f NumberFormat) integerDigits(s string) (string, error) {
	groups := strings.Split(s, string(f.GroupingSeparator))

	for i, group := range groups {
		// Also covers leading, trailing and doubled separators
		if !isDigits(group) {
			return "", errInvalidNumber
		}

		if i > 0 && len(group) != groupSize {
			return "", errInvalidGrouping
		}

		if i == 0 && len(groups) > 1 && len(group) > groupSize {
			return "", errInvalidGrouping
		}
	}

	return strings.Join(groups, ""), nil
}

// isDigits checks the string is a non-empty run of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
