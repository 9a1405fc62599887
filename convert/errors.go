package convert

import "errors"

var (
	// ErrInvalidInput is returned for conversion requests rejected before any I/O
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataUnavailable is returned when the rate sheet could not be retrieved
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrMalformedData is returned when the rate sheet could not be parsed
	ErrMalformedData = errors.New("malformed data")

	// ErrNotFound is returned when a currency is not listed in the rate sheet
	ErrNotFound = errors.New("currency not found")
)

// Kind classifies conversion failures
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindDataUnavailable
	KindMalformedData
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindDataUnavailable:
		return "data_unavailable"
	case KindMalformedData:
		return "malformed_data"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// KindOf returns the failure kind of the given conversion error
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrDataUnavailable):
		return KindDataUnavailable
	case errors.Is(err, ErrMalformedData):
		return KindMalformedData
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}
