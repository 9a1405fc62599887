package bcb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DefaultDateLayout is the layout of the exchange date column (DD/MM/YYYY)
const DefaultDateLayout = "02/01/2006"

const (
	sheetSeparator = ';'
	sheetColumns   = 8
)

// ErrMalformedSheet is returned when a rate sheet line cannot be parsed
var ErrMalformedSheet = errors.New("malformed rate sheet")

// Parser parses BCB rate sheets into records
type Parser struct {
	format     NumberFormat
	dateLayout string
}

// NewParser creates a new rate sheet parser.
// Defaults to the Brazilian number format and the DD/MM/YYYY date layout
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		format:     BrazilianFormat,
		dateLayout: DefaultDateLayout,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseFile parses the rate sheet at the given path
func (p *Parser) ParseFile(path string) (Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open %q: %w", ErrMalformedSheet, path, err)
	}
	defer f.Close()

	return p.Parse(f, path)
}

// Parse parses a rate sheet from the given reader. The name identifies the sheet in errors.
// Parsing stops at the first invalid line, and no partial sheet is returned
func (p *Parser) Parse(r io.Reader, name string) (Sheet, error) {
	reader := csv.NewReader(r)
	reader.Comma = sheetSeparator
	reader.FieldsPerRecord = -1 // column count is checked per line
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	sheet := make(Sheet)

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: unable to read %q: %w", ErrMalformedSheet, name, err)
		}

		record, err := p.parseRecord(fields)
		if err != nil {
			line, _ := reader.FieldPos(0)

			return nil, fmt.Errorf(
				"%w: unable to parse currency %q from %q (line %d): %w",
				ErrMalformedSheet,
				abbreviationOf(fields),
				name,
				line,
				err,
			)
		}

		// Later duplicates overwrite earlier lines
		sheet[record.Abbreviation] = record
	}

	return sheet, nil
}

// parseRecord parses a single sheet line
func (p *Parser) parseRecord(fields []string) (*Record, error) {
	if len(fields) != sheetColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", sheetColumns, len(fields))
	}

	record := &Record{
		CurrencyCode: strings.TrimSpace(fields[1]),
		Type:         strings.TrimSpace(fields[2]),
		Abbreviation: strings.TrimSpace(fields[3]),
	}

	var err error

	if record.BuyingRate, err = p.format.ParseDecimal(fields[4]); err != nil {
		return nil, fmt.Errorf("invalid buying rate: %w", err)
	}

	if record.SellingRate, err = p.format.ParseDecimal(fields[5]); err != nil {
		return nil, fmt.Errorf("invalid selling rate: %w", err)
	}

	if record.BuyingPPP, err = p.format.ParseDecimal(fields[6]); err != nil {
		return nil, fmt.Errorf("invalid buying parity: %w", err)
	}

	if record.SellingPPP, err = p.format.ParseDecimal(fields[7]); err != nil {
		return nil, fmt.Errorf("invalid selling parity: %w", err)
	}

	if record.ExchangeDate, err = time.Parse(p.dateLayout, strings.TrimSpace(fields[0])); err != nil {
		return nil, fmt.Errorf("invalid exchange date: %w", err)
	}

	return record, nil
}

// abbreviationOf returns the abbreviation column of a line, if present
func abbreviationOf(fields []string) string {
	if len(fields) < 4 {
		return ""
	}

	return strings.TrimSpace(fields[3])
}
