package convert

import (
	"log/slog"

	"github.com/sig-0/ptax/provider/bcb"
)

type Option func(c *Converter)

// WithLogger specifies the logger for the converter
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithParser specifies the rate sheet parser.
// Defaults to a parser using the Brazilian number format
func WithParser(p *bcb.Parser) Option {
	return func(c *Converter) {
		c.parser = p
	}
}
