package server

import (
	"log/slog"

	"github.com/sig-0/ptax/server/config"
)

type Option func(s *Server)

// WithLogger specifies the logger for the server
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithConfig specifies the config for the server
func WithConfig(c *config.Config) Option {
	return func(s *Server) {
		s.config = c
	}
}

// WithConverter specifies the currency converter backing /v1/convert.
// The endpoint is not registered without one
func WithConverter(c Converter) Option {
	return func(s *Server) {
		s.converter = c
	}
}
