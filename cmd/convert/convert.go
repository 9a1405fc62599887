package convert

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/shopspring/decimal"

	"github.com/sig-0/ptax/cmd/env"
	"github.com/sig-0/ptax/cmd/fetch"
	"github.com/sig-0/ptax/convert"
	"github.com/sig-0/ptax/provider/bcb"
)

var errMissingArgs = fmt.Errorf("%w: -from, -to and -amount are required", convert.ErrInvalidInput)

// convertCfg wraps the convert configuration
type convertCfg struct {
	out   io.Writer
	fetch fetch.Config

	from    string
	to      string
	amount  string
	date    string
	verbose bool
}

// NewConvertCmd creates the convert subcommand
func NewConvertCmd() *ffcli.Command {
	cfg := &convertCfg{
		out: os.Stdout,
	}

	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "convert",
		ShortUsage: "convert -from USD -to EUR -amount 100 [-date DD/MM/YYYY]",
		LongHelp:   "Converts an amount using the BCB closing buying rates of a quotation date",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *convertCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.from, "from", "", "the source currency abbreviation")
	fs.StringVar(&c.to, "to", "", "the target currency abbreviation")
	fs.StringVar(&c.amount, "amount", "", "the non-negative amount to convert")

	fs.StringVar(
		&c.date,
		"date",
		"",
		"the quotation date, DD/MM/YYYY (defaults to today)",
	)

	fs.BoolVar(&c.verbose, "verbose", false, "log the download and parse steps")

	c.fetch.RegisterFlags(fs)
}

func (c *convertCfg) exec(ctx context.Context, _ []string) error {
	if c.from == "" || c.to == "" || c.amount == "" {
		return errMissingArgs
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(c.amount))
	if err != nil {
		return fmt.Errorf("%w: invalid amount %q", convert.ErrInvalidInput, c.amount)
	}

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}

	// Logs go to stderr, so stdout only carries the result
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fetcher, err := c.fetch.NewFetcher(logger)
	if err != nil {
		return fmt.Errorf("unable to create sheet fetcher: %w", err)
	}

	date := c.date
	if date == "" {
		date = time.Now().Format(bcb.DefaultDateLayout)
	}

	converter := convert.New(fetcher, convert.WithLogger(logger))

	result, err := converter.Convert(ctx, c.from, c.to, amount, date)
	if err != nil {
		return fmt.Errorf("%s: %w", convert.KindOf(err), err)
	}

	_, _ = fmt.Fprintln(c.out, result.StringFixed(convert.Places)) //nolint:errcheck // Fine to ignore

	return nil
}
