package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/ptax/cmd/env"
	"github.com/sig-0/ptax/cmd/fetch"
	"github.com/sig-0/ptax/convert"
	"github.com/sig-0/ptax/ingest"
	"github.com/sig-0/ptax/provider/bcb"
	"github.com/sig-0/ptax/server"
	"github.com/sig-0/ptax/server/config"
	"github.com/sig-0/ptax/storage"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config
	fetch  fetch.Config

	configPath string
	noIngest   bool
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	cmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve <subcommand> [flags]",
		LongHelp:   "Serves the ptax backend",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	cmd.Subcommands = []*ffcli.Command{
		newServeSQLCmd(cfg),
		newServeMemoryCmd(cfg),
	}

	return cmd
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.BoolVar(
		&c.noIngest,
		"no-ingest",
		false,
		"serve only, without the periodic rate sheet ingestion",
	)

	c.fetch.RegisterFlags(fs)
}

// readConfig replaces the flag configuration with the TOML file, if set
func (c *serveCfg) readConfig() error {
	if c.configPath == "" {
		return nil
	}

	serverCfg, err := config.Read(c.configPath)
	if err != nil {
		return fmt.Errorf("unable to read server config, %w", err)
	}

	c.config = serverCfg

	return nil
}

// run serves the given store, and ingests rate sheets into it until interrupted
func (c *serveCfg) run(ctx context.Context, store storage.Storage, logger *slog.Logger) error {
	// Concurrent requests can ask for the same sheet,
	// so every download gets its own scratch file
	fetcher, err := c.fetch.NewFetcher(logger, bcb.WithUniqueNames())
	if err != nil {
		return fmt.Errorf("unable to create sheet fetcher: %w", err)
	}

	parser := bcb.NewParser()

	// Create the ingestion service
	orchestrator := ingest.New(store, ingest.WithLogger(logger))
	for _, provider := range defaultProviders(fetcher, parser, logger) {
		if err = orchestrator.Register(provider); err != nil {
			return fmt.Errorf("unable to register provider: %w", err)
		}
	}

	// Create the server instance
	s, err := server.New(
		store,
		server.WithLogger(logger),
		server.WithConfig(c.config),
		server.WithConverter(
			convert.New(
				fetcher,
				convert.WithLogger(logger),
				convert.WithParser(parser),
			),
		),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the ingestion service
	if !c.noIngest {
		group.Go(func() error {
			return orchestrator.Start(gCtx)
		})
	}

	return group.Wait()
}
