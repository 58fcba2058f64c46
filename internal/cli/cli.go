package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/poker-board/internal/clock"
	"github.com/pfrederiksen/poker-board/internal/config"
	"github.com/pfrederiksen/poker-board/internal/logger"
	"github.com/pfrederiksen/poker-board/internal/source"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// LoadError reports a failure to fetch or parse the sheet.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "failed to load listings: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var (
	flagConfig  string
	flagSource  string
	flagVerbose bool

	cfg *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poker-board",
		Short: "Browse published poker tournament listings",
		Long: `A CLI and web server for a published spreadsheet of poker tournaments.
Rows are normalized (amounts, dates, prize multiplier), then filtered by
day, area, multiplier and keywords, sorted, and rendered.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (or env: "+config.EnvConfigFile+")")
	cmd.PersistentFlags().StringVar(&flagSource, "source", "", "Sheet URL or local CSV/HTML file (overrides config)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newListCmd(), newServeCmd(), newVersionCmd())
	return cmd
}

// setup loads configuration and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cmd.Context(), flagConfig)
	if err != nil {
		return err
	}
	if flagSource != "" {
		c.SourceURL = flagSource
	}

	level := c.Level()
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	cfg = c
	return nil
}

// newLoader wires the fetcher and normalizer described by cfg.
func newLoader(c *config.Config, ttl time.Duration) (*source.Loader, *time.Location, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, nil, err
	}
	fetcher := source.New(c.SourceURL,
		source.WithTimeout(c.FetchTimeout),
		source.WithFormat(c.Format()),
	)
	normalizer := &tournament.Normalizer{Policy: c.Policy(), Location: loc}
	return source.NewLoader(fetcher, normalizer, ttl), loc, nil
}

// newClock returns a clock in loc, pinned to now when given.
func newClock(loc *time.Location, now string) (*clock.Override, error) {
	clk := clock.New(loc)
	if err := clk.Set(now); err != nil {
		return nil, fmt.Errorf("--now: %w", err)
	}
	return clk, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "poker-board %s\n", Version)
		},
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	_ = logger.Default().Sync()
	if err == nil {
		os.Exit(ExitSuccess)
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		fmt.Fprintf(os.Stderr, "Failed to load listings: %v\n", loadErr.Err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitError)
}
