package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/salesrep-scheduling/internal/app/bootstrap"
	"github.com/wolfman30/salesrep-scheduling/internal/availability"
	appconfig "github.com/wolfman30/salesrep-scheduling/internal/config"
	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// options carries the persistent flags shared by every subcommand.
type options struct {
	DatabaseURL string
	RedisAddr   string
	AsOf        string
	LogLevel    string
}

// computerFactory opens the stores and returns an availability computer plus
// a cleanup func.
type computerFactory func(ctx context.Context, opts options) (availability.Computer, func(), error)

func main() {
	if err := newRootCmd(os.Stdout, openComputer).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer, factory computerFactory) *cobra.Command {
	cfg := appconfig.Load()
	opts := options{
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
		LogLevel:    "warn",
	}

	rootCmd := &cobra.Command{
		Use:          "availctl",
		Short:        "Inspect sales rep availability from the command line",
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", opts.DatabaseURL, "Postgres connection string (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis-addr", opts.RedisAddr, "Redis address for organization settings (empty disables)")
	rootCmd.PersistentFlags().StringVar(&opts.AsOf, "as-of", "", "RFC3339 instant used as the current time")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level")

	run := func(cmd *cobra.Command, compute func(context.Context, availability.Computer) (*availability.Response, error)) error {
		computer, cleanup, err := factory(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer cleanup()
		resp, err := compute(cmd.Context(), computer)
		if err != nil {
			return err
		}
		return printResponse(cmd.OutOrStdout(), resp)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "week",
		Short: "Print free slots for Monday through Sunday of the current week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c availability.Computer) (*availability.Response, error) {
				return c.WeeklyAvailability(ctx)
			})
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "day YYYY-MM-DD",
		Short: "Print free slots for a single date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c availability.Computer) (*availability.Response, error) {
				return c.DayAvailability(ctx, args[0])
			})
		},
	})

	return rootCmd
}

func printResponse(w io.Writer, resp *availability.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func parseAsOf(raw string) (func() time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	asOf, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --as-of: %w", err)
	}
	return func() time.Time { return asOf }, nil
}

func openComputer(ctx context.Context, opts options) (availability.Computer, func(), error) {
	now, err := parseAsOf(opts.AsOf)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(opts.DatabaseURL) == "" {
		return nil, nil, errors.New("a database url is required (--database-url or DATABASE_URL)")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.NewWithWriter(opts.LogLevel, os.Stderr)
	pool, err := bootstrap.ConnectPostgres(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	redisClient := bootstrap.BuildRedisClient(ctx, &appconfig.Config{RedisAddr: opts.RedisAddr}, logger, true)

	services := bootstrap.BuildServices(pool, redisClient, logger, bootstrap.ServiceOptions{Now: now})
	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		pool.Close()
	}
	return services.Availability, cleanup, nil
}
