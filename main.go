package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "statworker:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	debug    bool
	envFiles []string
	logger   *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "statworker",
		Short:         "Compute descriptive statistics for benchmark samples",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Prefer the Rails app .env if present.
			loadEnvFiles(opts.envFiles...)
			logger, err := newLogger(opts.debug)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorker(cmd.Context(), opts, func(ctx context.Context, w *worker) error {
				return w.runService(ctx)
			})
		},
	}
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log at debug level with development output")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{"../benchmark_ui/.env", ".env"}, "dotenv files to load before reading the environment")

	var testRunID int64
	run := &cobra.Command{
		Use:   "run [test-run-id]",
		Short: "Process a single test run and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTestRunID(testRunID, args)
			if err != nil {
				return err
			}
			return withWorker(cmd.Context(), opts, func(ctx context.Context, w *worker) error {
				return w.processTestRun(ctx, id)
			})
		},
	}
	run.Flags().Int64Var(&testRunID, "test-run-id", 0, "ID of test_runs row to attach results to")

	service := &cobra.Command{
		Use:   "service",
		Short: "Run as background service listening to the Sidekiq queue",
		RunE:  root.RunE,
	}

	root.AddCommand(run, service, newDescribeCommand())
	return root
}

// resolveTestRunID prefers --test-run-id and falls back to a bare
// positional id.
func resolveTestRunID(flagValue int64, args []string) (int64, error) {
	id := flagValue
	if id == 0 && len(args) > 0 {
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("test run id %q: %w", args[0], err)
		}
		id = v
	}
	if id <= 0 {
		return 0, errors.New("missing --test-run-id <id> argument")
	}
	return id, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// withWorker opens the database, runs fn, and logs its failure.
func withWorker(ctx context.Context, opts *rootOptions, fn func(context.Context, *worker) error) error {
	logger := opts.logger
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("database config error", zap.Error(err))
		return err
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		logger.Error("connect error", zap.Error(err))
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("database not reachable", zap.Error(err))
		return fmt.Errorf("database not reachable: %w", err)
	}

	if err := fn(ctx, &worker{db: db, cfg: cfg, logger: logger}); err != nil {
		logger.Error("worker failed", zap.Error(err))
		return err
	}
	return nil
}
