package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"wallet-dashboard/internal/config"
	"wallet-dashboard/internal/filter"
	"wallet-dashboard/internal/services"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	apiURL  string
	timeout time.Duration
	demo    bool
	seed    uint64
	verbose bool
}

// session is the per-invocation wiring shared by the subcommands
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	source  services.DataSourceInterface
	metrics services.MetricsRecorderInterface
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:           "wallet-cli",
		Short:         "Inspect the wallet dashboard data from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "Wallet API base URL (default from UPSTREAM_BASE_URL)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Request timeout (default from UPSTREAM_TIMEOUT)")
	flags.BoolVar(&opts.demo, "demo", false, "Use generated demo data instead of the wallet API")
	flags.Uint64Var(&opts.seed, "seed", 0, "Seed for --demo data (0 picks a random seed)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newTransactionsCmd(&opts),
		newWalletCmd(&opts),
		newUserCmd(&opts),
	)
	return rootCmd
}

func newTransactionsCmd(opts *globalOptions) *cobra.Command {
	var f filters

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions, filtered by date range or by type and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			store := filter.NewStore(filter.WithLogger(s.logger))
			f.logUnknownLabels(s.logger)
			if err := f.applyTo(store); err != nil {
				return err
			}

			service := services.NewDashboardService(s.source, store, s.metrics, s.logger, services.DashboardOptions{
				Cache: s.cfg.Cache,
			})
			list, err := service.GetTransactionList(cmd.Context())
			if err != nil {
				return err
			}

			s.logger.Debug("Transactions loaded",
				"count", list.Count,
				"applied", list.Applied,
				"active_filters", store.ActiveFilterCount(),
			)
			renderTransactions(cmd.OutOrStdout(), list)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newWalletCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Show wallet balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			wallet, err := s.source.GetWallet(cmd.Context())
			if err != nil {
				return err
			}
			renderWallet(cmd.OutOrStdout(), wallet)
			return nil
		},
	}
}

func newUserCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Show the account holder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			user, err := s.source.GetUser(cmd.Context())
			if err != nil {
				return err
			}
			renderUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

// newSession loads the environment configuration and layers the global flags over it
func newSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	cfg := config.Load()

	if opts.apiURL != "" {
		cfg.Upstream.BaseURL = strings.TrimRight(opts.apiURL, "/")
	}
	if opts.timeout > 0 {
		cfg.Upstream.Timeout = opts.timeout
	}
	if opts.demo {
		cfg.Upstream.Demo = true
	}
	if opts.seed != 0 {
		cfg.Upstream.DemoSeed = opts.seed
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(newCLILogger(cmd.ErrOrStderr(), cfg.Logging))
	metrics := services.NewPrometheusMetricsWithRegistry(prometheus.NewRegistry())

	s := &session{cfg: cfg, logger: logger, metrics: metrics}
	if cfg.Upstream.Demo {
		s.source = services.NewDemoDataSource(services.WithDemoSeed(cfg.Upstream.DemoSeed))
	} else {
		breaker := services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig())
		s.source = services.NewUpstreamClient(&cfg.Upstream, breaker, metrics, logger)
	}
	return s, nil
}

func newCLILogger(w io.Writer, cfg config.LoggingConfig) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: cfg.SlogLevel() == slog.LevelDebug,
		TimeFormat:      time.Kitchen,
		Prefix:          "wallet-cli",
		Level:           log.Level(cfg.SlogLevel()),
	})
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}
