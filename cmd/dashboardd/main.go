package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MarkoPoloResearchLab/logidash/internal/dashboardapi"
	"github.com/MarkoPoloResearchLab/logidash/internal/provider"
	"github.com/MarkoPoloResearchLab/logidash/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const (
	envPrefix = "DASHBOARD"

	flagDatabaseURL    = "database-url"
	flagSourceDriver   = "source-driver"
	flagFetchTimeout   = "fetch-timeout"
	flagLogLevel       = "log-level"
	flagListenAddr     = "listen-addr"
	flagPollInterval   = "poll-interval"
	flagRequestTimeout = "request-timeout"
	flagAllowedOrigins = "allowed-origins"
	flagJWTSigningKey  = "jwt-signing-key"
	flagJWTIssuer      = "jwt-issuer"
	flagJWTCookieName  = "jwt-cookie-name"
	flagBranchID       = "branch-id"
	flagBankName       = "bank-name"
	flagStateName      = "state-name"
	flagMinBalance     = "min-balance"
	flagMaxBalance     = "max-balance"
	flagSearch         = "search"
	flagYear           = "year"
	flagAccountStatus  = "account-status"

	sourceDriverGORM = "gorm"
	sourceDriverPGX  = "pgx"

	defaultDatabaseURL  = "sqlite:///tmp/logidash.db"
	defaultSourceDriver = sourceDriverGORM
	defaultFetchTimeout = 10 * time.Second
	defaultPollInterval = 15 * time.Second
	defaultLogLevel     = "info"
)

type sourceConfig struct {
	DatabaseURL  string
	SourceDriver string
	FetchTimeout time.Duration
	LogLevel     string
}

type serveConfig struct {
	PollInterval time.Duration
	API          dashboardapi.Config
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dashboardd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	settings := viper.New()
	settings.SetEnvPrefix(envPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	sourceCfg := &sourceConfig{}
	serveCfg := &serveConfig{}
	cmd := &cobra.Command{
		Use:           "dashboardd",
		Short:         "Logistics ERP dashboard API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadSourceConfig(cmd, settings, sourceCfg); err != nil {
				return err
			}
			return loadServeConfig(cmd, settings, serveCfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, sourceCfg, serveCfg)
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.String(flagDatabaseURL, defaultDatabaseURL, "ERP connection string (sqlserver://, postgres:// or sqlite path)")
	persistent.String(flagSourceDriver, defaultSourceDriver, "snapshot reader: gorm or pgx")
	persistent.Duration(flagFetchTimeout, defaultFetchTimeout, "timeout for one snapshot fetch")
	persistent.String(flagLogLevel, defaultLogLevel, "log level: debug, info, warn or error")

	flags := cmd.Flags()
	flags.String(flagListenAddr, "", "HTTP listen address")
	flags.Duration(flagPollInterval, defaultPollInterval, "delay between snapshot fetches")
	flags.Duration(flagRequestTimeout, 0, "per-request timeout")
	flags.String(flagAllowedOrigins, "", "comma-separated CORS origins")
	flags.String(flagJWTSigningKey, "", "TAuth signing key; enables session checks when set")
	flags.String(flagJWTIssuer, "", "TAuth issuer")
	flags.String(flagJWTCookieName, "", "TAuth session cookie name")

	cmd.AddCommand(newReportCommand(settings, sourceCfg))
	cmd.AddCommand(newSeedCommand(settings, sourceCfg))
	return cmd
}

func newReportCommand(settings *viper.Viper, sourceCfg *sourceConfig) *cobra.Command {
	input := &dashboard.FilterInput{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch one snapshot and print the dashboard as JSON",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSourceConfig(cmd, settings, sourceCfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := dashboard.NewFilterCriteria(*input)
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), sourceCfg, criteria, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.BranchID, flagBranchID, "", "branch id or all")
	flags.StringVar(&input.BankName, flagBankName, "", "bank name or all")
	flags.StringVar(&input.StateName, flagStateName, "", "GST state name or all")
	flags.StringVar(&input.MinBalance, flagMinBalance, "", "minimum opening balance")
	flags.StringVar(&input.MaxBalance, flagMaxBalance, "", "maximum opening balance")
	flags.StringVar(&input.SearchTerm, flagSearch, "", "search PAN, name or GST number")
	flags.StringVar(&input.Year, flagYear, "", "financial year (accepted, not applied)")
	flags.StringVar(&input.AccountStatus, flagAccountStatus, "", "all, active or inactive")
	return cmd
}

func newSeedCommand(settings *viper.Viper, sourceCfg *sourceConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <snapshot.json>",
		Short: "Load a snapshot JSON file into a local ERP database",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSourceConfig(cmd, settings, sourceCfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), sourceCfg, args[0])
		},
	}
}

func loadSourceConfig(cmd *cobra.Command, settings *viper.Viper, cfg *sourceConfig) error {
	for _, name := range []string{flagDatabaseURL, flagSourceDriver, flagFetchTimeout, flagLogLevel} {
		if err := settings.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	cfg.DatabaseURL = strings.TrimSpace(settings.GetString(flagDatabaseURL))
	cfg.SourceDriver = strings.ToLower(strings.TrimSpace(settings.GetString(flagSourceDriver)))
	cfg.FetchTimeout = settings.GetDuration(flagFetchTimeout)
	cfg.LogLevel = settings.GetString(flagLogLevel)
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database url is required")
	}
	if cfg.SourceDriver != sourceDriverGORM && cfg.SourceDriver != sourceDriverPGX {
		return fmt.Errorf("unsupported source driver %q", cfg.SourceDriver)
	}
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	return nil
}

func loadServeConfig(cmd *cobra.Command, settings *viper.Viper, cfg *serveConfig) error {
	names := []string{flagListenAddr, flagPollInterval, flagRequestTimeout, flagAllowedOrigins, flagJWTSigningKey, flagJWTIssuer, flagJWTCookieName}
	for _, name := range names {
		if err := settings.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	cfg.PollInterval = settings.GetDuration(flagPollInterval)
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	cfg.API = dashboardapi.Config{
		ListenAddr:        settings.GetString(flagListenAddr),
		AllowedOrigins:    dashboardapi.ParseAllowedOrigins(settings.GetString(flagAllowedOrigins)),
		RequestTimeout:    settings.GetDuration(flagRequestTimeout),
		SessionSigningKey: settings.GetString(flagJWTSigningKey),
		SessionIssuer:     settings.GetString(flagJWTIssuer),
		SessionCookieName: settings.GetString(flagJWTCookieName),
	}
	return cfg.API.Validate()
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}

func runServer(ctx context.Context, sourceCfg *sourceConfig, serveCfg *serveConfig) error {
	logger, err := newLogger(sourceCfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	source, cleanup, err := openSource(ctx, sourceCfg)
	if err != nil {
		return fmt.Errorf("source open: %w", err)
	}
	defer cleanup()

	poller, err := provider.New(source,
		provider.WithPollInterval(serveCfg.PollInterval),
		provider.WithFetchTimeout(sourceCfg.FetchTimeout),
		provider.WithLogger(logger.Named("provider")),
	)
	if err != nil {
		return fmt.Errorf("provider init: %w", err)
	}
	service, err := dashboard.NewService(poller, time.Now, dashboard.WithOperationLogger(dashboardapi.NewZapOperationLogger(logger.Named("dashboard"))))
	if err != nil {
		return fmt.Errorf("dashboard service init: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return poller.Run(groupCtx)
	})
	group.Go(func() error {
		return dashboardapi.Run(groupCtx, serveCfg.API, dashboardapi.Dependencies{
			Service: service,
			Status:  poller,
			Logger:  logger.Named("http"),
		})
	})
	logger.Info("dashboard starting",
		zap.String("source_driver", sourceCfg.SourceDriver),
		zap.Duration("poll_interval", serveCfg.PollInterval),
	)
	return group.Wait()
}

func runReport(ctx context.Context, sourceCfg *sourceConfig, criteria dashboard.FilterCriteria, output io.Writer) error {
	source, cleanup, err := openSource(ctx, sourceCfg)
	if err != nil {
		return fmt.Errorf("source open: %w", err)
	}
	defer cleanup()

	service, err := dashboard.NewService(source, time.Now)
	if err != nil {
		return fmt.Errorf("dashboard service init: %w", err)
	}
	fetchCtx, cancel := context.WithTimeout(ctx, sourceCfg.FetchTimeout)
	defer cancel()
	result, err := service.Dashboard(fetchCtx, criteria)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func runSeed(ctx context.Context, sourceCfg *sourceConfig, path string) error {
	if sourceCfg.SourceDriver != sourceDriverGORM {
		return fmt.Errorf("seed requires the %s source driver", sourceDriverGORM)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot dashboard.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	db, cleanup, driver, err := openDatabase(ctx, sourceCfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer cleanup()
	if err := prepareSchema(db, driver); err != nil {
		return err
	}
	return gormstore.New(db).Seed(ctx, snapshot)
}
