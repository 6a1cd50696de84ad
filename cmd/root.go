package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/autonom-labs/cfd-oracle/config"
	"github.com/autonom-labs/cfd-oracle/monitor"
	"github.com/autonom-labs/cfd-oracle/oracle"
	"github.com/autonom-labs/cfd-oracle/oracle/metrics"
	"github.com/autonom-labs/cfd-oracle/oracle/provider"
	v1 "github.com/autonom-labs/cfd-oracle/router/v1"
)

const (
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"

	logLevelJSON = "json"
	logLevelText = "text"
)

// NewRootCmd builds the cfd-oracle root command: start runs the daemon,
// watch runs the standalone monitor watchdog.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cfd-oracle",
		Short:         "Commodity CFD price oracle daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "logging level")
	rootCmd.PersistentFlags().String(flagLogFormat, logLevelText, "logging format (text|json)")

	rootCmd.AddCommand(getStartCmd(), getWatchCmd())
	return rootCmd
}

func newLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	logLvlStr, err := cmd.Flags().GetString(flagLogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}
	logLvl, err := zerolog.ParseLevel(logLvlStr)
	if err != nil {
		return zerolog.Logger{}, err
	}

	logFormatStr, err := cmd.Flags().GetString(flagLogFormat)
	if err != nil {
		return zerolog.Logger{}, err
	}

	var logWriter io.Writer
	switch strings.ToLower(logFormatStr) {
	case logLevelJSON:
		logWriter = os.Stderr
	case logLevelText:
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	default:
		return zerolog.Logger{}, fmt.Errorf("invalid logging format: %s", logFormatStr)
	}

	return zerolog.New(logWriter).Level(logLvl).With().Timestamp().Logger(), nil
}

func getStartCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the oracle tick loop and status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfigOrDefault(logger, configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			trapSignal(cancel, logger)

			providers, err := buildProviders(logger, cfg)
			if err != nil {
				return err
			}

			o := oracle.New(logger, cfg, oracle.StdoutPublisher{}, providers, metrics.New(cfg.MetricsEnabled))

			router := mux.NewRouter()
			v1.RegisterRoutes(router, o, logger)

			srv := newHTTPServer(cfg.Server, router, logger)
			go srv.run()

			o.Start(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to oracle.toml (defaults to built-in config)")
	return cmd
}

func getWatchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the standalone monitor watchdog against its own Oracle instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfigOrDefault(logger, configPath)
			if err != nil {
				return err
			}

			providers, err := buildProviders(logger, cfg)
			if err != nil {
				return err
			}

			var crossCheck provider.CfdProvider
			if len(providers) > 0 {
				crossCheck = providers[0]
			}

			monitor.Start(cfg, providers, crossCheck)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to oracle.toml (defaults to built-in config)")
	return cmd
}

func loadConfigOrDefault(logger zerolog.Logger, configPath string) (config.OracleConfig, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.ParseConfig(configPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", configPath).Msg("failed to load config, falling back to defaults")
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

// buildProviders wires up the live API Ninjas adapter plus the local
// random-walk mock, so the daemon always has at least cfg.CfdMinFresh
// providers even when no live vendor credentials are configured.
func buildProviders(logger zerolog.Logger, cfg config.OracleConfig) ([]provider.CfdProvider, error) {
	providers := make([]provider.CfdProvider, 0, 2)

	endpoints := cfg.ProviderEndpointsMap()
	ninjas, err := provider.NewNinjasCfdFromEnv(logger, endpoints[string(provider.NameNinjas)])
	if err != nil {
		logger.Warn().Err(err).Msg("api ninjas provider disabled")
	} else {
		providers = append(providers, ninjas)
	}

	providers = append(providers, provider.NewOwninjaCfd(0))
	for len(providers) < cfg.CfdMinFresh {
		providers = append(providers, provider.NewOwninjaCfd(0))
	}
	return providers, nil
}

// trapSignal listens for and traps SIGINT/SIGTERM to gracefully cancel ctx.
func trapSignal(cancel context.CancelFunc, logger zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("caught signal, shutting down")
		cancel()
	}()
}
