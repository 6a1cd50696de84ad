package monitor

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/autonom-labs/cfd-oracle/config"
	"github.com/autonom-labs/cfd-oracle/oracle"
	"github.com/autonom-labs/cfd-oracle/oracle/metrics"
	"github.com/autonom-labs/cfd-oracle/oracle/provider"
)

// Start runs a standalone watchdog: it drives its own Oracle instance
// against the same provider roster the main daemon uses, and every minute
// runs VerifyOracle against it, notifying Slack of anything critical. It
// is meant to run as a separate process from the primary daemon so a bug
// in the daemon's own tick loop does not also silence its watchdog.
func Start(cfg config.OracleConfig, providers []provider.CfdProvider, crossCheck provider.CfdProvider) {
	logger := zerolog.New(os.Stderr).Level(zerolog.ErrorLevel).With().Timestamp().Logger()

	ctx, cancel := context.WithCancel(context.Background())

	userInterrupt := make(chan os.Signal, 1)
	signal.Notify(userInterrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-userInterrupt
		logger.Info().Msg("user interrupt")
		cancel()
	}()

	o := oracle.New(logger, cfg, oracle.StdoutPublisher{}, providers, metrics.New(cfg.MetricsEnabled))
	go o.Start(ctx)

	slackClient := NewSlackClient(cfg.Monitor)

	for {
		select {
		case <-ctx.Done():
			o.Stop()
			return
		case <-time.After(1 * time.Minute):
			priceErrors := VerifyOracle(o, cfg.Symbol, crossCheck)
			slackClient.Notify(priceErrors)
		}
	}
}
