package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/autonom-labs/cfd-oracle/config"
	"github.com/autonom-labs/cfd-oracle/oracle/metrics"
	"github.com/autonom-labs/cfd-oracle/oracle/provider"
	"github.com/autonom-labs/cfd-oracle/oracle/types"
	pfsync "github.com/autonom-labs/cfd-oracle/pkg/sync"
)

// Oracle is the core component responsible for fanning out to CFD
// providers, fusing their quotes into a robust mark price, guarding it
// with a step clamp and circuit breaker, and deriving a funding rate
// against a slow EMA reference. It is single-writer: only the tick
// goroutine writes its state. The breaker and fundingRefEMA have no lock;
// the published snapshot (lastGoodMark and friends) is behind mtx because
// the status router reads it from other goroutines.
type Oracle struct {
	logger    zerolog.Logger
	closer    *pfsync.Closer
	finished  chan struct{}
	cfg       config.OracleConfig
	metrics   *metrics.Metrics
	providers []provider.CfdProvider
	publisher Publisher

	breaker       *circuitBreaker
	fundingRefEMA *ema
	fundingEngine fundingEngine

	// mtx guards the published snapshot below, which the status router
	// reads from its own goroutines. The breaker and EMA above are only
	// ever touched by the tick goroutine and need no lock.
	mtx          sync.RWMutex
	lastGoodMark types.Mark
	hasGoodMark  bool
	lastFunding  types.FundingUpdate
	lastStats    types.ConsensusStats
}

// New builds an Oracle ready to Start. providers should contain at least
// cfg.CfdMinFresh adapters for consensus to have a chance of producing a
// mark most ticks.
func New(
	logger zerolog.Logger,
	cfg config.OracleConfig,
	publisher Publisher,
	providers []provider.CfdProvider,
	m *metrics.Metrics,
) *Oracle {
	return &Oracle{
		logger:        logger.With().Str("module", "oracle").Logger(),
		closer:        pfsync.NewCloser(),
		finished:      make(chan struct{}),
		cfg:           cfg,
		metrics:       m,
		providers:     providers,
		publisher:     publisher,
		breaker:       newCircuitBreaker(cfg.BreakerPerMinPct),
		fundingRefEMA: newEMA(cfg.FundingRefAlpha),
		fundingEngine: newFundingEngine(cfg.FundingKappa, cfg.FundingCap, cfg.FundingIntervalSec),
	}
}

// Start runs the tick loop in a blocking fashion until ctx is canceled or
// Stop is called.
func (o *Oracle) Start(ctx context.Context) {
	defer close(o.finished)

	ticker := time.NewTicker(o.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.closer.Done():
			return
		case <-ticker.C:
			o.logger.Debug().Msg("executing oracle tick")
			o.tick(ctx)
		}
	}
}

// Stop signals the tick loop to exit and blocks until it has. Callers
// must have a Start goroutine already running (or about to run); Stop
// does not return until that goroutine observes the signal.
func (o *Oracle) Stop() {
	o.closer.Close()
	<-o.finished
}

// GetLastMark returns a copy of the most recently published mark and
// whether one has been published yet.
func (o *Oracle) GetLastMark() (types.Mark, bool) {
	o.mtx.RLock()
	defer o.mtx.RUnlock()
	return o.lastGoodMark.Clone(), o.hasGoodMark
}

// GetLastFunding returns the most recently computed funding update.
func (o *Oracle) GetLastFunding() types.FundingUpdate {
	o.mtx.RLock()
	defer o.mtx.RUnlock()
	return o.lastFunding
}

// GetLastStats returns the most recent consensus build's stats.
func (o *Oracle) GetLastStats() types.ConsensusStats {
	o.mtx.RLock()
	defer o.mtx.RUnlock()
	return o.lastStats
}

// Tick runs a single pass of the tick pipeline synchronously. It is the
// same method the ticker loop in Start calls on every interval; exported
// so a caller like the monitor watchdog can drive an Oracle on its own
// schedule without running the full ticker goroutine.
func (o *Oracle) Tick(ctx context.Context) {
	o.tick(ctx)
}

// tick runs one pass of the Idle -> HoursCheck -> Collect -> Filter ->
// Consensus -> Clamp -> Breaker -> Publish pipeline. It never returns an
// error: every stage that can fail just aborts the tick and logs, since a
// single bad tick must not take down the daemon.
func (o *Oracle) tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		o.metrics.TickLatency(float32(time.Since(start).Milliseconds()))
	}()

	if !o.hoursOk() {
		o.metrics.TickAborted("hours")
		return
	}

	tickCtx, cancel := context.WithTimeout(ctx, o.cfg.PollInterval())
	defer cancel()

	fresh, attempted := o.collectQuotes(tickCtx)
	if len(fresh) < maxInt(o.cfg.CfdMinFresh, 1) {
		o.logger.Debug().
			Int("fresh", len(fresh)).
			Int("attempted", attempted).
			Msg("insufficient fresh quotes, skipping tick")
		o.metrics.TickAborted("insufficient_fresh")
		return
	}

	builder := CfdConsensus{
		Symbol:  o.cfg.Symbol,
		Expo:    o.cfg.Expo,
		TauMs:   o.cfg.CfdTauMs,
		MadK:    o.cfg.CfdMadK,
		TwapSec: o.cfg.CfdTwapSec,
	}
	mark, stats, err := builder.Build(fresh, time.Now().UnixMilli())
	if err != nil {
		o.logger.Debug().Err(err).Msg("consensus build failed")
		o.metrics.TickAborted("consensus")
		return
	}
	o.mtx.Lock()
	o.lastStats = stats
	o.mtx.Unlock()

	if stats.SpreadBps > o.cfg.CfdDispersionBpsMax {
		o.logger.Warn().
			Uint32("spread_bps", stats.SpreadBps).
			Uint32("max_bps", o.cfg.CfdDispersionBpsMax).
			Msg("cfd providers diverging beyond configured dispersion")
	}

	if o.hasGoodMark {
		step := o.cfg.MaxStepPerTick
		if step < 0.0005 {
			step = 0.0005
		}
		lo := o.lastGoodMark.Price * (1 - step)
		hi := o.lastGoodMark.Price * (1 + step)
		if mark.Price < lo {
			mark.Price = lo
		} else if mark.Price > hi {
			mark.Price = hi
		}
	}

	if o.breaker.tripped(mark.Price, mark.TsMs) {
		o.metrics.BreakerTripped()
		if !o.hasGoodMark {
			o.metrics.TickAborted("breaker_no_anchor")
			return
		}
		mark = o.lastGoodMark
	} else {
		o.mtx.Lock()
		o.lastGoodMark = mark
		o.hasGoodMark = true
		o.mtx.Unlock()
	}

	if err := o.publisher.PublishIndex(ctx, mark); err != nil {
		o.logger.Warn().Err(err).Msg("publish_index failed")
	}

	refPx := o.fundingRefEMA.update(mark.Price)
	refMark := types.Mark{
		Symbol: mark.Symbol,
		Price:  refPx,
		Expo:   mark.Expo,
		TsMs:   mark.TsMs,
		Source: "ref-ema",
	}
	funding := o.fundingEngine.compute(mark, refMark)
	o.mtx.Lock()
	o.lastFunding = funding
	o.mtx.Unlock()

	if err := o.publisher.PublishFunding(ctx, funding); err != nil {
		o.logger.Warn().Err(err).Msg("publish_funding failed")
	}

	o.metrics.TickProcessed()
}

// hoursOk gates the tick on trading hours. "off" and "vendor" are both
// always-open for CFDs, which trade roughly 23x5; "cme" falls through to
// the same permissive default today.
// TODO: wire an actual CME trading calendar for hours_guard="cme".
func (o *Oracle) hoursOk() bool {
	switch o.cfg.HoursGuard {
	case "off", "vendor", "cme":
		return true
	default:
		return true
	}
}
