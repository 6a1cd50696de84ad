package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/autonom-labs/cfd-oracle/oracle/provider"
)

const (
	defaultPollInterval       = 2 * time.Second
	fallbackPollInterval      = time.Second
	defaultCfdTwapSec         = 30
	defaultCfdMaxStalenessMs  = 90_000
	defaultCfdJumpPct         = 0.05
	defaultFundingKappa       = 0.5
	defaultFundingCap         = 0.004
	defaultFundingIntervalSec = 8 * 3600
	defaultCfdMinFresh        = 2
	defaultCfdTauMs           = 20_000
	defaultCfdMadK            = 6.0
	defaultCfdDispersionBps   = 80
	defaultMaxStepPerTick     = 0.02
	defaultBreakerPerMin      = 0.07
	defaultFundingRefAlpha    = 0.005
	defaultHoursGuard         = "cme"

	defaultListenAddr = "0.0.0.0:7171"

	SampleNodeConfigPath = "oracle.example.toml"
)

var validate = validator.New()

// OracleConfig holds everything the tick pipeline and its ambient collaborators
// need. Loaded via viper from TOML with mapstructure tags; setDefaults() and
// Validate() are applied after decode.
type OracleConfig struct {
	Symbol string `mapstructure:"symbol" validate:"required"`
	Expo   int8   `mapstructure:"expo"`

	PollIntervalMs uint64 `mapstructure:"poll_ms"`

	CfdTwapSec           uint32  `mapstructure:"cfd_twap_sec"`
	CfdMaxStalenessMs    uint64  `mapstructure:"cfd_max_staleness_ms"`
	CfdJumpPct           float64 `mapstructure:"cfd_jump_pct"`
	CfdMinFresh          int     `mapstructure:"cfd_min_fresh"`
	CfdTauMs             uint64  `mapstructure:"cfd_tau_ms"`
	CfdMadK              float64 `mapstructure:"cfd_mad_k"`
	CfdDispersionBpsMax  uint32  `mapstructure:"cfd_dispersion_bps_max"`

	ModeCfdOnly bool `mapstructure:"mode_cfd_only"`

	HoursGuard       string  `mapstructure:"hours_guard"`
	MaxStepPerTick   float64 `mapstructure:"max_step_per_tick"`
	BreakerPerMinPct float64 `mapstructure:"breaker_per_min_pct"`
	FundingRefAlpha  float64 `mapstructure:"funding_ref_alpha"`

	FundingKappa       float64 `mapstructure:"funding_kappa"`
	FundingCap         float64 `mapstructure:"funding_cap" validate:"gt=0"`
	FundingIntervalSec uint32  `mapstructure:"funding_interval_sec"`

	// CmfTargetDays parameterizes the unwired constant-maturity scaffold in
	// index/cmf; it is not consumed by the primary CFD-only tick loop.
	CmfTargetDays float64 `mapstructure:"cmf_target_days"`

	// RollHikeIMPct is an advisory initial-margin hike applied by a
	// downstream risk engine around contract rolls; the oracle only
	// carries it through config.
	RollHikeIMPct float64 `mapstructure:"roll_hike_im_pct"`

	Server            Server              `mapstructure:"server"`
	Monitor           MonitorConfig       `mapstructure:"monitor"`
	ProviderEndpoints []provider.Endpoint `mapstructure:"provider_endpoints" validate:"dive"`

	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// Server defines the read-only status API server configuration.
type Server struct {
	ListenAddr   string `mapstructure:"listen_addr"`
	WriteTimeout string `mapstructure:"write_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout"`
}

// MonitorConfig configures the Slack-alerting anomaly watcher.
type MonitorConfig struct {
	SlackToken   string `mapstructure:"slack_token"`
	SlackChannel string `mapstructure:"slack_channel"`
}

// Validate returns an error if the config is invalid. It deliberately does
// not reject a config with an empty symbol from setDefaults alone — callers
// load this, call setDefaults, then Validate.
func (c OracleConfig) Validate() error {
	if c.FundingCap <= 0 {
		return fmt.Errorf("funding_cap must be positive")
	}
	if c.CfdMinFresh < 1 {
		return fmt.Errorf("cfd_min_fresh must be at least 1")
	}
	return validate.Struct(c)
}

func (c *OracleConfig) setDefaults() {
	if c.Symbol == "" {
		c.Symbol = "LEAN_HOGS_PERP"
	}
	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = uint64(defaultPollInterval.Milliseconds())
	}
	if c.CfdTwapSec == 0 {
		c.CfdTwapSec = defaultCfdTwapSec
	}
	if c.CfdMaxStalenessMs == 0 {
		c.CfdMaxStalenessMs = defaultCfdMaxStalenessMs
	}
	if c.CfdJumpPct == 0 {
		c.CfdJumpPct = defaultCfdJumpPct
	}
	if c.CfdMinFresh == 0 {
		c.CfdMinFresh = defaultCfdMinFresh
	}
	if c.CfdTauMs == 0 {
		c.CfdTauMs = defaultCfdTauMs
	}
	if c.CfdMadK == 0 {
		c.CfdMadK = defaultCfdMadK
	}
	if c.CfdDispersionBpsMax == 0 {
		c.CfdDispersionBpsMax = defaultCfdDispersionBps
	}
	if c.HoursGuard == "" {
		c.HoursGuard = defaultHoursGuard
	}
	if c.MaxStepPerTick == 0 {
		c.MaxStepPerTick = defaultMaxStepPerTick
	}
	if c.BreakerPerMinPct == 0 {
		c.BreakerPerMinPct = defaultBreakerPerMin
	}
	if c.FundingRefAlpha == 0 {
		c.FundingRefAlpha = defaultFundingRefAlpha
	}
	if c.FundingKappa == 0 {
		c.FundingKappa = defaultFundingKappa
	}
	if c.FundingCap == 0 {
		c.FundingCap = defaultFundingCap
	}
	if c.FundingIntervalSec == 0 {
		c.FundingIntervalSec = defaultFundingIntervalSec
	}
	if c.CmfTargetDays == 0 {
		c.CmfTargetDays = 30.0
	}
	if c.RollHikeIMPct == 0 {
		c.RollHikeIMPct = 0.3
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = defaultListenAddr
	}
}

// PollInterval returns the poll interval as a time.Duration. A zero
// poll_ms falls back to one second so a misconfigured interval can never
// produce a busy loop.
func (c OracleConfig) PollInterval() time.Duration {
	if c.PollIntervalMs == 0 {
		return fallbackPollInterval
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// ProviderEndpointsMap converts the provider_endpoints slice into a map
// keyed by provider name for constructor lookup.
func (c OracleConfig) ProviderEndpointsMap() map[string]provider.Endpoint {
	endpoints := make(map[string]provider.Endpoint, len(c.ProviderEndpoints))
	for _, e := range c.ProviderEndpoints {
		endpoints[e.Name.String()] = e
	}
	return endpoints
}
