package integration

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/autonom-labs/cfd-oracle/config"
	"github.com/autonom-labs/cfd-oracle/oracle"
	"github.com/autonom-labs/cfd-oracle/oracle/metrics"
	"github.com/autonom-labs/cfd-oracle/oracle/provider"
	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

type capturingPublisher struct {
	marks    []types.Mark
	fundings []types.FundingUpdate
}

func (c *capturingPublisher) PublishIndex(_ context.Context, mark types.Mark) error {
	c.marks = append(c.marks, mark)
	return nil
}

func (c *capturingPublisher) PublishFunding(_ context.Context, funding types.FundingUpdate) error {
	c.fundings = append(c.fundings, funding)
	return nil
}

func getLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.ErrorLevel).With().Timestamp().Logger()
}

// TestOracleEndToEnd runs the full tick pipeline against two local
// random-walk providers and checks the published output invariants: every
// mark is finite and positive, consecutive marks respect the step clamp,
// and every funding rate stays within the configured cap.
func TestOracleEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg, err := config.ParseConfig(fmt.Sprintf("../../%s", config.SampleNodeConfigPath))
	require.NoError(t, err)
	cfg.PollIntervalMs = 50

	pub := &capturingPublisher{}
	o := oracle.New(getLogger(), cfg, pub, []provider.CfdProvider{
		provider.NewOwninjaCfd(0.9),
		provider.NewOwninjaCfd(0.9),
	}, metrics.New(false))

	ctx, cancel := context.WithCancel(context.Background())
	go o.Start(ctx)

	time.Sleep(2 * time.Second)
	cancel()
	o.Stop()

	require.NotEmpty(t, pub.marks, "oracle should publish at least one mark")
	require.NotEmpty(t, pub.fundings)
	require.Len(t, pub.fundings, len(pub.marks))

	step := math.Max(cfg.MaxStepPerTick, 5e-4)
	for i, mark := range pub.marks {
		require.True(t, mark.Price > 0 && !math.IsInf(mark.Price, 0) && !math.IsNaN(mark.Price),
			"published mark %d must be finite and positive: %v", i, mark.Price)
		require.Equal(t, cfg.Symbol, mark.Symbol)

		if i > 0 {
			prev := pub.marks[i-1].Price
			require.LessOrEqual(t, math.Abs(mark.Price-prev), step*prev+1e-12,
				"mark %d moved beyond the per-tick step clamp", i)
		}
	}

	for i, funding := range pub.fundings {
		require.LessOrEqual(t, math.Abs(funding.Rate), cfg.FundingCap,
			"funding rate %d beyond cap", i)
		require.Equal(t, cfg.Symbol+"-PERP", funding.Symbol)
		require.Equal(t, cfg.FundingIntervalSec, funding.IntervalSec)
	}

	last, ok := o.GetLastMark()
	require.True(t, ok)
	require.Equal(t, last.Price, pub.marks[len(pub.marks)-1].Price)
}
