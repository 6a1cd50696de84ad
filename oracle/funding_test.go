package oracle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

func TestEmaSeedsExactlyOnFirstUpdate(t *testing.T) {
	e := newEMA(0.1)

	require.Equal(t, 100.0, e.update(100.0))
}

func TestEmaBlendsOnSubsequentUpdates(t *testing.T) {
	e := newEMA(0.5)
	e.update(100.0)

	require.Equal(t, 101.0, e.update(102.0))
}

func TestEmaConvergesTowardConstantInput(t *testing.T) {
	e := newEMA(0.2)
	e.update(50.0)

	prevGap := 50.0
	for i := 0; i < 10; i++ {
		v := e.update(100.0)
		gap := 100.0 - v
		require.Less(t, gap, prevGap, "distance to a constant input must strictly shrink")
		prevGap = gap
	}
}

func TestFundingEngineComputesBasisScaledByKappa(t *testing.T) {
	f := newFundingEngine(0.5, 0.01, 28_800)
	mark := types.Mark{Symbol: "WTI", Price: 102.0, TsMs: 1_000}
	ref := types.Mark{Symbol: "WTI", Price: 100.0, TsMs: 1_000}

	update := f.compute(mark, ref)

	require.Equal(t, "WTI-PERP", update.Symbol)
	require.InDelta(t, 0.01, update.Rate, 1e-9)
	require.Equal(t, uint32(28_800), update.IntervalSec)
}

func TestFundingEngineClampsToCap(t *testing.T) {
	f := newFundingEngine(10.0, 0.004, 28_800)
	mark := types.Mark{Symbol: "WTI", Price: 150.0, TsMs: 1_000}
	ref := types.Mark{Symbol: "WTI", Price: 100.0, TsMs: 1_000}

	update := f.compute(mark, ref)

	require.Equal(t, 0.004, update.Rate)
}

func TestFundingEngineClampsNegativeToFloor(t *testing.T) {
	f := newFundingEngine(10.0, 0.004, 28_800)
	mark := types.Mark{Symbol: "WTI", Price: 50.0, TsMs: 1_000}
	ref := types.Mark{Symbol: "WTI", Price: 100.0, TsMs: 1_000}

	update := f.compute(mark, ref)

	require.Equal(t, -0.004, update.Rate)
}
