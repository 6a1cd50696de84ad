package oracle

import (
	"fmt"
	"math"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

// ema is an exponential moving average with no value until the first
// update, matching the Option<f64> semantics of the reference
// implementation: the first sample seeds the average exactly rather than
// blending against zero.
type ema struct {
	alpha float64
	value float64
	set   bool
}

func newEMA(alpha float64) *ema {
	return &ema{alpha: alpha}
}

func (e *ema) update(x float64) float64 {
	if !e.set {
		e.value = x
		e.set = true
		return e.value
	}
	e.value = e.alpha*x + (1-e.alpha)*e.value
	return e.value
}

// fundingEngine derives a perpetual funding rate from the basis between a
// mark price and a slower reference price, scaled by kappa and clamped to
// +/-cap.
type fundingEngine struct {
	kappa       float64
	cap         float64
	intervalSec uint32
}

func newFundingEngine(kappa, cap float64, intervalSec uint32) fundingEngine {
	return fundingEngine{kappa: kappa, cap: cap, intervalSec: intervalSec}
}

func (f fundingEngine) compute(mark, ref types.Mark) types.FundingUpdate {
	basis := (mark.Price - ref.Price) / ref.Price
	raw := f.kappa * basis
	rate := math.Max(-f.cap, math.Min(f.cap, raw))

	return types.FundingUpdate{
		Symbol:      fmt.Sprintf("%s-PERP", mark.Symbol),
		Rate:        rate,
		IntervalSec: f.intervalSec,
		TsMs:        mark.TsMs,
	}
}
