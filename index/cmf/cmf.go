// Package cmf builds a constant-maturity futures price by linearly
// interpolating between the two futures legs bracketing a target number
// of days to expiry. It is not wired into the CFD consensus tick loop;
// it exists as a building block for a future index that needs a
// constant-maturity series rather than a single-provider mark.
package cmf

import "github.com/autonom-labs/cfd-oracle/oracle/types"

const dayMs = 24 * 60 * 60 * 1000

// FuturesLeg is one futures contract observation: its price and the wall
// clock time its contract expires.
type FuturesLeg struct {
	Price    float64
	ExpiryMs int64
}

// CmfInputs is the two-leg bracket build needs: a near leg and a far leg,
// plus the time the weight should be computed as of.
type CmfInputs struct {
	Near  FuturesLeg
	Far   FuturesLeg
	NowMs int64
}

// CmfIndex builds a constant-maturity futures price for Symbol by
// interpolating between two futures legs so the result always reflects
// TargetDays to expiry, rather than whatever the nearest contract happens
// to have left.
type CmfIndex struct {
	Symbol     string
	Expo       int8
	TargetDays float64
}

// weight returns the near leg's interpolation weight: 1 when the near
// leg already sits at or past TargetDays out, 0 when TargetDays sits at
// or beyond the far leg, and linear in between. t2 is floored to t1+1 day so the
// two legs are never coincident and division by (t2-t1) never zeros out.
func weight(targetDays float64, nearExpiryMs, farExpiryMs, nowMs int64) float64 {
	t1 := float64(nearExpiryMs-nowMs) / dayMs
	if t1 < 1.0 {
		t1 = 1.0
	}
	t2 := float64(farExpiryMs-nowMs) / dayMs
	if t2 < t1+1.0 {
		t2 = t1 + 1.0
	}

	w := (t2 - targetDays) / (t2 - t1)
	if w < 0 {
		w = 0
	} else if w > 1 {
		w = 1
	}
	return w
}

// Build interpolates Near and Far into a single constant-maturity mark.
func (c CmfIndex) Build(in CmfInputs) types.Mark {
	w := weight(c.TargetDays, in.Near.ExpiryMs, in.Far.ExpiryMs, in.NowMs)
	price := w*in.Near.Price + (1-w)*in.Far.Price

	return types.Mark{
		Symbol:    c.Symbol,
		Price:     price,
		Expo:      c.Expo,
		TsMs:      in.NowMs,
		Source:    "cmf",
		WindowSec: 0,
	}
}
