// Package singleindex builds a rolling index off a single CFD provider's
// own tick history: a time-weighted average over a trailing window fused
// with a rolling median, with staleness and jump guards on ingest. It is
// not wired into the primary oracle tick loop, which fuses across
// multiple providers instead; this is a fallback shape for a deployment
// that only has one provider to work with.
package singleindex

import (
	"errors"
	"sort"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

var (
	// ErrStale is returned when an ingested tick's timestamp is older than
	// the configured max staleness relative to nowMs.
	ErrStale = errors.New("tick older than max staleness")

	// ErrJump is returned when an ingested tick's price moves by more
	// than the configured jump guard relative to the last accepted price.
	ErrJump = errors.New("tick price jump exceeds guard")

	// ErrNoData is returned when Build is called with an empty window,
	// which can only happen on the very first call before any tick has
	// been ingested.
	ErrNoData = errors.New("no data in window")
)

type cfdTick struct {
	price float64
	tsMs  int64
}

// CfdIndex accumulates a single provider's raw ticks into a trailing
// window and fuses a TWAP with a rolling median on every Build call.
//
// Its median step deliberately diverges from the primary oracle's
// consensus path (oracle.CfdConsensus), which anchors on prices[n/2]
// after sorting (the upper middle element, no averaging for an even count).
// That convention traces back to a pair of sibling median helpers in the
// original single-process prototype: a private one used by the
// multi-provider consensus builder (lower median) and a public "fuse"
// one that was never called from the consensus path and instead
// averaged the two middle elements on an even count. This package keeps
// that second, otherwise-dead convention alive rather than silently
// dropping it, since a caller migrating off the single-provider path may
// depend on its exact rounding behavior.
type CfdIndex struct {
	Symbol         string
	Expo           int8
	TwapSec        uint32
	MedianSec      uint32
	MaxStalenessMs int64
	JumpPct        float64

	buf     []cfdTick
	lastPx  float64
	hasLast bool
}

// NewCfdIndex constructs a CfdIndex with an empty window.
func NewCfdIndex(symbol string, expo int8, twapSec, medianSec uint32, maxStalenessMs int64, jumpPct float64) *CfdIndex {
	return &CfdIndex{
		Symbol:         symbol,
		Expo:           expo,
		TwapSec:        twapSec,
		MedianSec:      medianSec,
		MaxStalenessMs: maxStalenessMs,
		JumpPct:        jumpPct,
	}
}

func (c *CfdIndex) windowMs() int64 {
	sec := c.MedianSec
	if c.TwapSec > sec {
		sec = c.TwapSec
	}
	return int64(sec) * 1000
}

// prune drops every buffered tick older than the wider of TwapSec and
// MedianSec relative to nowMs.
func (c *CfdIndex) prune(nowMs int64) {
	cutoff := nowMs - c.windowMs()
	i := 0
	for i < len(c.buf) && c.buf[i].tsMs < cutoff {
		i++
	}
	c.buf = c.buf[i:]
}

// median returns the buffered prices' median, averaging the two middle
// elements on an even count; see the CfdIndex doc comment for why this
// diverges from the primary consensus path's prices[n/2] convention.
// ok is false if the buffer is empty.
func (c *CfdIndex) median() (float64, bool) {
	n := len(c.buf)
	if n == 0 {
		return 0, false
	}
	prices := make([]float64, n)
	for i, t := range c.buf {
		prices[i] = t.price
	}
	sort.Float64s(prices)

	mid := n / 2
	if n%2 == 1 {
		return prices[mid], true
	}
	return (prices[mid-1] + prices[mid]) / 2.0, true
}

// twap returns the time-weighted average price over the buffered window,
// weighting each tick by the time until the next tick (or until nowMs
// for the most recent one). ok is false if the buffer is empty.
func (c *CfdIndex) twap(nowMs int64) (float64, bool) {
	n := len(c.buf)
	if n == 0 {
		return 0, false
	}
	if n == 1 {
		return c.buf[0].price, true
	}

	var num, den float64
	for i := 0; i < n; i++ {
		var span int64
		if i == n-1 {
			span = nowMs - c.buf[i].tsMs
		} else {
			span = c.buf[i+1].tsMs - c.buf[i].tsMs
		}
		if span < 0 {
			span = 0
		}
		w := float64(span)
		num += w * c.buf[i].price
		den += w
	}
	if den <= 0 {
		return c.buf[n-1].price, true
	}
	return num / den, true
}

// Build ingests one tick and returns the fused mark for the current
// window: a 50/50 blend of the trailing TWAP and the rolling median
// described above. It returns ErrStale if tick is older than
// MaxStalenessMs relative to nowMs, or ErrJump if its price moves by
// more than JumpPct from the last accepted tick's price.
func (c *CfdIndex) Build(price float64, tsMs int64, nowMs int64) (types.Mark, error) {
	if nowMs-tsMs > c.MaxStalenessMs {
		return types.Mark{}, ErrStale
	}
	if c.hasLast && c.lastPx != 0 {
		move := (price - c.lastPx) / c.lastPx
		if move < 0 {
			move = -move
		}
		if move > c.JumpPct {
			return types.Mark{}, ErrJump
		}
	}

	c.buf = append(c.buf, cfdTick{price: price, tsMs: tsMs})
	c.lastPx = price
	c.hasLast = true
	c.prune(nowMs)

	twapPx, ok := c.twap(nowMs)
	if !ok {
		return types.Mark{}, ErrNoData
	}
	medPx, ok := c.median()
	if !ok {
		medPx = twapPx
	}
	fused := 0.5*twapPx + 0.5*medPx

	return types.Mark{
		Symbol:    c.Symbol,
		Price:     fused,
		Expo:      c.Expo,
		TsMs:      nowMs,
		Source:    "cfd",
		WindowSec: c.TwapSec,
	}, nil
}
