package oracle

import "math"

// circuitBreaker trips when price moves more than perMinThreshold per
// normalized minute relative to its rolling anchor. Tripping freezes the
// published mark at the last good value rather than resetting the anchor,
// so a sustained bad move cannot "walk" the anchor forward trade by trade
// while still tripped.
type circuitBreaker struct {
	perMinThreshold float64
	anchorPrice     float64
	anchorMs        int64
	hasAnchor       bool
}

func newCircuitBreaker(perMinThreshold float64) *circuitBreaker {
	return &circuitBreaker{perMinThreshold: perMinThreshold}
}

// tripped reports whether px at tsMs represents a move beyond threshold
// relative to the current anchor. The anchor only rolls forward to (px,
// tsMs) once at least 10s have elapsed since the last roll and the move
// did not trip the breaker.
func (cb *circuitBreaker) tripped(px float64, tsMs int64) bool {
	if !cb.hasAnchor {
		cb.anchorPrice = px
		cb.anchorMs = tsMs
		cb.hasAnchor = true
		return false
	}

	dtMs := tsMs - cb.anchorMs
	if dtMs < 1 {
		dtMs = 1
	}
	dtRatio := 60_000.0 / float64(dtMs)
	change := math.Abs(px/cb.anchorPrice-1.0) * dtRatio
	if change > cb.perMinThreshold {
		return true
	}

	if dtMs >= 10_000 {
		cb.anchorPrice = px
		cb.anchorMs = tsMs
	}
	return false
}
