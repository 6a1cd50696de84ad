package oracle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerFirstObservationSeedsAnchor(t *testing.T) {
	cb := newCircuitBreaker(0.07)

	require.False(t, cb.tripped(100.0, 0))
	require.True(t, cb.hasAnchor)
}

func TestCircuitBreakerTripsOnFastMove(t *testing.T) {
	cb := newCircuitBreaker(0.05)
	cb.tripped(100.0, 0)

	require.True(t, cb.tripped(110.0, 1_000), "10% move in one second normalizes well past a 5%/min threshold")
}

func TestCircuitBreakerDoesNotRollAnchorWhileTripped(t *testing.T) {
	cb := newCircuitBreaker(0.05)
	cb.tripped(100.0, 0)

	require.True(t, cb.tripped(110.0, 20_000))
	require.Equal(t, 100.0, cb.anchorPrice, "anchor must stay put while tripped")
}

func TestCircuitBreakerRollsAnchorForwardAfterQuietPeriod(t *testing.T) {
	cb := newCircuitBreaker(0.5)
	cb.tripped(100.0, 0)

	require.False(t, cb.tripped(100.5, 11_000))
	require.Equal(t, 100.5, cb.anchorPrice)
	require.Equal(t, int64(11_000), cb.anchorMs)
}

func TestCircuitBreakerHoldsAnchorBeforeQuietWindowElapses(t *testing.T) {
	cb := newCircuitBreaker(0.5)
	cb.tripped(100.0, 0)

	require.False(t, cb.tripped(100.1, 5_000))
	require.Equal(t, 100.0, cb.anchorPrice, "anchor should not roll before the 10s quiet window")
}
