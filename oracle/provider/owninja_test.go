package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

func TestOwninjaCfdLatestWalksWithinBound(t *testing.T) {
	p := NewOwninjaCfd(100.0)

	q, err := p.Latest(context.Background(), "LEAN_HOGS_PERP")
	require.NoError(t, err)
	require.Equal(t, types.SourceOwninja, q.Source)
	require.InDelta(t, 100.0, q.Price, 0.2)
}

func TestOwninjaCfdDefaultsStartPriceWhenNonPositive(t *testing.T) {
	p := NewOwninjaCfd(0)

	require.Greater(t, p.price, 0.0)
}

func TestOwninjaCfdTwoInstancesDoNotShareState(t *testing.T) {
	a := NewOwninjaCfd(100.0)
	b := NewOwninjaCfd(500.0)

	qa, err := a.Latest(context.Background(), "x")
	require.NoError(t, err)
	qb, err := b.Latest(context.Background(), "x")
	require.NoError(t, err)

	require.NotEqual(t, qa.Price, qb.Price)
}

func TestIsFinitePositive(t *testing.T) {
	require.True(t, isFinitePositive(1.0))
	require.False(t, isFinitePositive(0))
	require.False(t, isFinitePositive(-1.0))
}
