package oracle

import (
	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

// derivedStalenessMs bounds how old a quote may be before the freshness
// filter drops it. It tracks the consensus freshness decay constant tauMs
// at a multiple of 3, clamped to a sane band so a very small or very large
// tau does not produce a degenerate staleness bound.
func derivedStalenessMs(tauMs uint64) uint64 {
	threeTau := tauMs * 3
	switch {
	case threeTau < 15_000:
		return 15_000
	case threeTau > 120_000:
		return 120_000
	default:
		return threeTau
	}
}

// filterFresh drops quotes older than maxStaleMs relative to now and clamps
// any quote whose timestamp is implausibly far in the future back to now,
// the way the collector guards against a misbehaving provider clock.
func filterFresh(quotes []types.Quote, now int64, maxStaleMs uint64) []types.Quote {
	fresh := make([]types.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.TsMs-now > 2_000 {
			q.TsMs = now
		}

		age := now - q.TsMs
		if age < 0 {
			age = -age
		}
		if uint64(age) <= maxStaleMs {
			fresh = append(fresh, q)
		}
	}
	return fresh
}
