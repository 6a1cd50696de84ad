package oracle

import (
	"math"
	"sort"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

// CfdConsensus fuses multiple CfdProvider quotes into a single robust mark:
// median anchor, MAD outlier rejection, then a freshness- and deviation-
// weighted average of what survives. TauMs is the weighting layer's decay
// constant; MadK is how many MADs around the median a quote may sit before
// it is dropped as an outlier.
type CfdConsensus struct {
	Symbol  string
	Expo    int8
	TauMs   uint64
	MadK    float64
	TwapSec uint32
}

// median returns prices[n/2] after sorting — the upper of the two middle
// elements for an even count, not their mean. This is the convention
// the primary consensus path uses; the averaging convention survives only
// in index/singleindex, see that package's doc comment.
func median(prices []float64) float64 {
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// mad returns the median absolute deviation of values around med, scaled
// by 1.4826 so it estimates a standard deviation under a normal model.
func mad(values []float64, med float64) float64 {
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - med)
	}
	sort.Float64s(devs)
	m := devs[len(devs)/2]
	if m < 1e-9 {
		m = 1e-9
	}
	return 1.4826 * m
}

// Build implements the median-anchor + MAD band + freshness/deviation
// weighted fusion described above. It returns ErrNoQuotes if quotes is
// empty and ErrAllQuotesRejected if every quote falls outside the MAD band.
func (c CfdConsensus) Build(quotes []types.Quote, now int64) (types.Mark, types.ConsensusStats, error) {
	if len(quotes) == 0 {
		return types.Mark{}, types.ConsensusStats{}, types.ErrNoQuotes
	}

	prices := make([]float64, len(quotes))
	for i, q := range quotes {
		prices[i] = q.Price
	}
	med := median(prices)
	spread := mad(prices, med)
	band := c.MadK * spread

	kept := make([]types.Quote, 0, len(quotes))
	minP, maxP := math.Inf(1), math.Inf(-1)
	for _, q := range quotes {
		if math.Abs(q.Price-med) <= band {
			kept = append(kept, q)
			if q.Price < minP {
				minP = q.Price
			}
			if q.Price > maxP {
				maxP = q.Price
			}
		}
	}
	if len(kept) == 0 {
		return types.Mark{}, types.ConsensusStats{}, types.ErrAllQuotesRejected
	}

	var num, den float64
	for _, q := range kept {
		age := math.Abs(float64(now - q.TsMs))
		w := math.Exp(-age / float64(c.TauMs))
		dev := math.Min(math.Abs(q.Price-med)/(spread+1e-9), 10.0)
		w2 := w * math.Exp(-0.15*dev)
		num += w2 * q.Price
		den += w2
	}
	if den <= 0 {
		return types.Mark{}, types.ConsensusStats{}, types.ErrAllQuotesRejected
	}
	fused := num / den

	spreadBps := uint32(math.Round(math.Abs((maxP-minP)/med) * 10_000))

	nFrac := float32(len(kept)) / float32(maxInt(len(quotes), 1))
	tight := float32(1.0 / (1.0 + float64(spreadBps)/50.0))
	confidence := nFrac * tight
	if confidence > 1 {
		confidence = 1
	}

	mark := types.Mark{
		Symbol:    c.Symbol,
		Price:     fused,
		Expo:      c.Expo,
		TsMs:      now,
		Source:    "cfd-consensus",
		WindowSec: c.TwapSec,
	}
	stats := types.ConsensusStats{
		NFresh:     len(quotes),
		NUsed:      len(kept),
		NDropped:   len(quotes) - len(kept),
		SpreadBps:  spreadBps,
		Confidence: confidence,
	}
	return mark, stats, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
