package oracle

import "math"

// isFinitePositive reports whether v is a usable price: no NaN, no Inf,
// strictly positive. Provider adapters enforce this themselves; the
// collector checks again since a provider's own validation may have a gap.
func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
