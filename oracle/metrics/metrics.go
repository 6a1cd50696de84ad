package metrics

import (
	gometrics "github.com/armon/go-metrics"
)

// Metrics is a fire-and-forget wrapper around armon/go-metrics, the same
// shape as upstream's provider telemetry helpers: plain functions that
// attach a standard label set and never return an error, since a tick must
// never abort because an emitter is missing.
//
// No core tick-pipeline contract depends on these calls succeeding or even
// running; a nil *Metrics is valid and every method on it is a no-op.
type Metrics struct {
	enabled bool
}

// New returns a Metrics wrapper that emits only when enabled is true. Pass enabled=false (or a nil
// *Metrics) to make every call below a no-op without branching at call
// sites.
func New(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

func stageLabel(stage string) gometrics.Label {
	return gometrics.Label{Name: "stage", Value: stage}
}

func reasonLabel(reason string) gometrics.Label {
	return gometrics.Label{Name: "reason", Value: reason}
}

// TickProcessed increments cfd_oracle.tick.processed.
func (m *Metrics) TickProcessed() {
	if m == nil || !m.enabled {
		return
	}
	gometrics.IncrCounter([]string{"cfd_oracle", "tick", "processed"}, 1)
}

// TickAborted increments cfd_oracle.tick.aborted{stage="..."}.
func (m *Metrics) TickAborted(stage string) {
	if m == nil || !m.enabled {
		return
	}
	gometrics.IncrCounterWithLabels([]string{"cfd_oracle", "tick", "aborted"}, 1, []gometrics.Label{stageLabel(stage)})
}

// QuoteDropped increments cfd_oracle.quote.dropped{reason="..."}.
func (m *Metrics) QuoteDropped(reason string) {
	if m == nil || !m.enabled {
		return
	}
	gometrics.IncrCounterWithLabels([]string{"cfd_oracle", "quote", "dropped"}, 1, []gometrics.Label{reasonLabel(reason)})
}

// TickLatency records a tick's wall time in milliseconds.
func (m *Metrics) TickLatency(ms float32) {
	if m == nil || !m.enabled {
		return
	}
	gometrics.AddSample([]string{"cfd_oracle", "tick", "latency_ms"}, ms)
}

// BreakerTripped increments cfd_oracle.breaker.tripped.
func (m *Metrics) BreakerTripped() {
	if m == nil || !m.enabled {
		return
	}
	gometrics.IncrCounter([]string{"cfd_oracle", "breaker", "tripped"}, 1)
}
