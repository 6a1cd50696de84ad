package monitor

import (
	"fmt"
	"time"
)

type ErrorType int

const (
	MarkMatch ErrorType = iota
	NoMarkPublished
	MarkStale
	LowConfidence
	WideDispersion
	BreakerTripped
	CrossCheckDeviated
	CrossCheckProviderDown
)

var criticalErrorTypes = map[ErrorType]struct{}{
	NoMarkPublished: {},
	MarkStale:       {},
	BreakerTripped:  {},
}

// PriceError is one watcher finding for a single tick of VerifyOracle. It
// is deduplicated by Key() across polls so Slack only gets one ONGOING
// message per incident rather than one per minute.
type PriceError struct {
	ErrorType  ErrorType
	Symbol     string
	Message    string
	occurredAt time.Time
}

func (pe PriceError) Key() string {
	return fmt.Sprintf("%d%s", pe.ErrorType, pe.Symbol)
}
