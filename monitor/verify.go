package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/autonom-labs/cfd-oracle/oracle"
	"github.com/autonom-labs/cfd-oracle/oracle/provider"
	"github.com/autonom-labs/cfd-oracle/util"
)

const (
	maxCoeficientOfVariation = 0.75
	staleMarkThreshold       = 2 * time.Minute
	lowConfidenceThreshold   = 0.5
	wideDispersionBps        = 150
)

// VerifyOracle watches an Oracle's own published state for anomalies and,
// when crossCheck is non-nil, cross-checks the last mark against an
// independent provider poll the same way the upstream coefficient-of-
// variation check compared an oracle price against an external API.
func VerifyOracle(o *oracle.Oracle, symbol string, crossCheck provider.CfdProvider) []PriceError {
	var priceErrors []PriceError

	mark, ok := o.GetLastMark()
	if !ok {
		return []PriceError{{
			ErrorType:  NoMarkPublished,
			Symbol:     symbol,
			occurredAt: time.Now(),
			Message:    fmt.Sprintf("FAIL %s no mark has been published yet", symbol),
		}}
	}

	age := time.Since(time.UnixMilli(mark.TsMs))
	if age > staleMarkThreshold {
		priceErrors = append(priceErrors, PriceError{
			ErrorType:  MarkStale,
			Symbol:     symbol,
			occurredAt: time.Now(),
			Message:    fmt.Sprintf("FAIL %s last mark is %s old", symbol, age.Round(time.Second)),
		})
	}

	stats := o.GetLastStats()
	if stats.Confidence < lowConfidenceThreshold {
		priceErrors = append(priceErrors, PriceError{
			ErrorType:  LowConfidence,
			Symbol:     symbol,
			occurredAt: time.Now(),
			Message:    fmt.Sprintf("FAIL %s consensus confidence %.2f below %.2f", symbol, stats.Confidence, lowConfidenceThreshold),
		})
	}
	if stats.SpreadBps > wideDispersionBps {
		priceErrors = append(priceErrors, PriceError{
			ErrorType:  WideDispersion,
			Symbol:     symbol,
			occurredAt: time.Now(),
			Message:    fmt.Sprintf("FAIL %s provider spread %d bps above %d", symbol, stats.SpreadBps, wideDispersionBps),
		})
	}

	if crossCheck != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		q, err := crossCheck.Latest(ctx, symbol)
		if err != nil {
			priceErrors = append(priceErrors, PriceError{
				ErrorType:  CrossCheckProviderDown,
				Symbol:     symbol,
				occurredAt: time.Now(),
				Message:    fmt.Sprintf("SKIP %s cross-check provider unavailable: %s", symbol, err.Error()),
			})
		} else {
			cv := util.CalcCoeficientOfVariation([]float64{mark.Price, q.Price})
			if cv > maxCoeficientOfVariation {
				priceErrors = append(priceErrors, PriceError{
					ErrorType:  CrossCheckDeviated,
					Symbol:     symbol,
					occurredAt: time.Now(),
					Message: fmt.Sprintf(
						"FAIL %s deviated mark: %f, cross-check price: %f, variation: %f%% > %f%%",
						symbol, mark.Price, q.Price, cv, maxCoeficientOfVariation,
					),
				})
			}
		}
	}

	if len(priceErrors) == 0 {
		priceErrors = append(priceErrors, PriceError{
			ErrorType:  MarkMatch,
			Symbol:     symbol,
			occurredAt: time.Now(),
			Message:    fmt.Sprintf("PASS %s mark=%f confidence=%.2f spread_bps=%d", symbol, mark.Price, stats.Confidence, stats.SpreadBps),
		})
	}
	return priceErrors
}
