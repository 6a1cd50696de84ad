package oracle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

// collectQuotes fans out to every provider concurrently via errgroup. A
// provider error never aborts the group; it is logged and that provider
// simply contributes no quote this tick. Non-finite and non-positive
// prices are dropped again here in case a provider's own validation has
// a gap. attempted is how many providers were asked, for the caller's
// abort log.
func (o *Oracle) collectQuotes(ctx context.Context) (fresh []types.Quote, attempted int) {
	now := time.Now().UnixMilli()

	var mu sync.Mutex
	quotes := make([]types.Quote, 0, len(o.providers))

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range o.providers {
		p := p
		g.Go(func() error {
			q, err := p.Latest(gctx, o.cfg.Symbol)
			if err != nil {
				o.logger.Debug().Err(err).Str("provider", string(p.Name())).Msg("cfd provider error")
				o.metrics.QuoteDropped("provider_error")
				return nil
			}
			if !isFinitePositive(q.Price) {
				o.logger.Debug().Str("provider", string(p.Name())).Msg("cfd provider returned non-finite or non-positive price")
				o.metrics.QuoteDropped("invalid_price")
				return nil
			}

			mu.Lock()
			quotes = append(quotes, q)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return filterFresh(quotes, now, derivedStalenessMs(o.cfg.CfdTauMs)), len(o.providers)
}
