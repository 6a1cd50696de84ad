package provider

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

// OwninjaCfd is a deterministic-ish bounded random-walk mock, useful as a
// second consensus peer in local and development runs when no second live
// vendor is wired. State lives on the instance, guarded by its own mutex,
// rather than a package-level singleton, so two Oracle instances in the
// same process never share a price path.
type OwninjaCfd struct {
	mu    sync.Mutex
	price float64
	rng   *rand.Rand
}

// NewOwninjaCfd starts the walk at startPrice.
func NewOwninjaCfd(startPrice float64) *OwninjaCfd {
	if startPrice <= 0 {
		startPrice = 0.907
	}
	return &OwninjaCfd{
		price: startPrice,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *OwninjaCfd) Name() types.ProviderName { return NameOwninja }

func (p *OwninjaCfd) Latest(ctx context.Context, _ string) (types.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	shock := p.rng.Float64()*0.0012 - 0.0006 + 0.00002
	p.price = math.Max(p.price*(1.0+shock), 0.1)

	return types.Quote{
		Source: types.SourceOwninja,
		Price:  p.price,
		TsMs:   time.Now().UnixMilli(),
	}, nil
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
