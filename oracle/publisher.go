package oracle

import (
	"context"
	"fmt"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

// Publisher is the sink for published marks and funding updates. A tick
// never rolls back on a publish error; the oracle logs and moves on.
type Publisher interface {
	PublishIndex(ctx context.Context, mark types.Mark) error
	PublishFunding(ctx context.Context, funding types.FundingUpdate) error
}

// StdoutPublisher is the reference Publisher: it writes the exact line
// formats a downstream signer or operator dashboard can grep for.
type StdoutPublisher struct{}

func (StdoutPublisher) PublishIndex(_ context.Context, mark types.Mark) error {
	fmt.Printf(
		"[INDEX] %s %ge%d @%d src=%s twap=%ds\n",
		mark.Symbol, mark.Price, mark.Expo, mark.TsMs, mark.Source, mark.WindowSec,
	)
	return nil
}

func (StdoutPublisher) PublishFunding(_ context.Context, funding types.FundingUpdate) error {
	fmt.Printf(
		"[FUNDING] %s rate=%g interval=%ds @%d\n",
		funding.Symbol, funding.Rate, funding.IntervalSec, funding.TsMs,
	)
	return nil
}
