package v1

import (
	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

// Oracle defines the Oracle interface contract that the v1 router depends
// on. It is satisfied by *oracle.Oracle; the router only ever reads the
// last published state, never triggers a tick.
type Oracle interface {
	GetLastMark() (types.Mark, bool)
	GetLastFunding() types.FundingUpdate
	GetLastStats() types.ConsensusStats
}
