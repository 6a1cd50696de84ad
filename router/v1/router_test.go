package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

type stubOracle struct {
	mark    types.Mark
	hasMark bool
	funding types.FundingUpdate
	stats   types.ConsensusStats
}

func (s stubOracle) GetLastMark() (types.Mark, bool)     { return s.mark, s.hasMark }
func (s stubOracle) GetLastFunding() types.FundingUpdate { return s.funding }
func (s stubOracle) GetLastStats() types.ConsensusStats  { return s.stats }

func newTestRouter(o Oracle) *mux.Router {
	r := mux.NewRouter()
	RegisterRoutes(r, o, zerolog.Nop())
	return r
}

func TestGetMarkReturnsPublishedMark(t *testing.T) {
	o := stubOracle{mark: types.Mark{Symbol: "WTI", Price: 82.5}, hasMark: true}
	r := newTestRouter(o)

	req := httptest.NewRequest(http.MethodGet, "/oracle/mark", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got types.Mark
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "WTI", got.Symbol)
	require.Equal(t, 82.5, got.Price)
}

func TestGetMarkReturns503BeforeFirstTick(t *testing.T) {
	o := stubOracle{hasMark: false}
	r := newTestRouter(o)

	req := httptest.NewRequest(http.MethodGet, "/oracle/mark", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetFundingReturnsLastUpdate(t *testing.T) {
	o := stubOracle{funding: types.FundingUpdate{Symbol: "WTI-PERP", Rate: 0.001}}
	r := newTestRouter(o)

	req := httptest.NewRequest(http.MethodGet, "/oracle/funding", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got types.FundingUpdate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "WTI-PERP", got.Symbol)
}

func TestGetHealthAlwaysOk(t *testing.T) {
	r := newTestRouter(stubOracle{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
