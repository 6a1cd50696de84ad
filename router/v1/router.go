package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// RegisterRoutes wires the read-only status endpoints operator dashboards
// and downstream signers poll: the last published mark, the
// last funding update, and the last consensus build's stats. It never
// triggers a tick; it only reads whatever Oracle currently holds.
func RegisterRoutes(r *mux.Router, o Oracle, logger zerolog.Logger) {
	h := &handler{oracle: o, logger: logger.With().Str("module", "router").Logger()}

	r.HandleFunc("/oracle/mark", h.getMark).Methods(http.MethodGet)
	r.HandleFunc("/oracle/funding", h.getFunding).Methods(http.MethodGet)
	r.HandleFunc("/oracle/stats", h.getStats).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.getHealth).Methods(http.MethodGet)
}

type handler struct {
	oracle Oracle
	logger zerolog.Logger
}

func (h *handler) getMark(w http.ResponseWriter, r *http.Request) {
	mark, ok := h.oracle.GetLastMark()
	if !ok {
		http.Error(w, "no mark published yet", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, mark)
}

func (h *handler) getFunding(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.oracle.GetLastFunding())
}

func (h *handler) getStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.oracle.GetLastStats())
}

func (h *handler) getHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
