package cmd

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/autonom-labs/cfd-oracle/config"
)

const defaultHTTPTimeout = 10 * time.Second

// httpServer wraps the status API's net/http.Server so getStartCmd can run
// it alongside the oracle tick loop without blocking on it.
type httpServer struct {
	addr         string
	handler      http.Handler
	logger       zerolog.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newHTTPServer(cfg config.Server, handler http.Handler, logger zerolog.Logger) *httpServer {
	return &httpServer{
		addr:         cfg.ListenAddr,
		handler:      handler,
		logger:       logger,
		readTimeout:  parseTimeoutOrDefault(cfg.ReadTimeout),
		writeTimeout: parseTimeoutOrDefault(cfg.WriteTimeout),
	}
}

func parseTimeoutOrDefault(s string) time.Duration {
	if s == "" {
		return defaultHTTPTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultHTTPTimeout
	}
	return d
}

func (s *httpServer) run() {
	s.logger.Info().Str("addr", s.addr).Msg("starting status API")
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.handler,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error().Err(err).Msg("status API server stopped")
	}
}
