package httphandler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/niksmo/pricecheck/pkg/logger"
)

type HTTPServer struct {
	httpServer *http.Server
}

// NewHTTPServer bounds every request with timeout, 5s when zero.
func NewHTTPServer(
	addr string, handler http.Handler, timeout time.Duration,
) HTTPServer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	handler = http.TimeoutHandler(handler, timeout, "unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := logger.Op(op)

	defer stopFn()
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server is listening")
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error().Err(err).Msg("unexpected servers shutdown")
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := logger.Op(op)

	log.Info().Msg("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to shutdown gracefully")
	}
	log.Info().Msg("http server is closed")
}
