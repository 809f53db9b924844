package httphandler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/pricecheck/pkg/logger"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const requestIDHeader = "X-Request-Id"

type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestID propagates the caller's X-Request-Id or assigns a new one.
func RequestID(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

// Observe logs every request and reports it to obs. It must wrap the mux
// directly so the matched route pattern is visible.
func Observe(next http.Handler, obs RequestObserver) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "httphandler.Observe"

		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		if obs != nil {
			obs.ObserveRequest(r.Method, route, rw.status, elapsed)
		}

		log := logger.FromContext(r.Context(), op)
		ev := log.Info()
		switch {
		case rw.status >= 500:
			ev = log.Error()
		case rw.status >= 400:
			ev = log.Warn()
		}
		ev.
			Str("method", r.Method).
			Str("route", route).
			Str("query", r.URL.RawQuery).
			Int("status", rw.status).
			Dur("duration", elapsed).
			Msg("request served")
	}
	return http.HandlerFunc(hf)
}

// AllowOrigins applies CORS for read-only cross-origin callers of the API.
func AllowOrigins(next http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return next
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(next)
}

// Trace starts a server span per request.
func Trace(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "pricecheck",
		otelhttp.WithSpanNameFormatter(
			func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			},
		),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
