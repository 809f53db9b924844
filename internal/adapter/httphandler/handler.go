package httphandler

import (
	"bytes"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/pricecheck/internal/adapter/view"
	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/niksmo/pricecheck/internal/core/port"
	"github.com/niksmo/pricecheck/pkg/logger"
)

// GET /                                  search form
// GET /search?barcode=...                search form with results (HTML)
// GET /v1/products/barcode?barcode=...   results as JSON
//     200 OK, 400 Bad request, 404 Not found, 502 Bad gateway

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SearchHandler struct {
	searcher port.ProductSearcher
}

func RegisterSearch(mux *http.ServeMux, searcher port.ProductSearcher) {
	h := SearchHandler{searcher}
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /search", h.SearchPage)
	mux.HandleFunc("GET /v1/products/barcode", h.SearchJSON)
}

// RegisterProbes adds the liveness and metrics endpoints.
func RegisterProbes(mux *http.ServeMux, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func (h SearchHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, r, http.StatusOK, view.NewPage(domain.SearchState{}))
}

func (h SearchHandler) SearchPage(w http.ResponseWriter, r *http.Request) {
	state := h.searcher.Search(r.Context(), r.URL.Query().Get("barcode"))
	writeHTML(w, r, http.StatusOK, view.NewPage(state))
}

func (h SearchHandler) SearchJSON(w http.ResponseWriter, r *http.Request) {
	const op = "SearchHandler.SearchJSON"
	log := logger.FromContext(r.Context(), op)

	state := h.searcher.Search(r.Context(), r.URL.Query().Get("barcode"))

	b, err := json.Marshal(view.NewPage(state))
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		log.Error().Err(err).Msg("failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(phaseStatus(state.Phase))
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func phaseStatus(p domain.Phase) int {
	switch p {
	case domain.PhaseFound:
		return http.StatusOK
	case domain.PhaseEmpty:
		return http.StatusNotFound
	case domain.PhaseFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func writeHTML(w http.ResponseWriter, r *http.Request, status int, p view.Page) {
	const op = "httphandler.writeHTML"
	log := logger.FromContext(r.Context(), op)

	var buf bytes.Buffer
	if err := view.RenderHTML(&buf, p); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		log.Error().Err(err).Msg("failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}
