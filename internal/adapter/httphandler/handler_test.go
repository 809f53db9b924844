package httphandler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/pricecheck/internal/adapter/httphandler"
	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearcher struct {
	mock.Mock
}

func (s *MockSearcher) Search(ctx context.Context, barcode string) domain.SearchState {
	args := s.Called(ctx, barcode)
	return args.Get(0).(domain.SearchState)
}

type MockObserver struct {
	mock.Mock
}

func (o *MockObserver) ObserveRequest(
	method, route string, status int, elapsed time.Duration,
) {
	o.Called(method, route, status, elapsed)
}

func finished(barcode string, ps []domain.Product, err error) domain.SearchState {
	var s domain.SearchState
	s.Begin(barcode)
	s.Finish(ps, err)
	return s
}

func rejected() domain.SearchState {
	var s domain.SearchState
	s.Reject(domain.ErrEmptyBarcode)
	return s
}

func newHandler(searcher *MockSearcher) http.Handler {
	mux := http.NewServeMux()
	httphandler.RegisterSearch(mux, searcher)
	httphandler.RegisterProbes(mux, nil)
	return httphandler.RequestID(httphandler.Observe(mux, nil))
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchJSON(t *testing.T) {
	tests := []struct {
		name       string
		state      domain.SearchState
		wantStatus int
		wantBody   []string
	}{
		{
			name: "Found",
			state: finished("899", []domain.Product{
				{ID: 1, Name: "Gula 1kg", SellingPrice: 50000, Stock: 3},
			}, nil),
			wantStatus: http.StatusOK,
			wantBody: []string{
				`"status":"found"`,
				`"selling_price":"Rp 50.000"`,
				`"name":"Gula 1kg"`,
			},
		},
		{
			name:       "Empty",
			state:      finished("899", nil, nil),
			wantStatus: http.StatusNotFound,
			wantBody:   []string{`"status":"empty"`, domain.ErrNoProducts.Error()},
		},
		{
			name:       "Upstream",
			state:      finished("899", nil, &domain.StatusError{Code: 500}),
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{`"status":"failed"`, "status 500"},
		},
		{
			name:       "Blank",
			state:      rejected(),
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{`"level":"warning"`, `"error":"please enter a barcode"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(MockSearcher)
			searcher.On("Search", mock.Anything, "899").Return(tt.state)

			rec := serve(newHandler(searcher), "/v1/products/barcode?barcode=899")

			searcher.AssertExpectations(t)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			for _, s := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestSearchPage(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("Search", mock.Anything, "8 99").Return(finished("8 99",
		[]domain.Product{{Name: "Teh Botol", SellingPrice: 4000}}, nil))

	rec := serve(newHandler(searcher), "/search?barcode=8+99")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "Teh Botol")
	assert.Contains(t, rec.Body.String(), "Rp 4.000")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestIndex(t *testing.T) {
	searcher := new(MockSearcher)
	h := newHandler(searcher)

	rec := serve(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/search"`)
	searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)

	rec = serve(h, "/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProbes(t *testing.T) {
	rec := serve(newHandler(new(MockSearcher)), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRequestIDPropagated(t *testing.T) {
	h := newHandler(new(MockSearcher))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))
}

func TestObserveReportsRoute(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("Search", mock.Anything, "1").Return(finished("1", nil, nil))

	obs := new(MockObserver)
	obs.On("ObserveRequest", http.MethodGet, "GET /v1/products/barcode",
		http.StatusNotFound, mock.Anything).Return()

	mux := http.NewServeMux()
	httphandler.RegisterSearch(mux, searcher)
	h := httphandler.Observe(mux, obs)

	serve(h, "/v1/products/barcode?barcode=1")

	obs.AssertExpectations(t)
}

func TestAllowOrigins(t *testing.T) {
	mux := http.NewServeMux()
	httphandler.RegisterProbes(mux, nil)
	h := httphandler.AllowOrigins(mux, []string{"https://shop.example"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://shop.example",
		rec.Header().Get("Access-Control-Allow-Origin"))
}
