package service_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/niksmo/pricecheck/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductFinder struct {
	mock.Mock
}

func (f *MockProductFinder) FindByBarcode(
	ctx context.Context, barcode string,
) ([]domain.Product, error) {
	args := f.Called(ctx, barcode)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

type MockSearchRecorder struct {
	mock.Mock
}

func (r *MockSearchRecorder) RecordSearch(phase domain.Phase, elapsed time.Duration) {
	r.Called(phase, elapsed)
}

func testProducts() []domain.Product {
	price2 := 47500.0
	return []domain.Product{
		{
			ID:            1,
			Name:          "Indomie Goreng",
			SKU:           "IDM-001",
			Barcode:       "089686010947",
			COGS:          2800,
			SellingPrice:  3500,
			SellingPrice2: &price2,
			Stock:         120,
			PriceTiers:    []domain.PriceTier{{Qty: 10, Price: 3300}},
		},
		{
			ID:           2,
			Name:         "Indomie Soto",
			SKU:          "IDM-002",
			Barcode:      "089686010947",
			COGS:         2700,
			SellingPrice: 3400,
		},
	}
}

func TestServiceSearch(t *testing.T) {
	t.Run("BlankBarcode", func(t *testing.T) {
		for _, barcode := range []string{"", " ", "\t\n  "} {
			finder := new(MockProductFinder)
			s := service.New(finder, nil)

			state := s.Search(t.Context(), barcode)

			finder.AssertNotCalled(t, "FindByBarcode", mock.Anything, mock.Anything)
			require.NotNil(t, state.Notice)
			assert.Equal(t, domain.NoticeWarning, state.Notice.Level)
			assert.Equal(t, domain.ErrEmptyBarcode.Error(), state.Notice.Text)
			assert.Equal(t, domain.ErrEmptyBarcode.Error(), state.Err)
			assert.Equal(t, domain.PhaseIdle, state.Phase)
			assert.False(t, state.Loading)
		}
	})

	t.Run("Found", func(t *testing.T) {
		finder := new(MockProductFinder)
		recorder := new(MockSearchRecorder)
		ps := testProducts()
		finder.On("FindByBarcode", mock.Anything, "089686010947").Return(ps, nil)
		recorder.On("RecordSearch", domain.PhaseFound, mock.Anything).Return()

		s := service.New(finder, recorder)
		state := s.Search(t.Context(), "  089686010947 ")

		finder.AssertExpectations(t)
		recorder.AssertExpectations(t)
		assert.Equal(t, "089686010947", state.Barcode)
		assert.Equal(t, ps, state.Products)
		assert.Empty(t, state.Err)
		assert.False(t, state.Loading)
		assert.Equal(t, domain.PhaseFound, state.Phase)
		require.NotNil(t, state.Notice)
		assert.Equal(t, "Found 2 product(s)", state.Notice.Text)
	})

	t.Run("Empty", func(t *testing.T) {
		finder := new(MockProductFinder)
		finder.On("FindByBarcode", mock.Anything, "000").Return([]domain.Product{}, nil)

		state := service.New(finder, nil).Search(t.Context(), "000")

		assert.Empty(t, state.Products)
		assert.Equal(t, domain.ErrNoProducts.Error(), state.Err)
		assert.Equal(t, domain.PhaseEmpty, state.Phase)
		assert.False(t, state.Loading)
	})

	t.Run("StatusError", func(t *testing.T) {
		finder := new(MockProductFinder)
		finder.On("FindByBarcode", mock.Anything, "123").
			Return(nil, &domain.StatusError{Code: 503})

		state := service.New(finder, nil).Search(t.Context(), "123")

		assert.Contains(t, state.Err, "503")
		assert.Equal(t, domain.PhaseFailed, state.Phase)
		assert.Nil(t, state.Products)
		assert.False(t, state.Loading)
		require.NotNil(t, state.Notice)
		assert.Equal(t, domain.NoticeError, state.Notice.Level)
	})

	t.Run("TransportError", func(t *testing.T) {
		dialErr := &url.Error{
			Op:  "Get",
			URL: "http://127.0.0.1:42703/p?barcode=123",
			Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
		}
		finder := new(MockProductFinder)
		finder.On("FindByBarcode", mock.Anything, "123").
			Return(nil, fmt.Errorf("Client.FindByBarcode: %w", dialErr))

		state := service.New(finder, nil).Search(t.Context(), "123")

		assert.Equal(t, syscall.ECONNREFUSED.Error(), state.Err)
		assert.Equal(t, domain.PhaseFailed, state.Phase)
		require.NotNil(t, state.Notice)
		assert.Equal(t, state.Err, state.Notice.Text)
	})

	t.Run("DecodeError", func(t *testing.T) {
		parseErr := errors.New("readObjectStart: expect { or n, but found <")
		finder := new(MockProductFinder)
		finder.On("FindByBarcode", mock.Anything, "123").
			Return(nil, fmt.Errorf("Client.FindByBarcode: %w",
				fmt.Errorf("%w: %w", domain.ErrInvalidResponse, parseErr)))

		state := service.New(finder, nil).Search(t.Context(), "123")

		assert.Equal(t, domain.ErrInvalidResponse.Error(), state.Err)
		assert.Equal(t, domain.PhaseFailed, state.Phase)
	})

	t.Run("BlankErrorText", func(t *testing.T) {
		finder := new(MockProductFinder)
		finder.On("FindByBarcode", mock.Anything, "123").
			Return(nil, fmt.Errorf("Client.FindByBarcode: %w", errors.New("")))

		state := service.New(finder, nil).Search(t.Context(), "123")

		assert.Equal(t, domain.FallbackErrorMessage, state.Err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		finder := new(MockProductFinder)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		state := service.New(finder, nil).Search(ctx, "123")

		finder.AssertNotCalled(t, "FindByBarcode", mock.Anything, mock.Anything)
		assert.Equal(t, domain.PhaseFailed, state.Phase)
		assert.Equal(t, domain.ErrSearchCanceled.Error(), state.Err)
	})
}
