package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/niksmo/pricecheck/internal/core/port"
	"github.com/niksmo/pricecheck/pkg/logger"
)

var _ port.ProductSearcher = (*Service)(nil)

type Service struct {
	finder   port.ProductFinder
	recorder port.SearchRecorder
}

// New returns a Service. A nil recorder disables search metrics.
func New(finder port.ProductFinder, recorder port.SearchRecorder) Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return Service{finder, recorder}
}

// Search runs one complete search cycle on a fresh state.
func (s Service) Search(ctx context.Context, barcode string) domain.SearchState {
	var state domain.SearchState

	barcode, err := normalize(barcode)
	if err != nil {
		state.Reject(err)
		return state
	}

	state.Begin(barcode)
	ps, err := s.find(ctx, barcode)
	state.Finish(ps, err)
	return state
}

func (s Service) find(
	ctx context.Context, barcode string,
) ([]domain.Product, error) {
	const op = "Service.find"
	log := logger.FromContext(ctx, op)

	start := time.Now()

	ps, err := s.lookup(ctx, barcode)

	elapsed := time.Since(start)
	switch {
	case err != nil:
		s.recorder.RecordSearch(domain.PhaseFailed, elapsed)
		log.Warn().Err(err).Str("barcode", barcode).Msg("search failed")
	case len(ps) == 0:
		s.recorder.RecordSearch(domain.PhaseEmpty, elapsed)
		log.Info().Str("barcode", barcode).Msg("no products found")
	default:
		s.recorder.RecordSearch(domain.PhaseFound, elapsed)
		log.Info().
			Str("barcode", barcode).
			Int("nProducts", len(ps)).
			Dur("elapsed", elapsed).
			Msg("products found")
	}

	return ps, err
}

func (s Service) lookup(
	ctx context.Context, barcode string,
) ([]domain.Product, error) {
	const op = "Service.lookup"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.finder.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func normalize(barcode string) (string, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return "", domain.ErrEmptyBarcode
	}
	return barcode, nil
}

type nopRecorder struct{}

func (nopRecorder) RecordSearch(domain.Phase, time.Duration) {}
