package port

import (
	"context"
	"time"

	"github.com/niksmo/pricecheck/internal/core/domain"
)

// A ProductFinder looks products up by barcode on the remote catalog.
type ProductFinder interface {
	FindByBarcode(ctx context.Context, barcode string) ([]domain.Product, error)
}

type ProductSearcher interface {
	Search(ctx context.Context, barcode string) domain.SearchState
}

type SearchRecorder interface {
	RecordSearch(phase domain.Phase, elapsed time.Duration)
}
