package domain

type (
	Product struct {
		ID            int64
		Name          string
		SKU           string
		Barcode       string
		COGS          float64
		SellingPrice  float64
		SellingPrice2 *float64
		Stock         int
		PriceTiers    []PriceTier
	}

	// A PriceTier is the unit price applied from Qty items on.
	PriceTier struct {
		Qty   int
		Price float64
	}
)

func (p Product) OutOfStock() bool {
	return p.Stock == 0
}
