package barcodeapi

import (
	"bytes"
	"fmt"
	"math"

	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/spf13/cast"
)

type (
	productsResponse struct {
		Status   string    `json:"status"`
		Products []product `json:"products"`
	}

	product struct {
		ID            integer     `json:"id"`
		Name          string      `json:"name"`
		SKU           string      `json:"sku"`
		Barcode       string      `json:"barcode"`
		COGS          number      `json:"cogs"`
		SellingPrice  number      `json:"selling_price"`
		SellingPrice2 number      `json:"selling_price_2"`
		Stock         integer     `json:"stock"`
		PriceTiers    []priceTier `json:"price_tiers"`
	}

	priceTier struct {
		Qty   integer `json:"qty"`
		Price number  `json:"price"`
	}
)

// A number accepts JSON numbers and numeric strings. Null and the empty
// string leave it unset.
type number struct {
	v  float64
	ok bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	raw, null := unquote(b)
	if null {
		*n = number{}
		return nil
	}

	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", b, err)
	}
	*n = number{v: v, ok: true}
	return nil
}

type integer int64

func (i *integer) UnmarshalJSON(b []byte) error {
	raw, null := unquote(b)
	if null {
		*i = 0
		return nil
	}

	if v, err := cast.ToInt64E(raw); err == nil {
		*i = integer(v)
		return nil
	}

	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", b, err)
	}

	const limit = 1 << 63
	r := math.Round(v)
	if math.IsNaN(r) || r < -limit || r >= limit {
		return fmt.Errorf("integer %s out of range", b)
	}
	*i = integer(r)
	return nil
}

func unquote(b []byte) (raw string, null bool) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return "", true
	}
	b = bytes.Trim(b, `"`)
	b = bytes.TrimSpace(b)
	return string(b), len(b) == 0
}

func (r productsResponse) toDomain() []domain.Product {
	ps := make([]domain.Product, 0, len(r.Products))
	for _, p := range r.Products {
		ps = append(ps, p.toDomain())
	}
	return ps
}

func (p product) toDomain() domain.Product {
	dp := domain.Product{
		ID:           int64(p.ID),
		Name:         p.Name,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		COGS:         p.COGS.v,
		SellingPrice: p.SellingPrice.v,
		Stock:        max(int(p.Stock), 0),
	}

	if p.SellingPrice2.ok {
		v := p.SellingPrice2.v
		dp.SellingPrice2 = &v
	}

	if len(p.PriceTiers) != 0 {
		dp.PriceTiers = make([]domain.PriceTier, len(p.PriceTiers))
		for i, t := range p.PriceTiers {
			dp.PriceTiers[i] = domain.PriceTier{
				Qty:   int(t.Qty),
				Price: t.Price.v,
			}
		}
	}

	return dp
}
