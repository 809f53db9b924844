package view

import (
	"fmt"

	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/niksmo/pricecheck/pkg/money"
)

// MaxVisibleTiers is how many price tiers a card lists one by one.
const MaxVisibleTiers = 3

type (
	// A Card is the display form of one product.
	Card struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		SKU           string `json:"sku"`
		Barcode       string `json:"barcode"`
		COGS          string `json:"cogs"`
		SellingPrice  string `json:"selling_price"`
		SellingPrice2 string `json:"selling_price_2,omitempty"`
		Stock         int    `json:"stock"`
		OutOfStock    bool   `json:"out_of_stock"`
		Tiers         []Tier `json:"price_tiers,omitempty"`
		HiddenTiers   int    `json:"hidden_tiers,omitempty"`
		MoreTiers     string `json:"more_tiers,omitempty"`
	}

	Tier struct {
		Qty   int    `json:"qty"`
		Price string `json:"price"`
	}
)

func NewCard(p domain.Product) Card {
	c := Card{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		COGS:         money.FormatIDR(p.COGS),
		SellingPrice: money.FormatIDR(p.SellingPrice),
		Stock:        p.Stock,
		OutOfStock:   p.OutOfStock(),
	}

	if p.SellingPrice2 != nil {
		c.SellingPrice2 = money.FormatIDR(*p.SellingPrice2)
	}

	visible := p.PriceTiers
	if len(visible) > MaxVisibleTiers {
		visible = visible[:MaxVisibleTiers]
		c.HiddenTiers = len(p.PriceTiers) - MaxVisibleTiers
		c.MoreTiers = fmt.Sprintf("+%d more tiers", c.HiddenTiers)
	}

	for _, t := range visible {
		c.Tiers = append(c.Tiers, Tier{
			Qty:   t.Qty,
			Price: money.FormatIDR(t.Price),
		})
	}

	return c
}

// NewCards keeps the order of ps.
func NewCards(ps []domain.Product) []Card {
	cards := make([]Card, len(ps))
	for i, p := range ps {
		cards[i] = NewCard(p)
	}
	return cards
}
