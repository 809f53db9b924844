package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText prints the page as plain-text cards.
func WriteText(w io.Writer, p Page) error {
	var b strings.Builder

	if p.Notice != nil {
		fmt.Fprintf(&b, "[%s] %s\n", p.Notice.Level, p.Notice.Text)
	}
	if p.Err != "" && (p.Notice == nil || p.Notice.Text != p.Err) {
		fmt.Fprintf(&b, "error: %s\n", p.Err)
	}

	for i, c := range p.Cards {
		b.WriteString("\n")
		writeCard(&b, i+1, c)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, n int, c Card) {
	fmt.Fprintf(b, "#%d %s\n", n, c.Name)

	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  SKU\t%s\n", c.SKU)
	fmt.Fprintf(tw, "  Barcode\t%s\n", c.Barcode)
	fmt.Fprintf(tw, "  COGS\t%s\n", c.COGS)
	fmt.Fprintf(tw, "  Price\t%s\n", c.SellingPrice)
	if c.SellingPrice2 != "" {
		fmt.Fprintf(tw, "  Price 2\t%s\n", c.SellingPrice2)
	}
	if c.OutOfStock {
		fmt.Fprintf(tw, "  Stock\t%d [out of stock]\n", c.Stock)
	} else {
		fmt.Fprintf(tw, "  Stock\t%d\n", c.Stock)
	}
	for _, t := range c.Tiers {
		fmt.Fprintf(tw, "  Tier\t>= %d: %s\n", t.Qty, t.Price)
	}
	if c.MoreTiers != "" {
		fmt.Fprintf(tw, "  \t%s\n", c.MoreTiers)
	}
	_ = tw.Flush()
}
