// Package money formats amounts for display.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR formats v as Indonesian rupiah without fractional digits,
// e.g. 50000 as "Rp 50.000". Halves round away from zero.
func FormatIDR(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "Rp -"
	}

	r := math.Round(v)
	digits := idPrinter.Sprint(
		number.Decimal(math.Abs(r), number.MaxFractionDigits(0)),
	)
	if r < 0 {
		return "-Rp " + digits
	}
	return "Rp " + digits
}
