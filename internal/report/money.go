// =============================================================================
// Kebab Dashboard - Money Formatting
// =============================================================================
//
// Amounts are shown in the shop's locale: "Rp" prefix, "." thousands
// separator, "," decimal separator, two decimals only when the amount has
// cents.
//
//   20000    -> Rp 20.000
//   1250.5   -> Rp 1.250,50
//   -3000    -> -Rp 3.000
//
// =============================================================================

package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as rupiah: "Rp 20.000", "Rp 1.250,50".
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	rounded := d.Round(2)
	whole := rounded.Truncate(0)

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("Rp ")
	b.WriteString(groupThousands(whole.String()))

	if !rounded.Equal(whole) {
		fixed := rounded.StringFixed(2)
		b.WriteByte(',')
		b.WriteString(fixed[len(fixed)-2:])
	}

	return b.String()
}

// FormatUnitPrice renders a derived unit price. Non-finite values (from a
// zero quantity) are shown as-is rather than hidden.
func FormatUnitPrice(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return FormatMoney(decimal.NewFromFloat(f))
}

// UnitPrice divides a line total by its quantity in floating point.
func UnitPrice(total decimal.Decimal, quantity int) float64 {
	return total.InexactFloat64() / float64(quantity)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
