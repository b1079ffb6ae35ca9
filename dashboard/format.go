package dashboard

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// crore is the KPI divisor for large rupee amounts (1 Cr = 1e7).
var crore = decimal.NewFromInt(10_000_000)

var thousand = decimal.NewFromInt(1000)

// FormatPercent renders a percentage with a fixed number of decimals.
func FormatPercent(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v)
}

// FormatCount renders an integer with comma separators.
func FormatCount(n int) string {
	return groupDigits(fmt.Sprintf("%d", n))
}

// FormatCurrency renders a rupee amount to whole units with comma separators.
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	return "₹" + groupDigits(d.String())
}

// FormatCrore renders a rupee amount in crores (ten-millions) to two
// decimals, e.g. "₹12.34 Cr".
func FormatCrore(v float64) string {
	d := decimal.NewFromFloat(v).DivRound(crore, 2)
	return fmt.Sprintf("₹%s Cr", d.StringFixed(2))
}

// FormatThousands renders a value scaled to thousands, e.g. "5.20K".
func FormatThousands(v float64) string {
	d := decimal.NewFromFloat(v).DivRound(thousand, 2)
	return d.StringFixed(2) + "K"
}

// groupDigits inserts comma separators into a decimal integer string.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}
	if neg {
		s = "-" + s
	}
	return s
}
