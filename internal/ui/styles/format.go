package styles

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	// Need to truncate - leave room for ellipsis
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	return runewidth.Truncate(s, maxWidth, "...")
}

// FormatPrice renders a price with the given currency symbol.
// Zero prices render as a dash so unpriced items stay uncluttered.
func FormatPrice(currency string, price float64) string {
	if price == 0 {
		return "—"
	}
	if currency == "" {
		currency = "$"
	}
	return fmt.Sprintf("%s%.2f", currency, price)
}
