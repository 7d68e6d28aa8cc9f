package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "Curtains", 20, "Curtains"},
		{"exact fit", "Curtains", 8, "Curtains"},
		{"truncated", "20 Piece Flatware Set", 10, "20 Piec..."},
		{"tiny width", "Curtains", 2, ".."},
		{"zero width", "Curtains", 0, ""},
		{"empty input", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, TruncateString(tt.input, tt.maxWidth))
		})
	}
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "$25.95", FormatPrice("$", 25.95))
	require.Equal(t, "€99.99", FormatPrice("€", 99.99))
	require.Equal(t, "$49.99", FormatPrice("", 49.99), "empty currency falls back to dollars")
	require.Equal(t, "—", FormatPrice("$", 0), "zero price renders as a dash")
}
