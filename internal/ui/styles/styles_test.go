package styles

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Pin the color profile so rendered output is stable across terminals
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestApplyTheme_OverridesAccent(t *testing.T) {
	original := AccentColor
	t.Cleanup(func() {
		AccentColor = original
	})

	ApplyTheme("#FF00FF", "", "", "")

	require.Equal(t, "#FF00FF", AccentColor.Dark)
	require.Equal(t, "#FF00FF", AccentColor.Light)
}

func TestApplyTheme_EmptyValuesLeaveDefaults(t *testing.T) {
	original := AccentColor

	ApplyTheme("", "", "", "")

	require.Equal(t, original, AccentColor)
}

func TestForceMode_SetsBackground(t *testing.T) {
	ForceMode("dark")
	require.True(t, lipgloss.HasDarkBackground())

	ForceMode("light")
	require.False(t, lipgloss.HasDarkBackground())
}

func TestPurchasedTitleStyle_Strikethrough(t *testing.T) {
	require.True(t, PurchasedTitleStyle.GetStrikethrough())
}
