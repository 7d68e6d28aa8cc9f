package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_NotVisible(t *testing.T) {
	m := New()
	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m := New().Show("item saved", StyleSuccess)
	require.True(t, m.Visible())
	require.Contains(t, m.View(), "item saved")
	require.Contains(t, m.View(), "✅")
}

func TestShow_Styles(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		emoji string
	}{
		{"success", StyleSuccess, "✅"},
		{"error", StyleError, "❌"},
		{"info", StyleInfo, "ℹ️"},
		{"warn", StyleWarn, "⚠️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New().Show("message", tt.style)
			require.Contains(t, m.View(), tt.emoji)
		})
	}
}

func TestHide(t *testing.T) {
	m := New().Show("saved", StyleSuccess).Hide()
	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestOverlay_HiddenReturnsBackground(t *testing.T) {
	bg := "line one\nline two"
	require.Equal(t, bg, New().Overlay(bg, 40, 10))
}

func TestOverlay_PlacesToastNearBottom(t *testing.T) {
	m := New().Show("save failed", StyleError)
	bg := strings.Repeat("background line\n", 9) + "background line"

	out := m.Overlay(bg, 40, 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	require.Contains(t, out, "save failed")

	// The toast box is 3 rows tall, placed one row up from the bottom
	require.NotContains(t, lines[0], "save failed")
	require.Contains(t, lines[7], "save failed")
}

func TestOverlay_PreservesSurroundingBackground(t *testing.T) {
	m := New().Show("hi", StyleInfo)
	bg := strings.TrimSuffix(strings.Repeat("XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX\n", 10), "\n")

	out := m.Overlay(bg, 40, 10)
	lines := strings.Split(out, "\n")
	require.Contains(t, lines[0], "XXXX", "rows above the toast keep their content")
	require.True(t, strings.HasPrefix(lines[7], "X"), "background to the left of the toast survives")
}

func TestScheduleDismiss(t *testing.T) {
	cmd := ScheduleDismiss(time.Millisecond)
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, DismissMsg{}, msg)
}
