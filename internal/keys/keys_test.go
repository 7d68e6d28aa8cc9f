package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Assignments(t *testing.T) {
	k := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Up uses k and up", k.Up, []string{"k", "up"}},
		{"Down uses j and down", k.Down, []string{"j", "down"}},
		{"NewItem uses n", k.NewItem, []string{"n"}},
		{"Edit uses e", k.Edit, []string{"e"}},
		{"Toggle uses space and x", k.Toggle, []string{" ", "x"}},
		{"Delete uses d", k.Delete, []string{"d"}},
		{"AddToCart uses a", k.AddToCart, []string{"a"}},
		{"Refresh uses r", k.Refresh, []string{"r"}},
		{"ToggleAll uses shift+t", k.ToggleAll, []string{"T"}},
		{"ClearPurchased uses shift+c", k.ClearPurchased, []string{"C"}},
		{"SwitchPane uses tab", k.SwitchPane, []string{"tab"}},
		{"Quit uses q and ctrl+c", k.Quit, []string{"q", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestDefaultKeyMap_HelpText(t *testing.T) {
	k := DefaultKeyMap()

	for _, binding := range []key.Binding{
		k.Up, k.Down, k.NewItem, k.Edit, k.Toggle, k.Delete, k.AddToCart,
		k.Refresh, k.ToggleAll, k.ClearPurchased, k.SwitchPane, k.Help, k.Escape, k.Quit,
	} {
		help := binding.Help()
		require.NotEmpty(t, help.Key, "help key should not be empty")
		require.NotEmpty(t, help.Desc, "help description should not be empty")
	}
}

func TestFullHelp_CoversAllGroups(t *testing.T) {
	k := DefaultKeyMap()
	groups := k.FullHelp()
	require.Len(t, groups, 4)
	for _, group := range groups {
		require.NotEmpty(t, group)
	}
}

func TestShortHelp(t *testing.T) {
	k := DefaultKeyMap()
	short := k.ShortHelp()
	require.Len(t, short, 2)
}
