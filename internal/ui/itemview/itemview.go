// Package itemview renders a single registry item as a list row.
//
// Each view subscribes to its item's broker and repaints from the event
// payload, never by polling the item. When the item is destroyed the view
// marks itself dead and the parent drops the row.
package itemview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"giftwell/internal/pubsub"
	"giftwell/internal/registry"
	"giftwell/internal/ui/styles"
)

// Model is the view state for one registry item.
type Model struct {
	item     *registry.Item
	attrs    registry.Attrs
	listener *pubsub.ContinuousListener[registry.ItemEvent]

	editing bool
	input   textinput.Model

	dead     bool
	currency string
}

// New creates a view bound to the given item. The subscription lives
// until ctx is cancelled or the item is destroyed.
func New(ctx context.Context, it *registry.Item, currency string) Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 120
	input.TextStyle = styles.EditInputStyle

	return Model{
		item:     it,
		attrs:    it.Snapshot(),
		listener: pubsub.NewContinuousListener(ctx, it.Events()),
		input:    input,
		currency: currency,
	}
}

// Init starts listening for the item's events.
func (m Model) Init() tea.Cmd {
	return m.listener.Listen()
}

// Item returns the bound registry item.
func (m Model) Item() *registry.Item { return m.item }

// GUID returns the bound item's identity, used by the parent to route
// event messages to the right row.
func (m Model) GUID() string { return m.item.GUID() }

// Dead reports that the item was destroyed and the row should be dropped.
func (m Model) Dead() bool { return m.dead }

// Editing reports whether the row is in title-edit mode.
func (m Model) Editing() bool { return m.editing }

// Update handles the item's pubsub events and, while editing, key input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pubsub.Event[registry.ItemEvent]:
		if msg.Payload.GUID != m.item.GUID() {
			return m, nil
		}
		switch msg.Type {
		case pubsub.DestroyedEvent:
			m.dead = true
			return m, nil
		case pubsub.ChangedEvent:
			m.attrs = msg.Payload.Attrs
		}
		return m, m.listener.Listen()

	case tea.KeyMsg:
		if !m.editing {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// StartEdit switches the row into title-edit mode seeded with the
// current title.
func (m Model) StartEdit() (Model, tea.Cmd) {
	m.editing = true
	m.input.SetValue(m.attrs.Title)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// StartEditBlank switches the row into title-edit mode with an empty
// input, used for freshly created items still carrying the placeholder
// title.
func (m Model) StartEditBlank() (Model, tea.Cmd) {
	m.editing = true
	m.input.SetValue("")
	return m, m.input.Focus()
}

// CommitEdit applies the edited title. A blank title destroys the item,
// matching the convention that erasing an entry removes it.
func (m Model) CommitEdit() Model {
	if !m.editing {
		return m
	}
	m.editing = false
	m.input.Blur()

	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		m.item.Destroy()
		return m
	}
	m.item.Set(registry.Patch{Title: registry.String(title)})
	return m
}

// CancelEdit leaves edit mode without applying changes.
func (m Model) CancelEdit() Model {
	m.editing = false
	m.input.Blur()
	return m
}

// View renders the row at the given width.
func (m Model) View(selected bool, width int) string {
	if width < 8 {
		width = 8
	}

	indicator := "  "
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render("> ")
	}

	checkbox := "[ ] "
	if m.attrs.Purchased {
		checkbox = "[x] "
	}

	if m.editing {
		m.input.Width = width - 8
		return indicator + checkbox + m.input.View()
	}

	price := styles.PriceStyle.Render(styles.FormatPrice(m.currency, m.attrs.Price))
	priceWidth := lipgloss.Width(price)

	// indicator(2) + checkbox(4) + gap(1) before the price
	titleWidth := width - 7 - priceWidth
	if titleWidth < 1 {
		titleWidth = 1
	}
	title := truncate.StringWithTail(m.attrs.Title, uint(titleWidth), "...")

	titleStyle := styles.TitleStyle
	if m.attrs.Purchased {
		titleStyle = styles.PurchasedTitleStyle
	}
	rendered := titleStyle.Render(title)

	gap := titleWidth - lipgloss.Width(title) + 1
	if gap < 1 {
		gap = 1
	}

	return fmt.Sprintf("%s%s%s%s%s", indicator, checkbox, rendered, strings.Repeat(" ", gap), price)
}

// Description returns the item's description markdown for the detail
// area, empty when the item has none.
func (m Model) Description() string {
	return m.attrs.Description
}

// Title returns the currently displayed title.
func (m Model) Title() string {
	return m.attrs.Title
}

// Purchased returns the currently displayed purchased flag.
func (m Model) Purchased() bool {
	return m.attrs.Purchased
}
