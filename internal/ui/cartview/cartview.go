// Package cartview renders the cart pane: the registry items the user
// has picked, in the order they were added.
package cartview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"giftwell/internal/pubsub"
	"giftwell/internal/registry"
	"giftwell/internal/ui/styles"
)

// EmptyPlaceholder is shown when the cart holds nothing.
const EmptyPlaceholder = "no items in cart"

// Model is the view state for the cart pane.
type Model struct {
	cart     *registry.Cart
	listener *pubsub.ContinuousListener[registry.CollectionEvent]
	cursor   int
	currency string
}

// New creates a cart view subscribed to the cart's membership events.
func New(ctx context.Context, cart *registry.Cart, currency string) Model {
	return Model{
		cart:     cart,
		listener: pubsub.NewContinuousListener(ctx, cart.Events()),
		currency: currency,
	}
}

// Init starts listening for cart membership changes.
func (m Model) Init() tea.Cmd {
	return m.listener.Listen()
}

// Update reacts to membership events. Rows render from live item
// snapshots, so the event only needs to wake the render loop and keep
// the cursor in range.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(pubsub.Event[registry.CollectionEvent]); ok {
		m.clampCursor()
		return m, m.listener.Listen()
	}
	return m, nil
}

// CursorUp moves the selection up one row.
func (m Model) CursorUp() Model {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// CursorDown moves the selection down one row.
func (m Model) CursorDown() Model {
	if m.cursor < m.cart.Len()-1 {
		m.cursor++
	}
	return m
}

// Selected returns the item under the cursor, or nil when the cart is
// empty.
func (m Model) Selected() *registry.Item {
	items := m.cart.Items()
	if len(items) == 0 {
		return nil
	}
	i := m.cursor
	if i >= len(items) {
		i = len(items) - 1
	}
	return items[i]
}

// Len returns the number of cart rows.
func (m Model) Len() int {
	return m.cart.Len()
}

// Total returns the sum of the prices currently in the cart.
func (m Model) Total() float64 {
	var total float64
	m.cart.Each(func(it *registry.Item) {
		total += it.Snapshot().Price
	})
	return total
}

// View renders the cart rows, or the placeholder when empty.
func (m Model) View(focused bool, width int) string {
	items := m.cart.Items()
	if len(items) == 0 {
		return styles.PlaceholderStyle.Render(EmptyPlaceholder)
	}

	var b strings.Builder
	for i, it := range items {
		attrs := it.Snapshot()

		indicator := "  "
		if focused && i == m.cursor {
			indicator = styles.SelectionIndicatorStyle.Render("> ")
		}

		price := styles.PriceStyle.Render(styles.FormatPrice(m.currency, attrs.Price))
		titleWidth := width - 3 - lipgloss.Width(price)
		if titleWidth < 1 {
			titleWidth = 1
		}
		title := truncate.StringWithTail(attrs.Title, uint(titleWidth), "...")

		gap := titleWidth - lipgloss.Width(title) + 1
		if gap < 1 {
			gap = 1
		}

		b.WriteString(fmt.Sprintf("%s%s%s%s", indicator, styles.TitleStyle.Render(title), strings.Repeat(" ", gap), price))
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.SummaryStyle.Render(
		fmt.Sprintf("%d items · %s", len(items), styles.FormatPrice(m.currency, m.Total()))))
	return b.String()
}

func (m *Model) clampCursor() {
	if n := m.cart.Len(); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
}
