// Package app contains the root application model: the registry pane,
// the cart pane, and the plumbing that keeps both in sync with the
// domain objects through pubsub events.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"giftwell/internal/config"
	"giftwell/internal/keys"
	"giftwell/internal/log"
	"giftwell/internal/pubsub"
	"giftwell/internal/registry"
	"giftwell/internal/ui/cartview"
	"giftwell/internal/ui/itemview"
	"giftwell/internal/ui/markdown"
	"giftwell/internal/ui/styles"
	"giftwell/internal/ui/toaster"
	"giftwell/internal/watcher"
)

// Pane identifies which side of the split has focus.
type Pane int

const (
	// PaneRegistry focuses the registry list.
	PaneRegistry Pane = iota
	// PaneCart focuses the cart.
	PaneCart
)

// registryEventMsg wraps collection broker events so they cannot be
// confused with the cart's events, which share the same payload type.
type registryEventMsg struct {
	event pubsub.Event[registry.CollectionEvent]
}

// dbChangedMsg signals that another process wrote the database.
type dbChangedMsg struct{}

// Model is the root application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg  config.Config
	keys keys.KeyMap

	collection *registry.Collection
	cart       *registry.Cart

	rows     []itemview.Model
	cartView cartview.Model
	cursor   int
	pane     Pane

	collListener *pubsub.ContinuousListener[registry.CollectionEvent]
	failListener *pubsub.ContinuousListener[registry.StoreFailure]

	toaster  toaster.Model
	helpView help.Model
	showHelp bool

	md *markdown.Renderer

	watcherHandle *watcher.Watcher
	watcherCh     <-chan struct{}

	refreshed bool
	width     int
	height    int
}

// New creates the application model around an already-loaded collection.
// The watcher is optional; when nil, external changes are picked up only
// on manual refresh.
func New(cfg config.Config, collection *registry.Collection, w *watcher.Watcher) Model {
	ctx, cancel := context.WithCancel(context.Background())

	cart := registry.NewCart(ctx)

	md, err := markdown.New(60, cfg.UI.MarkdownStyle)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown renderer init failed", err)
		md = nil
	}

	var watcherCh <-chan struct{}
	if w != nil {
		ch, err := w.Start()
		if err != nil {
			log.ErrorErr(log.CatWatcher, "watcher start failed, auto-refresh disabled", err)
			_ = w.Stop()
			w = nil
		} else {
			watcherCh = ch
		}
	}

	m := Model{
		ctx:           ctx,
		cancel:        cancel,
		cfg:           cfg,
		keys:          keys.DefaultKeyMap(),
		collection:    collection,
		cart:          cart,
		cartView:      cartview.New(ctx, cart, cfg.UI.Currency),
		collListener:  pubsub.NewContinuousListener(ctx, collection.Events()),
		failListener:  pubsub.NewContinuousListener(ctx, collection.Failures()),
		toaster:       toaster.New(),
		helpView:      help.New(),
		md:            md,
		watcherHandle: w,
		watcherCh:     watcherCh,
	}
	m.rows = m.buildRows(nil)
	return m
}

// Init starts the event listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.listenRegistry(),
		m.failListener.Listen(),
		m.cartView.Init(),
	}
	for _, row := range m.rows {
		cmds = append(cmds, row.Init())
	}
	if m.watcherCh != nil {
		cmds = append(cmds, watchCmd(m.ctx, m.watcherCh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpView.Width = msg.Width
		return m, nil

	case registryEventMsg:
		return m.handleRegistryEvent(msg.event)

	case pubsub.Event[registry.ItemEvent]:
		return m.routeItemEvent(msg)

	case pubsub.Event[registry.CollectionEvent]:
		// Cart membership changes
		var cmd tea.Cmd
		m.cartView, cmd = m.cartView.Update(msg)
		return m, cmd

	case pubsub.Event[registry.StoreFailure]:
		m.toaster = m.toaster.Show(
			fmt.Sprintf("%s failed: %v", msg.Payload.Op, msg.Payload.Err),
			toaster.StyleError)
		return m, tea.Batch(m.failListener.Listen(), toaster.ScheduleDismiss(4*time.Second))

	case dbChangedMsg:
		log.Debug(log.CatWatcher, "database changed on disk, reloading")
		m.collection.Flush()
		m.collection.Load(m.ctx)
		return m, watchCmd(m.ctx, m.watcherCh)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes key presses, giving an in-progress title edit
// precedence over global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if row := m.selectedRow(); row != nil && row.Editing() {
		switch msg.String() {
		case "enter":
			m.rows[m.cursor] = row.CommitEdit()
			return m, nil
		case "esc":
			m.rows[m.cursor] = row.CancelEdit()
			return m, nil
		default:
			updated, cmd := row.Update(msg)
			m.rows[m.cursor] = updated
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.collection.Flush()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.SwitchPane):
		if m.pane == PaneRegistry {
			m.pane = PaneCart
		} else {
			m.pane = PaneRegistry
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.pane == PaneCart {
			m.cartView = m.cartView.CursorUp()
		} else if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.pane == PaneCart {
			m.cartView = m.cartView.CursorDown()
		} else if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.NewItem):
		return m.newItem()

	case key.Matches(msg, m.keys.Edit):
		if m.pane == PaneRegistry {
			if row := m.selectedRow(); row != nil {
				var cmd tea.Cmd
				m.rows[m.cursor], cmd = row.StartEdit()
				return m, cmd
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if it := m.selectedItem(); it != nil {
			it.Toggle()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()

	case key.Matches(msg, m.keys.AddToCart):
		return m.addSelectedToCart()

	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()

	case key.Matches(msg, m.keys.ToggleAll):
		m.toggleAll()
		return m, nil

	case key.Matches(msg, m.keys.ClearPurchased):
		// Snapshot once; destroying mutates the membership
		for _, it := range m.collection.Done() {
			it.Destroy()
		}
		return m, nil
	}

	return m, nil
}

// newItem creates an item with the placeholder title and opens a blank
// title edit so the first keystrokes name it.
func (m Model) newItem() (tea.Model, tea.Cmd) {
	it, err := m.collection.Create(registry.Patch{})
	if err != nil {
		m.toaster = m.toaster.Show(fmt.Sprintf("create failed: %v", err), toaster.StyleError)
		return m, toaster.ScheduleDismiss(4 * time.Second)
	}

	m.rows = m.buildRows(m.rows)
	for i, row := range m.rows {
		if row.GUID() == it.GUID() {
			m.cursor = i
			var cmd tea.Cmd
			m.rows[i], cmd = row.StartEditBlank()
			m.pane = PaneRegistry
			return m, tea.Batch(cmd, m.rows[i].Init())
		}
	}
	return m, nil
}

// deleteSelected destroys the item in the registry pane, or detaches it
// in the cart pane. Detaching never destroys: the item stays in the
// registry.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	if m.pane == PaneCart {
		if it := m.cartView.Selected(); it != nil {
			m.cart.Detach(it)
		}
		return m, nil
	}
	if it := m.selectedItem(); it != nil {
		it.Destroy()
	}
	return m, nil
}

func (m Model) addSelectedToCart() (tea.Model, tea.Cmd) {
	it := m.selectedItem()
	if it == nil {
		return m, nil
	}
	if err := m.cart.Put(it); err != nil {
		m.toaster = m.toaster.Show("already in cart", toaster.StyleInfo)
		return m, toaster.ScheduleDismiss(2 * time.Second)
	}
	return m, nil
}

// refresh reloads the registry from storage. The first refresh of a
// session also drops in the quilt promo item.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	if !m.refreshed {
		m.refreshed = true
		_, err := m.collection.Create(registry.Patch{
			Title:       registry.String("Mudhut™ Hope Reversible Quilt Set Full/Queen"),
			Description: registry.String("Machine washable, reversible quilt with two standard shams."),
			Price:       registry.Float(89.99),
		})
		if err != nil {
			log.ErrorErr(log.CatRegistry, "refresh item create failed", err)
		}
		return m, nil
	}
	// Flush so in-flight writes are not lost to the reload
	m.collection.Flush()
	m.collection.Load(m.ctx)
	return m, nil
}

// toggleAll drives every item to the same purchased state, decided once
// before any item changes: if everything is purchased, un-purchase all,
// otherwise purchase all.
func (m *Model) toggleAll() {
	items := m.collection.Items()
	if len(items) == 0 {
		return
	}
	target := false
	for _, it := range items {
		if !it.Snapshot().Purchased {
			target = true
			break
		}
	}
	for _, it := range items {
		if it.Snapshot().Purchased != target {
			it.Set(registry.Patch{Purchased: registry.Bool(target)})
		}
	}
}

// handleRegistryEvent reacts to collection added/reset events by
// syncing the row views with the membership.
func (m Model) handleRegistryEvent(event pubsub.Event[registry.CollectionEvent]) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch event.Type {
	case pubsub.AddedEvent, pubsub.ResetEvent:
		known := make(map[string]bool, len(m.rows))
		for _, row := range m.rows {
			known[row.GUID()] = true
		}
		m.rows = m.buildRows(m.rows)
		for _, row := range m.rows {
			if !known[row.GUID()] {
				cmds = append(cmds, row.Init())
			}
		}
		m.clampCursor()
	}

	cmds = append(cmds, m.listenRegistry())
	return m, tea.Batch(cmds...)
}

// routeItemEvent forwards an item's event to its row. Rows whose item
// was destroyed are dropped.
func (m Model) routeItemEvent(event pubsub.Event[registry.ItemEvent]) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i, row := range m.rows {
		if row.GUID() != event.Payload.GUID {
			continue
		}
		updated, cmd := row.Update(event)
		if updated.Dead() {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			m.clampCursor()
		} else {
			m.rows[i] = updated
		}
		cmds = append(cmds, cmd)
		break
	}
	return m, tea.Batch(cmds...)
}

// buildRows maps the collection's current membership to row views,
// reusing existing rows so editing state and subscriptions survive.
func (m Model) buildRows(prev []itemview.Model) []itemview.Model {
	byGUID := make(map[string]itemview.Model, len(prev))
	for _, row := range prev {
		byGUID[row.GUID()] = row
	}

	items := m.collection.Items()
	rows := make([]itemview.Model, 0, len(items))
	for _, it := range items {
		if row, ok := byGUID[it.GUID()]; ok {
			rows = append(rows, row)
			continue
		}
		rows = append(rows, itemview.New(m.ctx, it, m.cfg.UI.Currency))
	}
	return rows
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) && len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
	if len(m.rows) == 0 {
		m.cursor = 0
	}
}

func (m Model) selectedRow() *itemview.Model {
	if m.pane != PaneRegistry || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m Model) selectedItem() *registry.Item {
	if row := m.selectedRow(); row != nil {
		return row.Item()
	}
	return nil
}

// listenRegistry waits for the next collection event, wrapped so cart
// events stay distinguishable.
func (m Model) listenRegistry() tea.Cmd {
	inner := m.collListener.Listen()
	return func() tea.Msg {
		msg := inner()
		if event, ok := msg.(pubsub.Event[registry.CollectionEvent]); ok {
			return registryEventMsg{event: event}
		}
		return nil
	}
}

// watchCmd waits for the next debounced database change signal.
func watchCmd(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return dbChangedMsg{}
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	registryWidth := width * 3 / 5
	cartWidth := width - registryWidth - 2

	registryPane := m.registryPane(registryWidth - 4)
	cartPane := m.cartPane(cartWidth - 4)

	registryStyle := styles.PaneStyle
	cartStyle := styles.PaneStyle
	if m.pane == PaneRegistry {
		registryStyle = styles.PaneFocusedStyle
	} else {
		cartStyle = styles.PaneFocusedStyle
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top,
		registryStyle.Width(registryWidth-2).Render(registryPane),
		cartStyle.Width(cartWidth).Render(cartPane),
	)

	footer := m.helpView.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		footer = m.helpView.FullHelpView(m.keys.FullHelp())
	}
	view = lipgloss.JoinVertical(lipgloss.Left, view, styles.StatusBarStyle.Render(footer))

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, width, height)
	}
	return view
}

// registryPane renders the item list, summary, and the selected item's
// description.
func (m Model) registryPane(width int) string {
	title := styles.PaneTitleStyle.Render("Registry")

	var body string
	if len(m.rows) == 0 {
		body = styles.PlaceholderStyle.Render(registry.DefaultTitle)
	} else {
		lines := make([]string, len(m.rows))
		for i, row := range m.rows {
			lines[i] = row.View(m.pane == PaneRegistry && i == m.cursor, width)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	sections := []string{title, body}

	if m.cfg.UI.ShowSummary {
		sections = append(sections, "", m.summaryLine())
	}

	if row := m.selectedRow(); row != nil && row.Description() != "" && m.md != nil {
		if rendered, err := m.md.Render(row.Description()); err == nil {
			sections = append(sections, "", styles.DescriptionStyle.Render(rendered))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) cartPane(width int) string {
	title := styles.PaneTitleStyle.Render("Cart")
	return lipgloss.JoinVertical(lipgloss.Left, title,
		m.cartView.View(m.pane == PaneCart, width))
}

// summaryLine reports remaining and purchased counts, the running total
// of un-purchased items, and the all-purchased checkbox state that the
// toggle-all action reads.
func (m Model) summaryLine() string {
	remaining := m.collection.Remaining()
	done := m.collection.Done()

	var total float64
	for _, it := range remaining {
		total += it.Snapshot().Price
	}

	allBox := "[ ]"
	if len(remaining) == 0 && len(done) > 0 {
		allBox = "[x]"
	}

	return styles.SummaryStyle.Render(fmt.Sprintf(
		"%s all · %d remaining · %d purchased · %s to go",
		allBox, len(remaining), len(done), styles.FormatPrice(m.cfg.UI.Currency, total)))
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.cancel()

	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}

	m.cart.Close()
	m.collection.Close()
	return nil
}
