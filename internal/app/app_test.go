package app

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"giftwell/internal/config"
	"giftwell/internal/pubsub"
	"giftwell/internal/registry"
)

func TestMain(m *testing.M) {
	// Pin the color profile so rendered output is stable across terminals
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type memStore struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]registry.Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[int64]registry.Record)}
}

func (s *memStore) Write(_ context.Context, _ string, rec registry.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == 0 {
		s.nextID++
		rec.ID = s.nextID
	}
	s.records[rec.ID] = rec
	return rec.ID, nil
}

func (s *memStore) ReadAll(_ context.Context, _ string) ([]registry.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]registry.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, _ string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func newTestModel(t *testing.T) (Model, *registry.Collection) {
	t.Helper()

	collection := registry.NewCollection("registry", newMemStore())
	m := New(config.Defaults(), collection, nil)
	t.Cleanup(func() {
		require.NoError(t, m.Close())
	})
	return m, collection
}

func createItem(t *testing.T, c *registry.Collection, title string, price float64, purchased bool) *registry.Item {
	t.Helper()

	it, err := c.Create(registry.Patch{
		Title:     registry.String(title),
		Price:     registry.Float(price),
		Purchased: registry.Bool(purchased),
	})
	require.NoError(t, err)
	return it
}

func keyMsg(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pressKey(t *testing.T, m Model, s string) Model {
	t.Helper()

	updated, _ := m.Update(keyMsg(s))
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func syncModel(t *testing.T, m Model) Model {
	t.Helper()

	updated, _ := m.handleRegistryEvent(pubsub.Event[registry.CollectionEvent]{Type: pubsub.ResetEvent})
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestNew_BuildsRowsFromCollection(t *testing.T) {
	collection := registry.NewCollection("registry", newMemStore())
	createItem(t, collection, "Dishes", 25.95, false)
	createItem(t, collection, "Curtains", 99.99, false)

	m := New(config.Defaults(), collection, nil)
	defer m.Close()

	require.Len(t, m.rows, 2)
	require.Equal(t, "Dishes", m.rows[0].Title())
	require.Equal(t, "Curtains", m.rows[1].Title())
}

func TestCursorMovement_ClampsAtBounds(t *testing.T) {
	m, collection := newTestModel(t)
	createItem(t, collection, "a", 1, false)
	createItem(t, collection, "b", 2, false)
	createItem(t, collection, "c", 3, false)
	m = syncModel(t, m)

	m = pressKey(t, m, "k")
	require.Equal(t, 0, m.cursor)

	m = pressKey(t, m, "j")
	m = pressKey(t, m, "j")
	m = pressKey(t, m, "j")
	require.Equal(t, 2, m.cursor)
}

func TestSwitchPane_Alternates(t *testing.T) {
	m, _ := newTestModel(t)

	require.Equal(t, PaneRegistry, m.pane)
	m = pressKey(t, m, "tab")
	require.Equal(t, PaneCart, m.pane)
	m = pressKey(t, m, "tab")
	require.Equal(t, PaneRegistry, m.pane)
}

func TestToggleAll_DrivesEveryItemToOneState(t *testing.T) {
	m, collection := newTestModel(t)
	createItem(t, collection, "a", 1, true)
	createItem(t, collection, "b", 2, false)
	m = syncModel(t, m)

	// Mixed state purchases everything
	m = pressKey(t, m, "T")
	for _, it := range collection.Items() {
		require.True(t, it.Snapshot().Purchased)
	}

	// Uniformly purchased clears everything
	m = pressKey(t, m, "T")
	for _, it := range collection.Items() {
		require.False(t, it.Snapshot().Purchased)
	}
}

func TestClearPurchased_DestroysOnlyDoneItems(t *testing.T) {
	m, collection := newTestModel(t)
	createItem(t, collection, "keep", 1, false)
	done := createItem(t, collection, "bought", 2, true)
	m = syncModel(t, m)

	pressKey(t, m, "C")

	require.Equal(t, 1, collection.Len())
	require.True(t, done.Destroyed())
	require.Equal(t, "keep", collection.Items()[0].Snapshot().Title)
}

func TestNewItem_OpensBlankEditOnFreshRow(t *testing.T) {
	m, collection := newTestModel(t)
	createItem(t, collection, "existing", 1, false)
	m = syncModel(t, m)

	m = pressKey(t, m, "n")

	require.Equal(t, 2, collection.Len())
	require.Equal(t, 2, len(m.rows))
	row := m.rows[m.cursor]
	require.True(t, row.Editing())
	require.Equal(t, registry.DefaultTitle, row.Item().Snapshot().Title)
}

func TestDelete_RegistryPaneDestroys(t *testing.T) {
	m, collection := newTestModel(t)
	it := createItem(t, collection, "doomed", 1, false)
	m = syncModel(t, m)

	pressKey(t, m, "d")

	require.True(t, it.Destroyed())
	require.Equal(t, 0, collection.Len())
}

func TestDelete_CartPaneDetachesWithoutDestroying(t *testing.T) {
	m, collection := newTestModel(t)
	it := createItem(t, collection, "gift", 1, false)
	m = syncModel(t, m)

	m = pressKey(t, m, "a")
	require.Equal(t, 1, m.cart.Len())

	m = pressKey(t, m, "tab")
	pressKey(t, m, "d")

	require.Equal(t, 0, m.cart.Len())
	require.False(t, it.Destroyed())
	require.Equal(t, 1, collection.Len())
}

func TestAddToCart_DuplicateShowsToast(t *testing.T) {
	m, collection := newTestModel(t)
	createItem(t, collection, "gift", 1, false)
	m = syncModel(t, m)

	m = pressKey(t, m, "a")
	require.False(t, m.toaster.Visible())

	m = pressKey(t, m, "a")
	require.Equal(t, 1, m.cart.Len())
	require.True(t, m.toaster.Visible())
}

func TestRefresh_FirstPressAddsPromoItem(t *testing.T) {
	m, collection := newTestModel(t)

	m = pressKey(t, m, "r")
	require.Equal(t, 1, collection.Len())
	title := collection.Items()[0].Snapshot().Title
	require.Contains(t, title, "Quilt")

	// Subsequent presses reload instead of re-adding
	m = pressKey(t, m, "r")
	require.Equal(t, 1, collection.Len())
}

func TestRouteItemEvent_DropsDestroyedRow(t *testing.T) {
	m, collection := newTestModel(t)
	it := createItem(t, collection, "gone", 1, false)
	createItem(t, collection, "stays", 2, false)
	m = syncModel(t, m)
	require.Len(t, m.rows, 2)

	it.Destroy()
	updated, _ := m.routeItemEvent(pubsub.Event[registry.ItemEvent]{
		Type:    pubsub.DestroyedEvent,
		Payload: registry.ItemEvent{GUID: it.GUID()},
	})
	m = updated.(Model)

	require.Len(t, m.rows, 1)
	require.Equal(t, "stays", m.rows[0].Title())
}

func TestSummaryLine_CountsAndTotal(t *testing.T) {
	m, collection := newTestModel(t)
	createItem(t, collection, "a", 10, false)
	createItem(t, collection, "b", 5.50, false)
	createItem(t, collection, "c", 99, true)
	m = syncModel(t, m)

	line := m.summaryLine()
	require.Contains(t, line, "2 remaining")
	require.Contains(t, line, "1 purchased")
	require.Contains(t, line, "$15.50")
}

func TestProgram_RendersAndQuits(t *testing.T) {
	collection := registry.NewCollection("registry", newMemStore())
	createItem(t, collection, "Green Dishes", 25.95, false)

	m := New(config.Defaults(), collection, nil)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Green Dishes"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	require.NoError(t, m.Close())
}

func TestView_EmptyRegistryShowsPlaceholder(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 80
	m.height = 24

	view := m.View()
	require.Contains(t, view, registry.DefaultTitle)
	require.Contains(t, view, "Registry")
	require.Contains(t, view, "Cart")
}
