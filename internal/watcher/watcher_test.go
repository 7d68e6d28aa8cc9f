package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func fsnotifyWriteEvent(path string) fsnotify.Event {
	return fsnotify.Event{Name: path, Op: fsnotify.Write}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/registry.db")
	require.Equal(t, "/tmp/registry.db", cfg.DBPath)
	require.Equal(t, 250*time.Millisecond, cfg.DebounceDur)
}

func TestWatcher_SignalsOnDatabaseWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "registry.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("initial"), 0o600))

	w, err := New(Config{DBPath: dbPath, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dbPath, []byte("changed"), 0o600))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change signal after writing the database")
	}
}

func TestWatcher_SignalsOnWALWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "registry.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("initial"), 0o600))

	w, err := New(Config{DBPath: dbPath, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal data"), 0o600))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change signal after writing the WAL")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "registry.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("initial"), 0o600))

	w, err := New(Config{DBPath: dbPath, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))

	select {
	case <-changes:
		t.Fatal("unrelated file writes must not signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "registry.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("initial"), 0o600))

	w, err := New(Config{DBPath: dbPath, DebounceDur: 150 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)

	// Burst of writes inside the debounce window
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte{byte(i)}, 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected at least one coalesced signal")
	}

	// The burst should coalesce into a single signal
	select {
	case <-changes:
		t.Fatal("burst of writes should produce a single signal")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_IsRelevantEvent(t *testing.T) {
	w := &Watcher{dbPath: "/data/registry.db"}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"database file", "/data/registry.db", true},
		{"wal file", "/data/registry.db-wal", true},
		{"shm file", "/data/registry.db-shm", false},
		{"unrelated file", "/data/notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotifyWriteEvent(tt.path)
			require.Equal(t, tt.want, w.isRelevantEvent(event))
		})
	}
}

func TestWatcher_ZeroDebounceGetsDefault(t *testing.T) {
	w, err := New(Config{DBPath: filepath.Join(t.TempDir(), "registry.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.Equal(t, 250*time.Millisecond, w.debounce)
}
