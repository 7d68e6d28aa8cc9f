// Package sqlite is the storage adapter: an embedded SQLite database
// holding one record per registry item, keyed by namespace.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"giftwell/internal/log"
	"giftwell/internal/registry"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB owns the database connection and hands out stores bound to it.
type DB struct {
	conn   *sql.DB
	tracer trace.Tracer
}

// NewDB opens (creating if necessary) the database at path and brings the
// schema up to date. Parent directories are created with 0700. When an
// existing database file is present, a .bak copy is taken before
// migrations run.
func NewDB(path string) (*DB, error) {
	return NewDBWithTracer(path, noop.NewTracerProvider().Tracer("sqlite"))
}

// NewDBWithTracer is NewDB with spans around store operations recorded on
// the given tracer.
func NewDBWithTracer(path string, tracer trace.Tracer) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := backupFile(path); err != nil {
			// Best-effort: a failed backup never blocks startup.
			log.Warn(log.CatDB, "pre-migration backup failed", "path", path, "error", err)
		}
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Info(log.CatDB, "database ready", "path", path)
	return &DB{conn: conn, tracer: tracer}, nil
}

// ItemStore returns a registry.Store persisting into this database.
func (d *DB) ItemStore() registry.Store {
	return newItemStore(d.conn, d.tracer)
}

// Conn exposes the underlying connection for tests.
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

func runMigrations(conn *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// backupFile copies path to path.bak, replacing any previous backup.
func backupFile(path string) error {
	src, err := os.Open(path) //nolint:gosec // G304: path is the configured db path
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, src)
	return err
}
