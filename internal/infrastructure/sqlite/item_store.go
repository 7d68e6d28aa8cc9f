package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"giftwell/internal/registry"
)

// itemColumns is the list of columns selected for item queries.
const itemColumns = `id, namespace, title, description, image, price, item_order, purchased, created_at, updated_at`

// itemStore implements registry.Store backed by the items table.
type itemStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

func newItemStore(db *sql.DB, tracer trace.Tracer) *itemStore {
	return &itemStore{db: db, tracer: tracer}
}

// Ensure itemStore implements registry.Store.
var _ registry.Store = (*itemStore)(nil)

// scanItem scans a row into an ItemModel.
func scanItem(scanner interface{ Scan(...any) error }) (ItemModel, error) {
	var m ItemModel
	err := scanner.Scan(
		&m.ID, &m.Namespace, &m.Title, &m.Description, &m.Image,
		&m.Price, &m.Order, &m.Purchased, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// Write upserts a record. Records without an id are inserted and receive
// the minted AUTOINCREMENT id; records with one are written
// last-write-wins, inserting if the row is missing.
func (s *itemStore) Write(ctx context.Context, namespace string, rec registry.Record) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "store.write", trace.WithAttributes(
		attribute.String("namespace", namespace),
		attribute.Int64("id", rec.ID),
	))
	defer span.End()

	m := toItemModel(namespace, rec)

	if m.ID == 0 {
		result, err := s.db.ExecContext(ctx,
			`INSERT INTO items (namespace, title, description, image, price, item_order, purchased, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.Namespace, m.Title, m.Description, m.Image, m.Price, m.Order, m.Purchased, m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get last insert id: %w", err)
		}
		return id, nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, namespace, title, description, image, price, item_order, purchased, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			namespace = excluded.namespace,
			title = excluded.title,
			description = excluded.description,
			image = excluded.image,
			price = excluded.price,
			item_order = excluded.item_order,
			purchased = excluded.purchased,
			updated_at = excluded.updated_at`,
		m.ID, m.Namespace, m.Title, m.Description, m.Image, m.Price, m.Order, m.Purchased, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert item %d: %w", m.ID, err)
	}
	return m.ID, nil
}

// ReadAll returns every record stored under the namespace. Rows come back
// in id order, which deliberately does not match the order attribute; the
// collection re-sorts.
func (s *itemStore) ReadAll(ctx context.Context, namespace string) ([]registry.Record, error) {
	ctx, span := s.tracer.Start(ctx, "store.read_all", trace.WithAttributes(
		attribute.String("namespace", namespace),
	))
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []registry.Record
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		records = append(records, m.toRecord())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return records, nil
}

// Delete removes the record. Deleting an id that does not exist is not an
// error.
func (s *itemStore) Delete(ctx context.Context, namespace string, id int64) error {
	ctx, span := s.tracer.Start(ctx, "store.delete", trace.WithAttributes(
		attribute.String("namespace", namespace),
		attribute.Int64("id", id),
	))
	defer span.End()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE namespace = ? AND id = ?`, namespace, id)
	if err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	return nil
}
