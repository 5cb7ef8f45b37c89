package orderstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the order tables. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
    id         BIGSERIAL PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
    id         BIGSERIAL PRIMARY KEY,
    order_id   BIGINT NOT NULL REFERENCES orders(id),
    pizza_id   BIGINT,
    dough_id   BIGINT,
    quantity   INTEGER NOT NULL DEFAULT 1,
    is_partial BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS order_item_extras (
    line_item_id  BIGINT NOT NULL REFERENCES order_items(id),
    ingredient_id BIGINT NOT NULL,
    quantity      INTEGER NOT NULL DEFAULT 1,
    UNIQUE (line_item_id, ingredient_id)
);

CREATE TABLE IF NOT EXISTS transcription_logs (
    id            BIGSERIAL PRIMARY KEY,
    order_id      BIGINT NOT NULL REFERENCES orders(id),
    content       TEXT NOT NULL,
    updated_slots TEXT NOT NULL,
    snapshot      JSONB,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transcription_logs_order ON transcription_logs(order_id);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy it.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by PostgreSQL.
type PostgresStore struct {
	db DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store over the given connection or pool. The
// caller is responsible for calling [PostgresStore.Migrate] before issuing
// queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("orderstore: migrate: %w", err)
	}
	return nil
}

// CreateOrder implements [Store.CreateOrder].
func (s *PostgresStore) CreateOrder(ctx context.Context) (int64, error) {
	const query = `INSERT INTO orders DEFAULT VALUES RETURNING id`
	var id int64
	if err := s.db.QueryRow(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("orderstore: create order: %w", err)
	}
	return id, nil
}

// CreateLineItem implements [Store.CreateLineItem].
func (s *PostgresStore) CreateLineItem(ctx context.Context, li LineItem) (int64, error) {
	const query = `
		INSERT INTO order_items (order_id, pizza_id, dough_id, quantity, is_partial)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int64
	err := s.db.QueryRow(ctx, query, li.OrderRef, li.PizzaID, li.DoughID, li.Quantity, li.Partial).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("orderstore: create line item: %w", err)
	}
	return id, nil
}

// UpdateLineItem implements [Store.UpdateLineItem].
func (s *PostgresStore) UpdateLineItem(ctx context.Context, li LineItem) error {
	const query = `
		UPDATE order_items
		SET pizza_id = $2, dough_id = $3, quantity = $4, is_partial = $5, updated_at = now()
		WHERE id = $1`
	tag, err := s.db.Exec(ctx, query, li.ID, li.PizzaID, li.DoughID, li.Quantity, li.Partial)
	if err != nil {
		return fmt.Errorf("orderstore: update line item %d: %w", li.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orderstore: update line item %d: no such row", li.ID)
	}
	return nil
}

// AddLineItemExtra implements [Store.AddLineItemExtra]. The unique constraint
// on (line_item_id, ingredient_id) turns repeats into quantity updates.
func (s *PostgresStore) AddLineItemExtra(ctx context.Context, lineItemID, ingredientID int64, quantity int) error {
	const query = `
		INSERT INTO order_item_extras (line_item_id, ingredient_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (line_item_id, ingredient_id) DO UPDATE SET quantity = EXCLUDED.quantity`
	if _, err := s.db.Exec(ctx, query, lineItemID, ingredientID, quantity); err != nil {
		return fmt.Errorf("orderstore: add extra to line item %d: %w", lineItemID, err)
	}
	return nil
}

// AppendTranscriptionLog implements [Store.AppendTranscriptionLog].
func (s *PostgresStore) AppendTranscriptionLog(ctx context.Context, orderRef int64, rawText, diff string, snapshot []byte) error {
	const query = `
		INSERT INTO transcription_logs (order_id, content, updated_slots, snapshot)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.db.Exec(ctx, query, orderRef, rawText, diff, snapshot); err != nil {
		return fmt.Errorf("orderstore: append transcription log: %w", err)
	}
	return nil
}
