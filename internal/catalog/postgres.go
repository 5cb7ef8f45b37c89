package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the menu tables. Execute it via
// [PostgresCatalog.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS pizzas (
    id       BIGSERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    in_menu  BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_pizzas_name ON pizzas(name);

CREATE TABLE IF NOT EXISTS ingredients (
    id       BIGSERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    category TEXT NOT NULL,
    price    DOUBLE PRECISION NOT NULL,
    in_stock BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS doughs (
    id              BIGSERIAL PRIMARY KEY,
    big_size        BOOLEAN NOT NULL DEFAULT FALSE,
    on_thick_pastry BOOLEAN NOT NULL DEFAULT FALSE,
    without_gluten  BOOLEAN NOT NULL DEFAULT FALSE,
    price           DOUBLE PRECISION NOT NULL
);
`

// DB is the database interface used by [PostgresCatalog]. Both *pgxpool.Pool
// and *pgx.Conn satisfy it.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresCatalog is a [Catalog] backed by PostgreSQL.
type PostgresCatalog struct {
	db DB
}

var _ MenuStore = (*PostgresCatalog)(nil)

// NewPostgresCatalog creates a catalog over the given connection or pool.
// The caller is responsible for calling [PostgresCatalog.Migrate] before
// issuing queries.
func NewPostgresCatalog(db DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// Migrate executes the [Schema] DDL.
func (c *PostgresCatalog) Migrate(ctx context.Context) error {
	if _, err := c.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("catalog: migrate: %w", err)
	}
	return nil
}

// AddPizza implements [MenuStore.AddPizza].
func (c *PostgresCatalog) AddPizza(ctx context.Context, name string) (int64, error) {
	const query = `INSERT INTO pizzas (name) VALUES ($1) RETURNING id`
	var id int64
	if err := c.db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("catalog: add pizza %q: %w", name, err)
	}
	return id, nil
}

// AddIngredient implements [MenuStore.AddIngredient].
func (c *PostgresCatalog) AddIngredient(ctx context.Context, name string, category IngredientCategory, price float64) (int64, error) {
	const query = `INSERT INTO ingredients (name, category, price) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := c.db.QueryRow(ctx, query, name, category, price).Scan(&id); err != nil {
		return 0, fmt.Errorf("catalog: add ingredient %q: %w", name, err)
	}
	return id, nil
}

// AddDough implements [MenuStore.AddDough].
func (c *PostgresCatalog) AddDough(ctx context.Context, bigSize, thickCrust, glutenFree bool, price float64) (int64, error) {
	const query = `INSERT INTO doughs (big_size, on_thick_pastry, without_gluten, price)
		VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	if err := c.db.QueryRow(ctx, query, bigSize, thickCrust, glutenFree, price).Scan(&id); err != nil {
		return 0, fmt.Errorf("catalog: add dough: %w", err)
	}
	return id, nil
}

// PizzaNames implements [Catalog.PizzaNames]. Names come back ordered by id
// so the fuzzy matcher's tie-break stays deterministic.
func (c *PostgresCatalog) PizzaNames(ctx context.Context) ([]string, error) {
	const query = `SELECT name FROM pizzas WHERE in_menu ORDER BY id`
	return c.queryNames(ctx, query, "pizza names")
}

// IngredientNames implements [Catalog.IngredientNames].
func (c *PostgresCatalog) IngredientNames(ctx context.Context) ([]string, error) {
	const query = `SELECT name FROM ingredients WHERE in_stock ORDER BY id`
	return c.queryNames(ctx, query, "ingredient names")
}

func (c *PostgresCatalog) queryNames(ctx context.Context, query, what string) ([]string, error) {
	rows, err := c.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list %s: %w", what, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("catalog: scan %s: %w", what, err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list %s: %w", what, err)
	}
	return names, nil
}

// DoughVariants implements [Catalog.DoughVariants].
func (c *PostgresCatalog) DoughVariants(ctx context.Context) ([]DoughVariant, error) {
	const query = `SELECT id, big_size, on_thick_pastry, without_gluten, price FROM doughs ORDER BY id`
	rows, err := c.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list doughs: %w", err)
	}
	defer rows.Close()

	var variants []DoughVariant
	for rows.Next() {
		var v DoughVariant
		if err := rows.Scan(&v.ID, &v.BigSize, &v.ThickCrust, &v.GlutenFree, &v.Price); err != nil {
			return nil, fmt.Errorf("catalog: scan dough: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list doughs: %w", err)
	}
	return variants, nil
}

// FindPizza implements [Catalog.FindPizza].
func (c *PostgresCatalog) FindPizza(ctx context.Context, name string) (*Pizza, error) {
	const query = `SELECT id, name, in_menu FROM pizzas WHERE lower(name) = lower($1) LIMIT 1`
	var p Pizza
	err := c.db.QueryRow(ctx, query, name).Scan(&p.ID, &p.Name, &p.InMenu)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: find pizza %q: %w", name, err)
	}
	return &p, nil
}

// FindIngredient implements [Catalog.FindIngredient].
func (c *PostgresCatalog) FindIngredient(ctx context.Context, name string) (*Ingredient, error) {
	const query = `SELECT id, name, category, price FROM ingredients WHERE lower(name) = lower($1) LIMIT 1`
	var ing Ingredient
	err := c.db.QueryRow(ctx, query, name).Scan(&ing.ID, &ing.Name, &ing.Category, &ing.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: find ingredient %q: %w", name, err)
	}
	return &ing, nil
}

// ResolveDough implements [Catalog.ResolveDough]. Unknown tri-state fields
// are wildcards; among matches the cheapest dough wins, mirroring how the
// pizzeria quotes the lowest price when the customer left a choice open.
func (c *PostgresCatalog) ResolveDough(ctx context.Context, bigSize, thickCrust *bool, glutenFree bool) (*DoughVariant, error) {
	const query = `
		SELECT id, big_size, on_thick_pastry, without_gluten, price
		FROM doughs
		WHERE ($1::boolean IS NULL OR big_size = $1)
		  AND ($2::boolean IS NULL OR on_thick_pastry = $2)
		  AND without_gluten = $3
		ORDER BY price ASC
		LIMIT 1`

	var v DoughVariant
	err := c.db.QueryRow(ctx, query, bigSize, thickCrust, glutenFree).
		Scan(&v.ID, &v.BigSize, &v.ThickCrust, &v.GlutenFree, &v.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: resolve dough: %w", err)
	}
	return &v, nil
}
