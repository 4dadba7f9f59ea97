package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"shop-service/internal/fault"
)

// Store wraps the pooled database connection. All mutating flows go through
// WithTx so each operation is scoped to exactly one transaction.
type Store struct {
	db *sqlx.DB
}

// NewStore connects to the database and configures the connection pool.
func NewStore(databaseURL string, maxOpenConns, maxIdleConns int) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside one transaction: committed when fn returns nil,
// rolled back otherwise. The connection is returned to the pool on every
// exit path, including panics, via the deferred rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// InitSchema creates the tables if they do not exist yet. Cascade rules are
// database-level: deleting a category removes its products, deleting a
// product removes its reviews, deleting an order removes its items.
// order_items.product_id has no cascade on purpose: item prices are
// immutable snapshots and ordered products must not vanish from history.
func (s *Store) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL,
		hashed_password VARCHAR(255) NOT NULL,
		firstname VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		birthday DATE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATE NOT NULL DEFAULT CURRENT_DATE,
		uuid UUID NOT NULL,
		CONSTRAINT uq_username UNIQUE (username),
		CONSTRAINT uq_email UNIQUE (email),
		CONSTRAINT uq_uuid UNIQUE (uuid),
		CONSTRAINT email_format CHECK (email ~* '^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$'),
		CONSTRAINT valid_birthday CHECK (birthday <= CURRENT_DATE)
	);

	CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		slug VARCHAR(100) NOT NULL UNIQUE,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		slug VARCHAR(200) NOT NULL UNIQUE,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price > 0),
		discount_price NUMERIC(10,2) CHECK (discount_price IS NULL OR discount_price < price),
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		status VARCHAR(50) NOT NULL DEFAULT 'created',
		total_amount NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		address TEXT NOT NULL,
		phone VARCHAR(20) NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity BETWEEN 1 AND 100),
		price NUMERIC(10,2) NOT NULL CHECK (price > 0),
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id)
	);

	CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		text TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		user_id BIGINT NOT NULL REFERENCES users(id),
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE
	);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isUniqueViolation reports whether err is a unique-constraint violation
// surfaced by the postgres driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

// isForeignKeyViolation reports whether err is a foreign-key violation.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}

// conflictOnUnique converts a storage-level unique violation into the
// client-facing conflict fault. This is the backstop behind the explicit
// existence checks that run in the same transaction.
func conflictOnUnique(err error, resource, detail string) error {
	if isUniqueViolation(err) {
		return fault.Conflict(resource, detail)
	}
	return err
}
