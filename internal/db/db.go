// Package db implements session storage on PostgreSQL and SQLite.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidRunID is returned when a run record carries a malformed id.
var ErrInvalidRunID = errors.New("invalid run id")

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Store returns the session store backed by this database.
func (d *DB) Store() *Store {
	return NewStore(d.pool)
}

// Store combines the session and run repositories into one session store.
type Store struct {
	*SessionRepository
	*RunRepository
}

// NewStore creates a Store on pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		SessionRepository: NewSessionRepository(pool),
		RunRepository:     NewRunRepository(pool),
	}
}

func checkRunID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidRunID, id, err)
	}
	return nil
}
