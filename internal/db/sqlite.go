package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/q587p/telegram-game-bot/internal/db/migrations"
	"github.com/q587p/telegram-game-bot/internal/session"
)

// SQLite is a single-file session store for deployments without PostgreSQL.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", path, err)
	}
	// One writer at a time; the session manager already serializes per key.
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return &SQLite{db: sqlDB}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Migrate applies the SQLite goose migrations.
func (s *SQLite) Migrate(ctx context.Context) error {
	return migrate(ctx, s.db, "sqlite3", migrations.SQLiteDir)
}

// Load returns nil, nil if no session exists for key.
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE key = ?`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying session %q: %w", key, err)
	}
	return []byte(data), nil
}

func (s *SQLite) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving session %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting session %q: %w", key, err)
	}
	return nil
}

// RecordRun inserts a finished run. Recording the same run twice is a no-op.
func (s *SQLite) RecordRun(ctx context.Context, run session.RunRecord) error {
	if err := checkRunID(run.RunID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quest_runs (run_id, player_key, seed, moves, outcome, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id) DO NOTHING`,
		run.RunID, run.PlayerKey, int64(run.Seed), run.Moves, run.Outcome, run.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.RunID, err)
	}
	return nil
}

// ListRuns returns up to limit runs of a player, newest first.
func (s *SQLite) ListRuns(ctx context.Context, key string, limit int) ([]session.RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, player_key, seed, moves, outcome, finished_at
		 FROM quest_runs
		 WHERE player_key = ?
		 ORDER BY finished_at DESC, run_id
		 LIMIT ?`,
		key, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs for %q: %w", key, err)
	}
	defer rows.Close()

	var runs []session.RunRecord
	for rows.Next() {
		var (
			run      session.RunRecord
			seed     int64
			finished int64
		)
		if err := rows.Scan(&run.RunID, &run.PlayerKey, &seed, &run.Moves, &run.Outcome, &finished); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		run.Seed = uint32(seed)
		run.FinishedAt = time.UnixMilli(finished).UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, nil
}
