package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/q587p/telegram-game-bot/internal/session"
)

// RunRepository journals finished portal quests in the quest_runs table.
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

// RecordRun inserts a finished run. Recording the same run twice is a no-op.
func (r *RunRepository) RecordRun(ctx context.Context, run session.RunRecord) error {
	if err := checkRunID(run.RunID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO quest_runs (run_id, player_key, seed, moves, outcome, finished_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6)
		 ON CONFLICT (run_id) DO NOTHING`,
		run.RunID, run.PlayerKey, int64(run.Seed), run.Moves, run.Outcome, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.RunID, err)
	}
	return nil
}

// ListRuns returns up to limit runs of a player, newest first.
// A limit <= 0 returns all runs.
func (r *RunRepository) ListRuns(ctx context.Context, key string, limit int) ([]session.RunRecord, error) {
	query := `
		SELECT run_id::text, player_key, seed, moves, outcome, finished_at
		FROM quest_runs
		WHERE player_key = $1
		ORDER BY finished_at DESC, run_id
	`
	args := []any{key}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs for %q: %w", key, err)
	}
	defer rows.Close()

	var runs []session.RunRecord
	for rows.Next() {
		var (
			run  session.RunRecord
			seed int64
		)
		if err := rows.Scan(&run.RunID, &run.PlayerKey, &seed, &run.Moves, &run.Outcome, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		run.Seed = uint32(seed)
		run.FinishedAt = run.FinishedAt.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, nil
}
