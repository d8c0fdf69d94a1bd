package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/q587p/telegram-game-bot/internal/config"
	"github.com/q587p/telegram-game-bot/internal/db"
	"github.com/q587p/telegram-game-bot/internal/engine"
	"github.com/q587p/telegram-game-bot/internal/session"
)

// backend is an opened session store.
type backend struct {
	store session.Store
	runs  session.RunLister
	close func()
}

// openBackend opens the configured store, applying migrations for SQL backends.
func openBackend(ctx context.Context, cfg config.Storage) (*backend, error) {
	switch cfg.Backend {
	case config.BackendFile:
		fs, err := session.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		slog.Info("using file session store", "dir", fs.Dir())
		return &backend{store: fs, close: func() {}}, nil

	case config.BackendSQLite:
		lite, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := lite.Migrate(ctx); err != nil {
			lite.Close() //nolint:errcheck
			return nil, fmt.Errorf("migrating sqlite: %w", err)
		}
		slog.Info("using sqlite session store", "path", cfg.SQLitePath)
		closeFn := func() {
			if err := lite.Close(); err != nil {
				slog.Warn("closing sqlite", "err", err)
			}
		}
		return &backend{store: lite, runs: lite, close: closeFn}, nil

	case config.BackendPostgres:
		dsn := cfg.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return nil, fmt.Errorf("migrating postgres: %w", err)
		}
		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		slog.Info("using postgres session store", "host", cfg.Database.Host, "db", cfg.Database.DBName)
		store := database.Store()
		return &backend{store: store, runs: store, close: database.Close}, nil

	default:
		return nil, fmt.Errorf("%w: storage.backend %q", config.ErrInvalid, cfg.Backend)
	}
}

// newManager builds the session manager over b.
func (a *app) newManager(b *backend) *session.Manager {
	return session.NewManager(b.store,
		engine.New(a.rules()),
		session.WithIdleAfter(a.cfg.Housekeeping.IdleAfter),
		session.WithClock(time.Now),
	)
}
