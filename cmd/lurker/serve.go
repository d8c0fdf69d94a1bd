package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/q587p/telegram-game-bot/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	b, err := openBackend(ctx, a.cfg.Storage)
	if err != nil {
		return err
	}
	defer b.close()

	mgr := a.newManager(b)

	sched := cron.New()
	if _, err := mgr.Schedule(sched, a.cfg.Housekeeping.SweepSchedule); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      api.NewServer(mgr, b.runs, version).Routes(),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting session sweeper", "schedule", a.cfg.Housekeeping.SweepSchedule)
		sched.Start()
		<-gctx.Done()
		<-sched.Stop().Done()
		return nil
	})

	g.Go(func() error {
		slog.Info("starting http server", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		slog.Info("http server stopped")
		return nil
	})

	return g.Wait()
}
