package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/q587p/telegram-game-bot/internal/config"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Storage.Backend == config.BackendFile {
				fmt.Fprintln(cmd.OutOrStdout(), "file backend needs no migrations")
				return nil
			}
			b, err := openBackend(cmd.Context(), a.cfg.Storage)
			if err != nil {
				return err
			}
			b.close()
			slog.Info("database migrations applied", "backend", a.cfg.Storage.Backend)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <player>...",
		Short: "Delete the stored sessions of players",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := openBackend(ctx, a.cfg.Storage)
			if err != nil {
				return err
			}
			defer b.close()

			mgr := a.newManager(b)
			for _, key := range args {
				if err := mgr.Delete(ctx, key); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "reset", key)
			}
			return nil
		},
	}
}
