package main

import (
	"github.com/spf13/cobra"

	"github.com/q587p/telegram-game-bot/internal/console"
)

func newPlayCmd(a *app) *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			b, err := openBackend(ctx, a.cfg.Storage)
			if err != nil {
				return err
			}
			defer b.close()

			c := console.New(a.newManager(b), player, version, cmd.OutOrStdout())
			return c.Run(ctx, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVarP(&player, "player", "p", "local", "player key to play as")
	return cmd
}
