package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/q587p/telegram-game-bot/internal/config"
	"github.com/q587p/telegram-game-bot/internal/engine"
)

// app carries what every subcommand needs.
type app struct {
	configPath string
	cfg        config.Lurker
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "lurker",
		Short:         "Lurk-and-search portal quest game",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.Path(),
		"path to the YAML config (env "+config.EnvPath+")")

	root.AddCommand(
		newServeCmd(a),
		newPlayCmd(a),
		newMigrateCmd(a),
		newResetCmd(a),
		newVersionCmd(),
	)
	return root
}

// load reads and validates the config and installs the default logger.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	// Logs go to stderr; stdout belongs to the console.
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// rules maps the game config onto engine tuning.
func (a *app) rules() engine.Rules {
	g := a.cfg.Game
	r := engine.DefaultRules()
	r.EnergyMax = g.EnergyMax
	r.EnergyCost = g.EnergyCost
	r.ShardXPReward = g.ShardXPReward
	r.Outcome.PortalCost = g.PortalCost
	r.Outcome.XPReward = g.QuestXPReward
	return r
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "lurker", version)
		},
	}
}
