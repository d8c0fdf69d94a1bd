package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q587p/telegram-game-bot/internal/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lurker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version", "--config", "/nonexistent/dir/lurker.yaml")
	require.NoError(t, err)
	assert.Equal(t, "lurker "+version+"\n", out)
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "log_format: xml\n")

	_, err := execute(t, "", "migrate", "--config", cfg)
	assert.ErrorContains(t, err, "log_format")
}

func TestPlayAndReset(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	cfg := writeConfig(t, "storage:\n  backend: file\n  dir: "+dir+"\ngame:\n  energy_max: 7\n")

	out, err := execute(t, "/me\n/quit\n", "play", "--config", cfg, "--player", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "/7")

	path := filepath.Join(dir, session.FileName("42"))
	assert.FileExists(t, path)

	out, err = execute(t, "", "reset", "42", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "reset 42")
	assert.NoFileExists(t, path)
}

func TestMigrate_FileBackend(t *testing.T) {
	cfg := writeConfig(t, "storage:\n  backend: file\n  dir: "+t.TempDir()+"\n")

	out, err := execute(t, "", "migrate", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "no migrations")
}

func TestRules(t *testing.T) {
	a := &app{}
	a.cfg.Game.EnergyMax = 9
	a.cfg.Game.EnergyCost = 2
	a.cfg.Game.PortalCost = 11
	a.cfg.Game.ShardXPReward = 3
	a.cfg.Game.QuestXPReward = 4

	r := a.rules()
	assert.Equal(t, 9, r.EnergyMax)
	assert.Equal(t, 2, r.EnergyCost)
	assert.Equal(t, 3, r.ShardXPReward)
	assert.Equal(t, 11, r.Outcome.PortalCost)
	assert.Equal(t, 4, r.Outcome.XPReward)
}
