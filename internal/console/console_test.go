package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q587p/telegram-game-bot/internal/engine"
	"github.com/q587p/telegram-game-bot/internal/game/portal"
	"github.com/q587p/telegram-game-bot/internal/game/progression"
	"github.com/q587p/telegram-game-bot/internal/session"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newConsole(t *testing.T) (*Console, *session.Manager, *bytes.Buffer) {
	t.Helper()
	m := session.NewManager(session.NewMemoryStore(),
		engine.New(engine.DefaultRules(), engine.WithSeedSource(func(time.Time) uint32 { return 42 })),
		session.WithClock(func() time.Time { return testNow }),
	)
	var out bytes.Buffer
	return New(m, "local", "1.2.3", &out), m, &out
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line  string
		want  engine.Action
		local string
	}{
		{"/me", engine.Do(engine.ActionViewProfile), ""},
		{"  QUEST ", engine.Do(engine.ActionRandomQuest), ""},
		{"left", engine.Move(portal.Left), ""},
		{"⬇️", engine.Move(portal.Down), ""},
		{"/restart", engine.Do(engine.ActionProfileReset), ""},
		{"/version", engine.Action{}, localVersion},
		{"exit", engine.Action{}, localQuit},
	}
	for _, tt := range tests {
		cmd, err := ParseCommand(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, cmd.Action, tt.line)
		assert.Equal(t, tt.local, cmd.Local, tt.line)
	}

	_, err := ParseCommand("dance")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRenderMap(t *testing.T) {
	g := portal.Grid{
		{portal.CellFog, portal.CellFloor, portal.CellWall},
		{portal.CellPlayer, portal.CellTarget, portal.CellFog},
	}
	assert.Equal(t, "⬛🟫🧱\n📍🔮⬛", RenderMap(g))
}

func TestRender_SkillMilestones(t *testing.T) {
	one, two := 1, 2
	first := Render(engine.Result{
		Kind:  engine.ResultQuestProgress,
		Skill: &progression.SkillAdvance{Skill: "lurking", Milestone: &one, FirstUnlock: true},
	})
	assert.Contains(t, strings.Join(first, "\n"), "New skill unlocked: Lurking 1")

	later := Render(engine.Result{
		Kind:  engine.ResultQuestProgress,
		Skill: &progression.SkillAdvance{Skill: "moving", Milestone: &two},
	})
	assert.Contains(t, strings.Join(later, "\n"), "Moving improved to 2")
}

func TestExec_LocalCommands(t *testing.T) {
	c, _, out := newConsole(t)
	ctx := context.Background()

	quit, err := c.Exec(ctx, "/version")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Contains(t, out.String(), "1.2.3")

	quit, err = c.Exec(ctx, "what")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Contains(t, out.String(), "Unknown command")

	quit, err = c.Exec(ctx, "/quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestRun_PortalSession(t *testing.T) {
	c, m, out := newConsole(t)
	ctx := context.Background()
	require.NoError(t, m.Do(ctx, "local", func(s *session.Session) error {
		s.Profile.Currency = 13
		return nil
	}))

	// Seed 42: player (3,2), shard (4,3).
	in := strings.NewReader("enter\n\nright\nleft\ndown\nright\n/me\n/quit\nlook\n")
	require.NoError(t, c.Run(ctx, in))

	text := out.String()
	assert.Contains(t, text, "seed 42")
	assert.Contains(t, text, "Shard found in 4 moves")
	assert.Contains(t, text, GlyphPlayer)
	assert.Contains(t, text, "Shards")
	assert.NotContains(t, text, "You are not in a portal", "input after /quit is ignored")

	s, err := m.Get(ctx, "local")
	require.NoError(t, err)
	assert.Nil(t, s.Quest)
	assert.Equal(t, 1, s.Profile.ShardsFound)
}

func TestRun_StopsAtEOF(t *testing.T) {
	c, _, out := newConsole(t)

	require.NoError(t, c.Run(context.Background(), strings.NewReader("/me")))
	assert.Contains(t, out.String(), "Lurker 1.2.3")
	assert.Contains(t, out.String(), "5/5")
}
