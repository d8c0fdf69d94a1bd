package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q587p/telegram-game-bot/internal/game/portal"
	"github.com/q587p/telegram-game-bot/internal/model"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func TestDecode_Garbage(t *testing.T) {
	for _, raw := range []string{"", "not json", "null", "[1,2]", `"text"`} {
		s, err := Decode([]byte(raw), testNow)
		assert.ErrorIs(t, err, ErrCorrupt, "input %q", raw)
		assert.Equal(t, New(testNow), s, "input %q", raw)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	s := New(testNow)
	s.Locale = "uk"
	s.Profile.Currency = 17
	s.Profile.Skills[model.SkillLurking] = 1.4
	s.Quest = portal.Start(42)
	s.Quest.Look()

	data, err := s.Encode()
	require.NoError(t, err)

	back, err := Decode(data, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "uk", back.Locale)
	assert.Equal(t, 17, back.Profile.Currency)
	assert.Equal(t, 1.4, back.Profile.Skills[model.SkillLurking])
	require.NotNil(t, back.Quest)
	assert.Equal(t, *s.Quest, *back.Quest)
}

func TestDecode_FlatLegacyProfile(t *testing.T) {
	raw := `{"stamina": 2, "staminaMax": 5, "ether": 9, "crystalsFound": 3, "skills": {"lurk": 1.2}}`

	s, err := Decode([]byte(raw), testNow)

	require.NoError(t, err)
	assert.Equal(t, 2, s.Profile.Energy)
	assert.Equal(t, 9, s.Profile.Currency)
	assert.Equal(t, 3, s.Profile.ShardsFound)
	assert.Equal(t, 1.2, s.Profile.Skills[model.SkillLurking])
	assert.Nil(t, s.Quest)
}

func TestDecode_LegacyEnvelope(t *testing.T) {
	raw := `{"locale": "en", "profile": {"level": 2, "xp": 50, "aether": 4, "seenStart": true}}`

	s, err := Decode([]byte(raw), testNow)

	require.NoError(t, err)
	assert.Equal(t, "en", s.Locale)
	assert.Equal(t, 3, s.Profile.Level, "overflow xp rolled into a level")
	assert.Equal(t, 11.0, s.Profile.XP)
	assert.Equal(t, 52, s.Profile.XPTarget)
	assert.Equal(t, 4, s.Profile.Currency)
	assert.True(t, s.Profile.HasSeenIntro)
}

func TestDecode_DropsQuests(t *testing.T) {
	tests := []struct {
		name    string
		quest   string
		corrupt bool
	}{
		{"finished", `{"active": false, "gridSize": 5}`, false},
		{"null", `null`, false},
		{"malformed", `{"active": true, "gridSize": 5, "revealed": []}`, true},
		{"wrong type", `"yes"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"profile": {"currency": 3}, "quest": ` + tt.quest + `}`

			s, err := Decode([]byte(raw), testNow)

			assert.Nil(t, s.Quest)
			assert.Equal(t, 3, s.Profile.Currency, "profile survives")
			if tt.corrupt {
				assert.ErrorIs(t, err, ErrCorrupt)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecode_ProfileNotObject(t *testing.T) {
	s, err := Decode([]byte(`{"locale": "uk", "profile": 12}`), testNow)

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, "uk", s.Locale)
	assert.Equal(t, model.NewProfile(testNow), s.Profile)
}
