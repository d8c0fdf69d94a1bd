package energy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/q587p/telegram-game-bot/internal/model"
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func profileWith(energy, capacity int, last time.Time) *model.Profile {
	p := model.NewProfile(last)
	p.Energy = energy
	p.EnergyMax = capacity
	return &p
}

func TestRegenerate(t *testing.T) {
	tests := []struct {
		name       string
		energy     int
		elapsed    time.Duration
		wantGained int
		wantEnergy int
		wantFull   bool
		wantLast   time.Time
	}{
		{
			name:       "under a minute",
			energy:     1,
			elapsed:    59 * time.Second,
			wantGained: 0,
			wantEnergy: 1,
			wantLast:   t0,
		},
		{
			name:       "keeps fractional remainder",
			energy:     1,
			elapsed:    2*time.Minute + 30*time.Second,
			wantGained: 2,
			wantEnergy: 3,
			wantLast:   t0.Add(2 * time.Minute),
		},
		{
			name:       "capped gain advances by gain only",
			energy:     3,
			elapsed:    10 * time.Minute,
			wantGained: 2,
			wantEnergy: 5,
			wantFull:   true,
			wantLast:   t0.Add(2 * time.Minute),
		},
		{
			name:       "already full advances by elapsed",
			energy:     5,
			elapsed:    7*time.Minute + 10*time.Second,
			wantGained: 0,
			wantEnergy: 5,
			wantFull:   true,
			wantLast:   t0.Add(7 * time.Minute),
		},
		{
			name:       "clock went backwards",
			energy:     2,
			elapsed:    -5 * time.Minute,
			wantGained: 0,
			wantEnergy: 2,
			wantLast:   t0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profileWith(tt.energy, 5, t0)

			tick := Regenerate(p, t0.Add(tt.elapsed))

			assert.Equal(t, tt.wantGained, tick.Gained)
			assert.Equal(t, tt.wantEnergy, p.Energy)
			assert.Equal(t, tt.wantEnergy, tick.Energy)
			assert.Equal(t, tt.wantFull, tick.Full)
			assert.True(t, tt.wantLast.Equal(p.LastRegenAt), "last regen = %v, want %v", p.LastRegenAt, tt.wantLast)
		})
	}
}

func TestRegenerate_IdempotentAtSameInstant(t *testing.T) {
	p := profileWith(0, 5, t0)
	now := t0.Add(3*time.Minute + 20*time.Second)

	first := Regenerate(p, now)
	second := Regenerate(p, now)

	assert.Equal(t, 3, first.Gained)
	assert.Zero(t, second.Gained)
	assert.Equal(t, 3, p.Energy)
}

func TestRegenerate_RemainderIsNotLost(t *testing.T) {
	p := profileWith(0, 5, t0)

	// Two 90s steps add up to three whole minutes.
	Regenerate(p, t0.Add(90*time.Second))
	Regenerate(p, t0.Add(180*time.Second))

	assert.Equal(t, 3, p.Energy)
}

func TestRegenerate_Bounded(t *testing.T) {
	p := profileWith(0, 5, t0)
	now := t0

	for i := range 50 {
		now = now.Add(time.Duration(i) * 17 * time.Second)
		Regenerate(p, now)
		assert.LessOrEqual(t, p.Energy, p.EnergyMax)
	}
	Regenerate(p, now.Add(1000*time.Hour))
	assert.Equal(t, p.EnergyMax, p.Energy)
}

func TestSpend(t *testing.T) {
	p := profileWith(1, 5, t0)

	assert.True(t, Spend(p, 1))
	assert.Equal(t, 0, p.Energy)
	assert.False(t, Spend(p, 1))
	assert.Equal(t, 0, p.Energy)
	assert.False(t, Spend(p, -1))
}

func TestRestore(t *testing.T) {
	p := profileWith(1, 5, t0)
	now := t0.Add(30 * time.Second)

	tick := Restore(p, now)

	assert.Equal(t, 4, tick.Gained)
	assert.Equal(t, 5, p.Energy)
	assert.True(t, p.LastRegenAt.Equal(now))
}
