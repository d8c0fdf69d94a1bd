package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q587p/telegram-game-bot/internal/model"
)

func newProfile() *model.Profile {
	p := model.NewProfile(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return &p
}

func TestXPTargetForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 13},
		{1, 26},
		{2, 39},
		{9, 130},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, XPTargetForLevel(tt.level), "level %d", tt.level)
	}
}

func TestApplyXP_Scenario(t *testing.T) {
	p := newProfile()
	require.Equal(t, 13, p.XPTarget)
	require.Equal(t, 5, p.Energy)

	up := ApplyXP(p, 13)
	assert.True(t, up.LeveledUp)
	assert.Equal(t, 1, up.LevelsGained)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0.0, p.XP)
	assert.Equal(t, 26, p.XPTarget)

	up = ApplyXP(p, 30)
	assert.True(t, up.LeveledUp)
	assert.Equal(t, 1, up.LevelsGained)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 4.0, p.XP)
	assert.Equal(t, 39, p.XPTarget)
}

func TestApplyXP_MultipleLevels(t *testing.T) {
	p := newProfile()

	// 13 + 26 + 39 = 78, plus 1 left over.
	up := ApplyXP(p, 79)
	assert.Equal(t, 3, up.LevelsGained)
	assert.Equal(t, 3, up.Level)
	assert.Equal(t, 1.0, p.XP)
	assert.Equal(t, 52, p.XPTarget)
}

func TestApplyXP_NoLevel(t *testing.T) {
	p := newProfile()

	up := ApplyXP(p, 1)
	assert.False(t, up.LeveledUp)
	assert.Zero(t, up.LevelsGained)
	assert.Equal(t, 1.0, p.XP)
}

func TestApplyXP_Invariant(t *testing.T) {
	p := newProfile()
	amounts := []float64{0, 1, 12, 0.5, 100, 3, 7.25, 400, 1, 1, 1}

	for _, a := range amounts {
		ApplyXP(p, a)
		assert.GreaterOrEqual(t, p.XP, 0.0)
		assert.Less(t, p.XP, float64(p.XPTarget))
		assert.Equal(t, 13*(p.Level+1), p.XPTarget)
	}
}

func TestSkillIncrement(t *testing.T) {
	tests := []struct {
		current float64
		want    float64
	}{
		{0, 0.2},
		{12.999, 0.2},
		{13, 0.1},
		{25.5, 0.1},
		{26, 0.05},
		{39, 0.025},
		{-1, 0.2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, SkillIncrement(tt.current), 1e-12, "current %v", tt.current)
	}
}

func TestAdvanceSkill_Rounding(t *testing.T) {
	p := newProfile()

	for range 3 {
		AdvanceSkill(p, model.SkillLurking, 0.1)
	}
	// 0.1+0.1+0.1 drifts in binary floating point; rounding keeps it exact.
	assert.Equal(t, 0.3, p.Skills[model.SkillLurking])

	AdvanceSkill(p, model.SkillLurking, 0.00049)
	assert.Equal(t, 0.3, p.Skills[model.SkillLurking])
}

func TestAdvanceSkill_Milestones(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		steps     []float64
		milestone []int // 0 = no milestone for that step
	}{
		{
			name:      "single crossing",
			start:     0.95,
			steps:     []float64{0.1},
			milestone: []int{1},
		},
		{
			name:      "fires on second call only",
			start:     0.95,
			steps:     []float64{0.04, 0.06},
			milestone: []int{0, 1},
		},
		{
			name:      "no crossing",
			start:     1.2,
			steps:     []float64{0.2, 0.2},
			milestone: []int{0, 0},
		},
		{
			name:      "exact integer",
			start:     1.8,
			steps:     []float64{0.2},
			milestone: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProfile()
			p.Skills[model.SkillMoving] = tt.start

			for i, step := range tt.steps {
				adv := AdvanceSkill(p, model.SkillMoving, step)
				assert.GreaterOrEqual(t, adv.After, adv.Before)
				if tt.milestone[i] == 0 {
					assert.Nil(t, adv.Milestone, "step %d", i)
					continue
				}
				require.NotNil(t, adv.Milestone, "step %d", i)
				assert.Equal(t, tt.milestone[i], *adv.Milestone)
			}
		})
	}
}

func TestAdvanceSkill_FirstUnlock(t *testing.T) {
	p := newProfile()
	p.Skills[model.SkillLurking] = 0.9

	adv := AdvanceSkill(p, model.SkillLurking, 0.2)
	require.NotNil(t, adv.Milestone)
	assert.True(t, adv.FirstUnlock)

	p.Skills[model.SkillLurking] = 1.9
	adv = AdvanceSkill(p, model.SkillLurking, 0.2)
	require.NotNil(t, adv.Milestone)
	assert.Equal(t, 2, *adv.Milestone)
	assert.False(t, adv.FirstUnlock)
}

func TestAdvanceSkill_NegativeIgnored(t *testing.T) {
	p := newProfile()
	p.Skills[model.SkillMoving] = 2

	adv := AdvanceSkill(p, model.SkillMoving, -1)
	assert.Equal(t, 2.0, adv.After)
	assert.Nil(t, adv.Milestone)
}

func TestTrain_FiveActionsUnlock(t *testing.T) {
	p := newProfile()

	var last SkillAdvance
	for range 5 {
		last = Train(p, model.SkillLurking)
	}
	assert.Equal(t, 1.0, p.Skills[model.SkillLurking])
	require.NotNil(t, last.Milestone)
	assert.Equal(t, 1, *last.Milestone)
}
