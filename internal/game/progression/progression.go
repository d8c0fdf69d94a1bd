// Package progression implements player leveling and skill training.
//
// Levels follow a linear xp curve: level L needs 13*(L+1) xp to advance,
// with overflow xp carried into further levels. Skills gain a fixed base
// amount per action that halves every 13 whole skill levels.
package progression

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/q587p/telegram-game-bot/internal/model"
)

const (
	// BaseSkillGain is the per-action skill gain below level 13.
	BaseSkillGain = 0.2

	// SkillTierSize is the number of whole skill levels per halving tier.
	SkillTierSize = 13

	// SkillPrecision is the number of decimal places skill levels are tracked to.
	SkillPrecision = 3
)

// LevelUp describes the result of ApplyXP.
type LevelUp struct {
	LeveledUp    bool `json:"leveledUp"`
	LevelsGained int  `json:"levelsGained"`
	Level        int  `json:"level"`
}

// SkillAdvance describes a single skill update.
type SkillAdvance struct {
	Skill  string  `json:"skill"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	// Milestone is the new integer skill level when the integer part grew.
	Milestone *int `json:"milestone,omitempty"`
	// FirstUnlock is set when the milestone took the skill from below 1.
	FirstUnlock bool `json:"firstUnlock,omitempty"`
}

// XPTargetForLevel returns the xp required to advance from level.
func XPTargetForLevel(level int) int {
	return model.XPPerLevel * (level + 1)
}

// ApplyXP adds amount to the profile xp and rolls every full target into a
// level. Afterwards 0 <= xp < xpTarget and xpTarget == XPTargetForLevel(level).
func ApplyXP(p *model.Profile, amount float64) LevelUp {
	if amount > 0 {
		p.XP += amount
	}
	gained := p.SettleXP()

	return LevelUp{
		LeveledUp:    gained > 0,
		LevelsGained: gained,
		Level:        p.Level,
	}
}

// SkillIncrement returns the gain for one action at the current skill level.
func SkillIncrement(current float64) float64 {
	if current < 0 {
		current = 0
	}
	tier := math.Floor(current / SkillTierSize)
	return BaseSkillGain * math.Pow(0.5, tier)
}

// AdvanceSkill adds amount to the named skill, rounded to SkillPrecision
// decimal places. Negative amounts are ignored; skills never decrease.
func AdvanceSkill(p *model.Profile, skill string, amount float64) SkillAdvance {
	if p.Skills == nil {
		p.Skills = make(map[string]float64, 2)
	}
	before := p.Skills[skill]
	if amount < 0 {
		amount = 0
	}

	after, _ := decimal.NewFromFloat(before).
		Add(decimal.NewFromFloat(amount)).
		Round(SkillPrecision).
		Float64()
	if after < before {
		after = before
	}
	p.Skills[skill] = after

	adv := SkillAdvance{
		Skill:  skill,
		Before: before,
		After:  after,
	}
	if b, a := int(math.Floor(before)), int(math.Floor(after)); a > b {
		adv.Milestone = &a
		adv.FirstUnlock = b < 1
	}
	return adv
}

// Train advances the named skill by one action's worth of gain.
func Train(p *model.Profile, skill string) SkillAdvance {
	return AdvanceSkill(p, skill, SkillIncrement(p.Skill(skill)))
}
