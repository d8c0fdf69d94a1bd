package model

import (
	"math"
	"time"
)

// Profile defaults.
const (
	// XPPerLevel scales the xp target: reaching level L+1 from L takes XPPerLevel*(L+1).
	XPPerLevel = 13

	DefaultEnergyMax = 5

	// MaxLevel bounds the level resolved from stored xp.
	MaxLevel = math.MaxInt32

	// CurrentSchemaVersion is written to every normalized profile.
	// 1 = legacy stamina/ether records, 2 = energy/currency records.
	CurrentSchemaVersion = 2
)

// Known skill names.
const (
	SkillLurking = "lurking"
	SkillMoving  = "moving"
)

// Profile is the persistent per-player record.
// Owned by exactly one player session; not safe for concurrent use.
type Profile struct {
	Level    int     `json:"level"`
	XP       float64 `json:"xp"`
	XPTarget int     `json:"xpTarget"`

	Energy      int       `json:"energy"`
	EnergyMax   int       `json:"energyMax"`
	LastRegenAt time.Time `json:"lastRegenAt"`

	// Skills maps skill name to level. Integer part is the visible level.
	Skills map[string]float64 `json:"skills"`

	// Currency is the secondary resource (Aether) spent on portal entry.
	Currency int `json:"currency"`

	ShardsFound          int `json:"shardsFound"`
	QuestsStarted        int `json:"questsStarted"`
	QuestsSucceeded      int `json:"questsSucceeded"`
	QuestsFailed         int `json:"questsFailed"`
	ShardMovesTotal      int `json:"shardMovesTotal"`
	ShardQuestsSucceeded int `json:"shardQuestsSucceeded"`

	HasSeenIntro      bool   `json:"hasSeenIntro"`
	SchemaVersionSeen string `json:"schemaVersionSeen,omitempty"`
	SchemaVersion     int    `json:"schemaVersion"`
}

// NewProfile returns a fresh profile as created on first contact.
func NewProfile(now time.Time) Profile {
	return Profile{
		Level:       0,
		XP:          0,
		XPTarget:    XPPerLevel,
		Energy:      DefaultEnergyMax,
		EnergyMax:   DefaultEnergyMax,
		LastRegenAt: now.UTC(),
		Skills: map[string]float64{
			SkillLurking: 0,
			SkillMoving:  0,
		},
		SchemaVersion: CurrentSchemaVersion,
	}
}

// Reset discards all prior state and returns fresh defaults.
func Reset(now time.Time) Profile {
	return NewProfile(now)
}

// Skill returns the level of the named skill, zero when unknown.
func (p *Profile) Skill(name string) float64 {
	if p.Skills == nil {
		return 0
	}
	return p.Skills[name]
}

// Normalize brings a decoded profile back within its invariants:
// counters are non-negative, energy fits its cap, the xp target matches
// the level and overflow xp has been rolled into further levels.
// Idempotent.
func (p *Profile) Normalize(now time.Time) {
	clampInt := func(v *int) {
		if *v < 0 {
			*v = 0
		}
	}

	clampInt(&p.Level)
	if p.XP < 0 || math.IsNaN(p.XP) {
		p.XP = 0
	}
	clampInt(&p.Currency)
	clampInt(&p.ShardsFound)
	clampInt(&p.QuestsStarted)
	clampInt(&p.QuestsSucceeded)
	clampInt(&p.QuestsFailed)
	clampInt(&p.ShardMovesTotal)
	clampInt(&p.ShardQuestsSucceeded)

	if p.EnergyMax <= 0 {
		p.EnergyMax = DefaultEnergyMax
	}
	clampInt(&p.Energy)
	if p.Energy > p.EnergyMax {
		p.Energy = p.EnergyMax
	}
	if p.LastRegenAt.IsZero() {
		p.LastRegenAt = now.UTC()
	}

	if p.Skills == nil {
		p.Skills = make(map[string]float64, 2)
	}
	for name, v := range p.Skills {
		if v < 0 {
			p.Skills[name] = 0
		}
	}
	if _, ok := p.Skills[SkillLurking]; !ok {
		p.Skills[SkillLurking] = 0
	}
	if _, ok := p.Skills[SkillMoving]; !ok {
		p.Skills[SkillMoving] = 0
	}

	p.SettleXP()

	p.SchemaVersion = CurrentSchemaVersion
}

// xpBefore is the total xp spent to climb from level 0 to level.
func xpBefore(level int) float64 {
	l := float64(level)
	return XPPerLevel * l * (l + 1) / 2
}

// SettleXP rolls every full xp target into levels and returns how many
// were gained. Levels are solved in closed form, so any stored xp settles
// in constant time. At MaxLevel surplus xp is dropped below the target.
func (p *Profile) SettleXP() int {
	if p.Level > MaxLevel {
		p.Level = MaxLevel
	}
	p.XPTarget = XPPerLevel * (p.Level + 1)
	if p.XP < float64(p.XPTarget) {
		return 0
	}

	start := p.Level
	total := xpBefore(start) + p.XP
	n := int(min((math.Sqrt(1+8*total/XPPerLevel)-1)/2, MaxLevel))
	n = max(n, start)
	for n > start && xpBefore(n) > total {
		n--
	}
	for n < MaxLevel && xpBefore(n+1) <= total {
		n++
	}

	p.Level = n
	p.XPTarget = XPPerLevel * (n + 1)
	p.XP -= xpBefore(n) - xpBefore(start)
	if p.XP < 0 {
		p.XP = 0
	}
	if p.XP >= float64(p.XPTarget) {
		p.XP = float64(p.XPTarget - 1)
	}
	return n - start
}
