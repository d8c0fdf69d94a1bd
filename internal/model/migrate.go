package model

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Legacy field synonyms. The first key is the current name; later keys are
// older names read only when the current one is absent.
var (
	keysEnergy       = []string{"energy", "stamina"}
	keysEnergyMax    = []string{"energyMax", "staminaMax"}
	keysCurrency     = []string{"currency", "ether", "aether"}
	keysShardsFound  = []string{"shardsFound", "crystalsFound"}
	keysHasSeenIntro = []string{"hasSeenIntro", "seenStart"}
	keysVersionSeen  = []string{"schemaVersionSeen", "lastSeenVersion"}
)

// legacySkills maps old skill keys to their successors.
var legacySkills = map[string]string{
	"lurk": SkillLurking,
	"move": SkillMoving,
}

// Migrate decodes a persisted profile of any schema version.
// It is total: unparseable input yields a fresh profile, missing fields get
// their defaults and legacy fields are translated to their successors.
// Migrating an already migrated profile is a no-op.
func Migrate(raw []byte, now time.Time) Profile {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return NewProfile(now)
	}
	return MigrateMap(m, now)
}

// MigrateMap is Migrate for an already decoded JSON object.
func MigrateMap(m map[string]any, now time.Time) Profile {
	p := Profile{
		Level:                intField(m, "level"),
		XP:                   floatField(m, "xp"),
		XPTarget:             intField(m, "xpTarget"),
		Energy:               intField(m, keysEnergy...),
		EnergyMax:            intField(m, keysEnergyMax...),
		Currency:             intField(m, keysCurrency...),
		ShardsFound:          intField(m, keysShardsFound...),
		QuestsStarted:        intField(m, "questsStarted"),
		QuestsSucceeded:      intField(m, "questsSucceeded"),
		QuestsFailed:         intField(m, "questsFailed"),
		ShardMovesTotal:      intField(m, "shardMovesTotal"),
		ShardQuestsSucceeded: intField(m, "shardQuestsSucceeded"),
		HasSeenIntro:         boolField(m, keysHasSeenIntro...),
		SchemaVersionSeen:    stringField(m, keysVersionSeen...),
		LastRegenAt:          regenField(m),
		Skills:               skillsField(m),
	}

	// Absent energy means a full bar.
	if !hasAny(m, keysEnergy...) {
		p.Energy = DefaultEnergyMax
		if p.EnergyMax > 0 {
			p.Energy = p.EnergyMax
		}
	}

	p.Normalize(now)
	return p
}

func hasAny(m map[string]any, keys ...string) bool {
	_, ok := number(m, keys...)
	return ok
}

// number reads the first present numeric key. Numeric strings are accepted.
func number(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			return v, true
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			return f, true
		}
	}
	return 0, false
}

func intField(m map[string]any, keys ...string) int {
	f, _ := number(m, keys...)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < 0 {
		return 0
	}
	return int(f)
}

func floatField(m map[string]any, keys ...string) float64 {
	f, _ := number(m, keys...)
	return f
}

func boolField(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := m[k].(bool); ok {
			return b
		}
	}
	return false
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

// regenField reads lastRegenAt (RFC 3339 or epoch ms) or the legacy
// lastStaminaTs (epoch ms). Zero when absent; Normalize fills it in.
func regenField(m map[string]any) time.Time {
	if s, ok := m["lastRegenAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC()
		}
	}
	if ms, ok := number(m, "lastRegenAt", "lastStaminaTs"); ok && ms > 0 {
		return time.UnixMilli(int64(ms)).UTC()
	}
	return time.Time{}
}

func skillsField(m map[string]any) map[string]float64 {
	out := make(map[string]float64, 2)
	raw, ok := m["skills"].(map[string]any)
	if !ok {
		return out
	}
	for name := range raw {
		if _, legacy := legacySkills[name]; legacy {
			continue
		}
		if v, ok := number(raw, name); ok {
			out[name] = v
		}
	}
	for old, current := range legacySkills {
		if _, ok := out[current]; ok {
			continue
		}
		if v, ok := number(raw, old); ok {
			out[current] = v
		}
	}
	return out
}
