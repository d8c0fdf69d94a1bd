// Package energy regenerates the player's energy bar from wall-clock time.
//
// Regeneration is lazy: it is applied whenever the player interacts, one
// point per elapsed whole Interval, and never above the profile's cap.
package energy

import (
	"time"

	"github.com/q587p/telegram-game-bot/internal/model"
)

// Interval is the time needed to regenerate one point of energy.
const Interval = time.Minute

// Tick reports what a Regenerate call did.
type Tick struct {
	Gained int  `json:"gained"`
	Energy int  `json:"energy"`
	Full   bool `json:"full"`
}

// Regenerate credits energy for every whole Interval elapsed since the last
// regeneration. The timestamp advances only by the credited intervals so the
// fractional remainder carries over; at the cap it advances by the whole
// elapsed span. Calling it again with the same now gains nothing.
func Regenerate(p *model.Profile, now time.Time) Tick {
	tick := Tick{Energy: p.Energy, Full: p.Energy >= p.EnergyMax}

	if p.LastRegenAt.IsZero() {
		p.LastRegenAt = now.UTC()
		return tick
	}
	elapsed := int(now.Sub(p.LastRegenAt) / Interval)
	if elapsed <= 0 {
		return tick
	}

	gain := min(elapsed, max(0, p.EnergyMax-p.Energy))
	if gain > 0 {
		p.Energy += gain
		p.LastRegenAt = p.LastRegenAt.Add(time.Duration(gain) * Interval)
	} else {
		p.LastRegenAt = p.LastRegenAt.Add(time.Duration(elapsed) * Interval)
	}

	tick.Gained = gain
	tick.Energy = p.Energy
	tick.Full = p.Energy >= p.EnergyMax
	return tick
}

// Spend debits n energy. It reports false and leaves the profile untouched
// when the balance is insufficient.
func Spend(p *model.Profile, n int) bool {
	if n < 0 || p.Energy < n {
		return false
	}
	p.Energy -= n
	return true
}

// Restore refills energy to the cap and restarts the regeneration clock.
func Restore(p *model.Profile, now time.Time) Tick {
	gained := max(0, p.EnergyMax-p.Energy)
	p.Energy = p.EnergyMax
	p.LastRegenAt = now.UTC()
	return Tick{Gained: gained, Energy: p.Energy, Full: true}
}
