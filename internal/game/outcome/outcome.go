// Package outcome rolls the result of a random quest attempt.
//
// Each attempt costs one energy (debited by the caller) and resolves to one
// of four equally likely outcomes: a small xp gain, nothing, a handful of
// currency, or the offer to enter the portal quest.
package outcome

import (
	"math/rand/v2"

	"github.com/q587p/telegram-game-bot/internal/game/progression"
	"github.com/q587p/telegram-game-bot/internal/model"
)

// Tuning constants.
const (
	// QuestXPReward is granted by an XPGain outcome.
	QuestXPReward = 1

	// MinCurrencyGain and MaxCurrencyGain bound a CurrencyGain outcome.
	MinCurrencyGain = 1
	MaxCurrencyGain = 5

	// PortalCost is the currency debited on portal entry.
	PortalCost = 13
)

// Kind enumerates the outcomes of a random quest.
type Kind string

const (
	XPGain       Kind = "xp_gain"
	NoGain       Kind = "no_gain"
	CurrencyGain Kind = "currency_gain"
	PortalOffer  Kind = "portal_offer"
)

// RandomSource supplies the randomness for outcome rolls.
// Tests substitute a scripted source.
type RandomSource interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// NewRandomSource returns a RandomSource backed by math/rand/v2.
func NewRandomSource() RandomSource {
	return globalSource{}
}

// Rules holds the tunable amounts of the selector.
type Rules struct {
	XPReward   int
	PortalCost int
}

// DefaultRules returns the standard tuning.
func DefaultRules() Rules {
	return Rules{
		XPReward:   QuestXPReward,
		PortalCost: PortalCost,
	}
}

// Outcome is the symbolic result of a roll. CanEnter is set on a
// PortalOffer when the player can pay the entry cost.
type Outcome struct {
	Kind           Kind                `json:"kind"`
	Roll           float64             `json:"roll"`
	XPGained       int                 `json:"xpGained,omitempty"`
	LevelUp        progression.LevelUp `json:"levelUp"`
	CurrencyGained int                 `json:"currencyGained,omitempty"`
	Currency       int                 `json:"currency"`
	CanEnter       bool                `json:"canEnter,omitempty"`
	PortalCost     int                 `json:"portalCost,omitempty"`
}

// Classify maps a uniform draw to an outcome kind.
func Classify(r float64) Kind {
	switch {
	case r < 0.25:
		return XPGain
	case r < 0.50:
		return NoGain
	case r < 0.75:
		return CurrencyGain
	default:
		return PortalOffer
	}
}

// Roll resolves one random quest attempt. The caller has already verified
// and debited the energy cost. QuestsStarted is incremented for every roll.
func (r Rules) Roll(p *model.Profile, src RandomSource) Outcome {
	p.QuestsStarted++

	draw := src.Float64()
	out := Outcome{Kind: Classify(draw), Roll: draw}

	switch out.Kind {
	case XPGain:
		out.XPGained = r.XPReward
		out.LevelUp = progression.ApplyXP(p, float64(r.XPReward))
	case CurrencyGain:
		out.CurrencyGained = MinCurrencyGain + src.IntN(MaxCurrencyGain-MinCurrencyGain+1)
		p.Currency += out.CurrencyGained
	case PortalOffer:
		out.CanEnter = p.Currency >= r.PortalCost
		out.PortalCost = r.PortalCost
	}

	out.Currency = p.Currency
	return out
}

// EnterPortal re-validates the balance and debits the portal cost. It
// reports false without touching the profile when the player cannot pay.
func (r Rules) EnterPortal(p *model.Profile) bool {
	if p.Currency < r.PortalCost {
		return false
	}
	p.Currency -= r.PortalCost
	return true
}
