// Package engine dispatches player actions against a profile and its
// optional portal quest.
//
// Every action first repairs the profile and applies energy regeneration,
// then runs the action handler. The engine never formats text: it returns
// a symbolic Result for the messaging layer to render.
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/q587p/telegram-game-bot/internal/game/energy"
	"github.com/q587p/telegram-game-bot/internal/game/outcome"
	"github.com/q587p/telegram-game-bot/internal/game/portal"
	"github.com/q587p/telegram-game-bot/internal/game/progression"
	"github.com/q587p/telegram-game-bot/internal/model"
)

// ShardXPReward is the xp granted for finding the portal shard.
const ShardXPReward = 1

// Rules holds the tunable amounts of the engine.
type Rules struct {
	// EnergyMax is enforced on every profile. Zero keeps the stored cap.
	EnergyMax int
	// EnergyCost is debited per random quest attempt.
	EnergyCost    int
	ShardXPReward int
	Outcome       outcome.Rules
}

// DefaultRules returns the standard tuning.
func DefaultRules() Rules {
	return Rules{
		EnergyMax:     model.DefaultEnergyMax,
		EnergyCost:    1,
		ShardXPReward: ShardXPReward,
		Outcome:       outcome.DefaultRules(),
	}
}

// SeedSource returns a seed for a new portal quest.
type SeedSource func(now time.Time) uint32

// ClockSeed mixes the wall clock with a random draw.
func ClockSeed(now time.Time) uint32 {
	return portal.NewSeed(now, rand.Uint32())
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeedSource overrides the portal seed source.
func WithSeedSource(s SeedSource) Option {
	return func(e *Engine) { e.seeds = s }
}

// WithRandomSource overrides the random quest source.
func WithRandomSource(src outcome.RandomSource) Option {
	return func(e *Engine) { e.rnd = src }
}

// Engine applies actions. It holds no per-player state and is safe for
// concurrent use as long as callers serialize actions per player.
type Engine struct {
	rules Rules
	rnd   outcome.RandomSource
	seeds SeedSource
}

// New creates an engine.
func New(rules Rules, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		rnd:   outcome.NewRandomSource(),
		seeds: ClockSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine tuning.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Apply runs one action. The profile is updated in place; the returned
// quest replaces the caller's (nil once the quest has ended).
func (e *Engine) Apply(p *model.Profile, q *portal.Quest, a Action, now time.Time) (*portal.Quest, Result) {
	p.Normalize(now)
	e.applyCap(p)
	if q != nil && (!q.Active || q.Validate() != nil) {
		q = nil
	}

	active := q != nil
	tick := energy.Regenerate(p, now)

	var res Result
	switch a.Kind {
	case ActionViewProfile:
		res = e.viewProfile(p, q)
	case ActionRandomQuest:
		res = e.randomQuest(p, q)
	case ActionPortalEnter:
		q, res = e.enterPortal(p, q, now)
	case ActionPortalDecline:
		res = Result{Kind: ResultPortalDeclined}
		v := View(p, q != nil)
		res.Profile = &v
	case ActionQuestLook:
		res = e.look(p, q)
	case ActionQuestMove:
		q, res = e.move(p, q, a.Direction)
	case ActionQuestSurrender:
		q, res = e.surrender(p, q)
	case ActionProfileReset:
		*p = model.Reset(now)
		e.applyCap(p)
		q = nil
		tick = energy.Tick{}
		v := View(p, false)
		res = Result{Kind: ResultProfileReset, Profile: &v}
	case ActionRestore:
		energy.Restore(p, now)
		res = Result{Kind: ResultEnergyRestored}
	case ActionTutorial:
		p.HasSeenIntro = true
		res = Result{Kind: ResultTutorialShown, Tutorial: tutorialStage(p, q != nil)}
	case ActionNoop:
		res = Result{Kind: ResultNoop}
	default:
		res = Result{Kind: ResultInvalidAction}
	}

	// The regen notice is only surfaced when no quest was active on arrival.
	if tick.Gained > 0 && !active {
		res.Regen = &tick
	}

	e.snapshot(&res, p, q)
	return q, res
}

func (e *Engine) applyCap(p *model.Profile) {
	if e.rules.EnergyMax <= 0 || p.EnergyMax == e.rules.EnergyMax {
		return
	}
	p.EnergyMax = e.rules.EnergyMax
	p.Energy = min(p.Energy, p.EnergyMax)
}

func (e *Engine) snapshot(res *Result, p *model.Profile, q *portal.Quest) {
	res.Energy = p.Energy
	res.EnergyMax = p.EnergyMax
	res.Currency = p.Currency
	res.Level = p.Level
	res.XP = p.XP
	res.XPTarget = p.XPTarget

	if q == nil {
		if res.State == "" {
			res.State = portal.StateNone
		}
		return
	}
	res.State = portal.StateActive
	res.MoveCount = q.MoveCount
	if res.Map == nil {
		res.Map = q.Render()
	}
}

func (e *Engine) viewProfile(p *model.Profile, q *portal.Quest) Result {
	p.HasSeenIntro = true
	v := View(p, q != nil)
	return Result{Kind: ResultProfileShown, Profile: &v}
}

func (e *Engine) randomQuest(p *model.Profile, q *portal.Quest) Result {
	if q != nil {
		return Result{Kind: ResultQuestAlreadyActive}
	}
	if !energy.Spend(p, e.rules.EnergyCost) {
		return Result{Kind: ResultNoEnergy, Required: e.rules.EnergyCost}
	}

	out := e.rules.Outcome.Roll(p, e.rnd)
	res := Result{Kind: ResultOutcomeRolled, Outcome: &out}
	if out.LevelUp.LeveledUp {
		lu := out.LevelUp
		res.LevelUp = &lu
	}
	res.XPGained = out.XPGained
	return res
}

func (e *Engine) enterPortal(p *model.Profile, q *portal.Quest, now time.Time) (*portal.Quest, Result) {
	if q != nil {
		return q, Result{Kind: ResultQuestAlreadyActive}
	}
	if !e.rules.Outcome.EnterPortal(p) {
		return nil, Result{Kind: ResultInsufficientCurrency, Required: e.rules.Outcome.PortalCost}
	}

	seed := e.seeds(now)
	q = portal.Start(seed)
	return q, Result{Kind: ResultPortalEntered, Seed: &seed}
}

func (e *Engine) look(p *model.Profile, q *portal.Quest) Result {
	if q == nil {
		return Result{Kind: ResultNoActiveQuest}
	}
	q.Look()
	adv := progression.Train(p, model.SkillLurking)
	return Result{Kind: ResultQuestProgress, Skill: &adv}
}

func (e *Engine) move(p *model.Profile, q *portal.Quest, dir portal.Direction) (*portal.Quest, Result) {
	if q == nil {
		return nil, Result{Kind: ResultNoActiveQuest}
	}
	if _, ok := portal.ParseDirection(string(dir)); !ok {
		return q, Result{Kind: ResultInvalidAction}
	}

	res := Result{Kind: ResultQuestProgress}
	res.Moved = q.Move(dir)
	res.Bumped = q.LastBump
	if !res.Moved {
		return q, res
	}

	adv := progression.Train(p, model.SkillMoving)
	res.Skill = &adv
	if !q.Found() {
		return q, res
	}

	// Shard found: reward, count, render the final board, then drop the quest.
	res.Kind = ResultQuestSucceeded
	res.XPGained = e.rules.ShardXPReward
	p.ShardsFound++
	p.QuestsSucceeded++
	p.ShardQuestsSucceeded++
	p.ShardMovesTotal += q.MoveCount
	lu := progression.ApplyXP(p, float64(e.rules.ShardXPReward))
	res.LevelUp = &lu
	res.Map = q.Render()
	res.MoveCount = q.MoveCount

	q.Finish()
	res.State = portal.StateSucceeded
	res.Run = &RunSummary{RunID: q.RunID, Seed: q.Seed, Moves: q.MoveCount, State: portal.StateSucceeded}
	return nil, res
}

func (e *Engine) surrender(p *model.Profile, q *portal.Quest) (*portal.Quest, Result) {
	if q == nil {
		return nil, Result{Kind: ResultNoActiveQuest}
	}
	p.QuestsFailed++
	q.Finish()
	return nil, Result{
		Kind:      ResultQuestSurrendered,
		State:     portal.StateSurrendered,
		MoveCount: q.MoveCount,
		Run:       &RunSummary{RunID: q.RunID, Seed: q.Seed, Moves: q.MoveCount, State: portal.StateSurrendered},
	}
}
