package engine

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/q587p/telegram-game-bot/internal/game/energy"
	"github.com/q587p/telegram-game-bot/internal/game/outcome"
	"github.com/q587p/telegram-game-bot/internal/game/portal"
	"github.com/q587p/telegram-game-bot/internal/game/progression"
	"github.com/q587p/telegram-game-bot/internal/model"
)

// ResultKind tells the messaging layer what happened.
type ResultKind string

const (
	ResultProfileShown         ResultKind = "profile_shown"
	ResultNoEnergy             ResultKind = "no_energy"
	ResultOutcomeRolled        ResultKind = "outcome_rolled"
	ResultPortalEntered        ResultKind = "portal_entered"
	ResultPortalDeclined       ResultKind = "portal_declined"
	ResultInsufficientCurrency ResultKind = "insufficient_currency"
	ResultNoActiveQuest        ResultKind = "no_active_quest"
	ResultQuestAlreadyActive   ResultKind = "quest_already_active"
	ResultQuestProgress        ResultKind = "quest_progress"
	ResultQuestSucceeded       ResultKind = "quest_succeeded"
	ResultQuestSurrendered     ResultKind = "quest_surrendered"
	ResultProfileReset         ResultKind = "profile_reset"
	ResultEnergyRestored       ResultKind = "energy_restored"
	ResultTutorialShown        ResultKind = "tutorial_shown"
	ResultInvalidAction        ResultKind = "invalid_action"
	ResultNoop                 ResultKind = "noop"
)

// TutorialStage selects the tutorial step shown to the player.
type TutorialStage string

const (
	TutorialStartQuest    TutorialStage = "start_quest"
	TutorialCompleteQuest TutorialStage = "complete_quest"
	TutorialReachLevelOne TutorialStage = "reach_level_one"
	TutorialInDevelopment TutorialStage = "in_development"
)

// Result is the symbolic outcome of one action. It never carries
// user-facing text.
type Result struct {
	Kind ResultKind `json:"kind"`

	// Regen is set when energy regenerated before the action and no quest
	// was active.
	Regen *energy.Tick `json:"regen,omitempty"`

	Outcome  *outcome.Outcome          `json:"outcome,omitempty"`
	Map      portal.Grid               `json:"map,omitempty"`
	Moved    bool                      `json:"moved,omitempty"`
	Bumped   *portal.Direction         `json:"bumped,omitempty"`
	Skill    *progression.SkillAdvance `json:"skill,omitempty"`
	LevelUp  *progression.LevelUp      `json:"levelUp,omitempty"`
	XPGained int                       `json:"xpGained,omitempty"`

	// Required is the cost the player could not pay.
	Required int `json:"required,omitempty"`

	Seed      *uint32      `json:"seed,omitempty"`
	State     portal.State `json:"questState"`
	MoveCount int          `json:"moveCount,omitempty"`

	// Run is set when a portal quest ended with this action.
	Run *RunSummary `json:"run,omitempty"`

	Profile  *ProfileView  `json:"profile,omitempty"`
	Tutorial TutorialStage `json:"tutorial,omitempty"`

	Energy    int     `json:"energy"`
	EnergyMax int     `json:"energyMax"`
	Currency  int     `json:"currency"`
	Level     int     `json:"level"`
	XP        float64 `json:"xp"`
	XPTarget  int     `json:"xpTarget"`
}

// RunSummary describes a finished portal quest.
type RunSummary struct {
	RunID string       `json:"runId"`
	Seed  uint32       `json:"seed"`
	Moves int          `json:"moves"`
	State portal.State `json:"state"`
}

// SkillView is an unlocked skill as shown on the profile.
type SkillView struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// ProfileView is the data shown by the profile screen.
type ProfileView struct {
	Level     int     `json:"level"`
	XP        float64 `json:"xp"`
	XPTarget  int     `json:"xpTarget"`
	Percent   float64 `json:"percent"`
	Energy    int     `json:"energy"`
	EnergyMax int     `json:"energyMax"`
	Currency  int     `json:"currency"`

	ShardsFound     int      `json:"shardsFound"`
	AvgMovesToShard *float64 `json:"avgMovesToShard,omitempty"`

	QuestsStarted   int `json:"questsStarted"`
	QuestsSucceeded int `json:"questsSucceeded"`
	QuestsFailed    int `json:"questsFailed"`

	Skills []SkillView `json:"skills,omitempty"`

	QuestActive bool `json:"questActive"`
	// FirstQuestNotice is set until the first portal quest succeeds.
	FirstQuestNotice bool `json:"firstQuestNotice"`
}

// View builds the profile screen data.
func View(p *model.Profile, questActive bool) ProfileView {
	v := ProfileView{
		Level:            p.Level,
		XP:               p.XP,
		XPTarget:         p.XPTarget,
		Percent:          ratio(p.XP*100, float64(p.XPTarget)),
		Energy:           p.Energy,
		EnergyMax:        p.EnergyMax,
		Currency:         p.Currency,
		ShardsFound:      p.ShardsFound,
		QuestsStarted:    p.QuestsStarted,
		QuestsSucceeded:  p.QuestsSucceeded,
		QuestsFailed:     p.QuestsFailed,
		QuestActive:      questActive,
		FirstQuestNotice: p.QuestsSucceeded == 0,
	}

	if p.ShardQuestsSucceeded > 0 {
		avg := ratio(float64(p.ShardMovesTotal), float64(p.ShardQuestsSucceeded))
		v.AvgMovesToShard = &avg
	}

	for name, level := range p.Skills {
		if int(level) >= 1 {
			v.Skills = append(v.Skills, SkillView{Name: name, Level: int(level)})
		}
	}
	slices.SortFunc(v.Skills, func(a, b SkillView) int {
		if c := cmp.Compare(skillRank(a.Name), skillRank(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return v
}

// skillRank puts the built-in skills first.
func skillRank(name string) int {
	switch name {
	case model.SkillLurking:
		return 0
	case model.SkillMoving:
		return 1
	default:
		return 2
	}
}

// ratio divides and rounds to two decimal places. Zero when den <= 0.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	f, _ := decimal.NewFromFloat(num).
		DivRound(decimal.NewFromFloat(den), 2).
		Float64()
	return f
}

// tutorialStage picks the tutorial step for the player's progress.
func tutorialStage(p *model.Profile, questActive bool) TutorialStage {
	switch {
	case questActive:
		return TutorialCompleteQuest
	case p.QuestsSucceeded == 0:
		return TutorialStartQuest
	case p.Level < 1:
		return TutorialReachLevelOne
	default:
		return TutorialInDevelopment
	}
}
