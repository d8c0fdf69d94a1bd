package engine

import (
	"errors"
	"fmt"

	"github.com/q587p/telegram-game-bot/internal/game/portal"
)

// Sentinel errors for action parsing.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrBadDirection  = errors.New("bad direction")
)

// ActionKind names a player intent.
type ActionKind string

const (
	ActionViewProfile    ActionKind = "profile.view"
	ActionRandomQuest    ActionKind = "quest.random"
	ActionPortalEnter    ActionKind = "portal.enter"
	ActionPortalDecline  ActionKind = "portal.decline"
	ActionQuestLook      ActionKind = "quest.look"
	ActionQuestMove      ActionKind = "quest.move"
	ActionQuestSurrender ActionKind = "quest.surrender"
	ActionProfileReset   ActionKind = "profile.reset"
	ActionRestore        ActionKind = "energy.restore"
	ActionTutorial       ActionKind = "tutorial"
	ActionNoop           ActionKind = "noop"
)

var knownActions = map[ActionKind]struct{}{
	ActionViewProfile:    {},
	ActionRandomQuest:    {},
	ActionPortalEnter:    {},
	ActionPortalDecline:  {},
	ActionQuestLook:      {},
	ActionQuestMove:      {},
	ActionQuestSurrender: {},
	ActionProfileReset:   {},
	ActionRestore:        {},
	ActionTutorial:       {},
	ActionNoop:           {},
}

// Action is one inbound player intent.
type Action struct {
	Kind      ActionKind       `json:"action"`
	Direction portal.Direction `json:"direction,omitempty"`
}

// Move returns a quest.move action.
func Move(dir portal.Direction) Action {
	return Action{Kind: ActionQuestMove, Direction: dir}
}

// Do returns an action without arguments.
func Do(kind ActionKind) Action {
	return Action{Kind: kind}
}

// ParseAction validates an action name and its direction argument.
func ParseAction(kind, direction string) (Action, error) {
	k := ActionKind(kind)
	if _, ok := knownActions[k]; !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
	if k != ActionQuestMove {
		return Action{Kind: k}, nil
	}
	dir, ok := portal.ParseDirection(direction)
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrBadDirection, direction)
	}
	return Move(dir), nil
}
