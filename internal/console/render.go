package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/q587p/telegram-game-bot/internal/engine"
	"github.com/q587p/telegram-game-bot/internal/game/outcome"
	"github.com/q587p/telegram-game-bot/internal/game/portal"
	"github.com/q587p/telegram-game-bot/internal/model"
)

// RenderMap draws a grid with one glyph per cell and one line per row.
func RenderMap(g portal.Grid) string {
	var b strings.Builder
	for i, row := range g {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			b.WriteString(glyphs[c])
		}
	}
	return b.String()
}

var skillNames = map[string]string{
	model.SkillLurking: "Lurking",
	model.SkillMoving:  "Moving",
}

func skillName(skill string) string {
	if n, ok := skillNames[skill]; ok {
		return n
	}
	return skill
}

// Render turns a result into the lines shown to the player.
func Render(res engine.Result) []string {
	var lines []string

	if res.Regen != nil {
		if res.Regen.Full {
			lines = append(lines, goodStyle.Render("⚡ Energy is full."))
		} else {
			lines = append(lines, fmt.Sprintf("⚡ +%d energy (%d/%d).", res.Regen.Gained, res.Regen.Energy, res.EnergyMax))
		}
	}

	switch res.Kind {
	case engine.ResultProfileShown, engine.ResultPortalDeclined, engine.ResultProfileReset:
		if res.Kind == engine.ResultProfileReset {
			lines = append(lines, warnStyle.Render("Progress wiped. A fresh start."))
		}
		if res.Profile != nil {
			lines = append(lines, renderProfile(*res.Profile))
		}
	case engine.ResultNoEnergy:
		lines = append(lines, warnStyle.Render("Too tired. Energy regenerates one point per minute."))
	case engine.ResultOutcomeRolled:
		lines = append(lines, renderOutcome(*res.Outcome)...)
	case engine.ResultPortalEntered:
		lines = append(lines, titleStyle.Render("You step through the portal."))
		if res.Seed != nil {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("seed %d", *res.Seed)))
		}
		lines = append(lines, "Find the shard 🔮. Commands: look, up, down, left, right, surrender.")
	case engine.ResultInsufficientCurrency:
		lines = append(lines, warnStyle.Render(fmt.Sprintf("The portal needs %d ✨, you have %d.", res.Required, res.Currency)))
	case engine.ResultNoActiveQuest:
		lines = append(lines, mutedStyle.Render("You are not in a portal."))
	case engine.ResultQuestAlreadyActive:
		lines = append(lines, mutedStyle.Render("Finish the portal quest first."))
	case engine.ResultQuestProgress:
		if res.Bumped != nil {
			lines = append(lines, "A wall blocks the way.")
		}
	case engine.ResultQuestSucceeded:
		lines = append(lines, goldStyle.Render(fmt.Sprintf("🔮 Shard found in %d moves! +%d xp", res.MoveCount, res.XPGained)))
	case engine.ResultQuestSurrendered:
		lines = append(lines, mutedStyle.Render("You leave the portal empty-handed."))
	case engine.ResultEnergyRestored:
		lines = append(lines, goodStyle.Render(fmt.Sprintf("Energy restored (%d/%d).", res.Energy, res.EnergyMax)))
	case engine.ResultTutorialShown:
		lines = append(lines, renderTutorial(res.Tutorial))
	case engine.ResultInvalidAction:
		lines = append(lines, warnStyle.Render("That does not work here."))
	}

	if res.Skill != nil && res.Skill.Milestone != nil {
		if res.Skill.FirstUnlock {
			lines = append(lines, goodStyle.Render(fmt.Sprintf("New skill unlocked: %s %d", skillName(res.Skill.Skill), *res.Skill.Milestone)))
		} else {
			lines = append(lines, goodStyle.Render(fmt.Sprintf("%s improved to %d", skillName(res.Skill.Skill), *res.Skill.Milestone)))
		}
	}
	if res.LevelUp != nil && res.LevelUp.LeveledUp {
		lines = append(lines, goldStyle.Render(fmt.Sprintf("LEVEL UP! You are now level %d.", res.LevelUp.Level)))
	}
	if len(res.Map) > 0 {
		lines = append(lines, RenderMap(res.Map))
	}
	return lines
}

func renderOutcome(o outcome.Outcome) []string {
	switch o.Kind {
	case outcome.XPGain:
		return []string{fmt.Sprintf("You lurk around and learn something. +%d xp", o.XPGained)}
	case outcome.NoGain:
		return []string{mutedStyle.Render("You lurk around. Nothing happens.")}
	case outcome.CurrencyGain:
		return []string{fmt.Sprintf("You find %d ✨ (now %d).", o.CurrencyGained, o.Currency)}
	default:
		if o.CanEnter {
			return []string{titleStyle.Render(fmt.Sprintf("A portal shimmers ahead. Type enter to pay %d ✨ or skip.", o.PortalCost))}
		}
		return []string{mutedStyle.Render(fmt.Sprintf("A portal shimmers ahead, but entry costs %d ✨.", o.PortalCost))}
	}
}

func renderProfile(v engine.ProfileView) string {
	rows := []string{
		titleStyle.Render("Profile"),
		labelValue("Level", fmt.Sprintf("%d (%g/%d xp, %g%%)", v.Level, v.XP, v.XPTarget, v.Percent)),
		labelValue("Energy", fmt.Sprintf("%d/%d", v.Energy, v.EnergyMax)),
		labelValue("Currency", fmt.Sprintf("%d ✨", v.Currency)),
	}
	if v.ShardsFound > 0 {
		shards := fmt.Sprintf("%d", v.ShardsFound)
		if v.AvgMovesToShard != nil {
			shards += fmt.Sprintf(" (avg %.2f moves)", *v.AvgMovesToShard)
		}
		rows = append(rows, labelValue("Shards", shards))
	}
	if len(v.Skills) > 0 {
		parts := make([]string, 0, len(v.Skills))
		for _, s := range v.Skills {
			parts = append(parts, fmt.Sprintf("%s %d", skillName(s.Name), s.Level))
		}
		rows = append(rows, labelValue("Skills", strings.Join(parts, ", ")))
	}
	if v.QuestActive {
		rows = append(rows, mutedStyle.Render("You are inside a portal."))
	} else if v.FirstQuestNotice {
		rows = append(rows, mutedStyle.Render("Try /quest to go lurking."))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderTutorial(stage engine.TutorialStage) string {
	switch stage {
	case engine.TutorialStartQuest:
		return "Step 1: type /quest until a portal appears, then enter it."
	case engine.TutorialCompleteQuest:
		return "Step 2: find the shard. look reveals the cells around you."
	case engine.TutorialReachLevelOne:
		return "Step 3: keep lurking until you reach level 1."
	default:
		return mutedStyle.Render("More is in development.")
	}
}
