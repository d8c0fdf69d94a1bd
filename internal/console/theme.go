package console

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/q587p/telegram-game-bot/internal/game/portal"
)

// Map glyphs.
const (
	GlyphFog    = "⬛"
	GlyphFloor  = "🟫"
	GlyphWall   = "🧱"
	GlyphPlayer = "📍"
	GlyphShard  = "🔮"
)

var glyphs = map[portal.Cell]string{
	portal.CellFog:    GlyphFog,
	portal.CellFloor:  GlyphFloor,
	portal.CellWall:   GlyphWall,
	portal.CellPlayer: GlyphPlayer,
	portal.CellTarget: GlyphShard,
}

var (
	cPrimary = lipgloss.Color("63")  // blue
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cError   = lipgloss.Color("196") // red
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	keyStyle   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	goodStyle  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	goldStyle  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	mutedStyle = lipgloss.NewStyle().Foreground(cMuted)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(cError)
	panelStyle = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func labelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", keyStyle.Render(label+":"), value)
}

// ErrorLine formats err for the terminal.
func ErrorLine(err error) string {
	return errorStyle.Render("Error:") + " " + err.Error()
}
