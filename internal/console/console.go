// Package console is a line-oriented front-end for playing locally.
//
// Each input line is one command. Commands mirror the bot's buttons and
// slash commands; results are printed with the bot's map glyphs.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/q587p/telegram-game-bot/internal/engine"
	"github.com/q587p/telegram-game-bot/internal/game/portal"
	"github.com/q587p/telegram-game-bot/internal/session"
)

// ErrUnknownCommand is returned by ParseCommand.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a parsed input line.
type Command struct {
	Action engine.Action
	// Local commands are answered without touching the session.
	Local string
}

const (
	localHelp    = "help"
	localVersion = "version"
	localQuit    = "quit"
)

var commands = map[string]engine.Action{
	"/start":    engine.Do(engine.ActionViewProfile),
	"/me":       engine.Do(engine.ActionViewProfile),
	"me":        engine.Do(engine.ActionViewProfile),
	"/quest":    engine.Do(engine.ActionRandomQuest),
	"quest":     engine.Do(engine.ActionRandomQuest),
	"enter":     engine.Do(engine.ActionPortalEnter),
	"skip":      engine.Do(engine.ActionPortalDecline),
	"look":      engine.Do(engine.ActionQuestLook),
	"up":        engine.Move(portal.Up),
	"down":      engine.Move(portal.Down),
	"left":      engine.Move(portal.Left),
	"right":     engine.Move(portal.Right),
	"⬆️":        engine.Move(portal.Up),
	"⬇️":        engine.Move(portal.Down),
	"⬅️":        engine.Move(portal.Left),
	"➡️":        engine.Move(portal.Right),
	"surrender": engine.Do(engine.ActionQuestSurrender),
	"/restart":  engine.Do(engine.ActionProfileReset),
	"/restore":  engine.Do(engine.ActionRestore),
	"/tutorial": engine.Do(engine.ActionTutorial),
	"/noop":     engine.Do(engine.ActionNoop),
}

var locals = map[string]string{
	"/help":    localHelp,
	"help":     localHelp,
	"/version": localVersion,
	"/quit":    localQuit,
	"quit":     localQuit,
	"exit":     localQuit,
}

// ParseCommand parses one input line. Matching is case-insensitive.
func ParseCommand(line string) (Command, error) {
	word := strings.ToLower(strings.TrimSpace(line))
	if a, ok := commands[word]; ok {
		return Command{Action: a}, nil
	}
	if l, ok := locals[word]; ok {
		return Command{Local: l}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, word)
}

const helpText = `Commands:
  /me           show your profile
  /quest        go lurking (costs 1 energy)
  enter, skip   accept or decline a portal
  look          reveal the cells around you
  up, down, left, right
  surrender     leave the portal
  /tutorial     what to do next
  /restart      wipe all progress
  /version, /help, /quit`

// Console plays as one player against a session manager.
type Console struct {
	sessions *session.Manager
	key      string
	version  string
	out      io.Writer
}

// New creates a Console writing to out.
func New(sessions *session.Manager, key, version string, out io.Writer) *Console {
	return &Console{sessions: sessions, key: key, version: version, out: out}
}

// Run reads commands from in until EOF, /quit or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.println(titleStyle.Render("Lurker " + c.version))
	c.println(mutedStyle.Render("Type /help for commands."))

	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(c.out, "> ")
		if !sc.Scan() {
			break
		}
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		quit, err := c.Exec(ctx, sc.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// Exec runs one command line. Unknown commands print a hint, they are not
// errors; only storage failures are.
func (c *Console) Exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		c.println(warnStyle.Render("Unknown command. Type /help."))
		return false, nil
	}

	switch cmd.Local {
	case localHelp:
		c.println(helpText)
		return false, nil
	case localVersion:
		c.println(labelValue("Version", c.version))
		return false, nil
	case localQuit:
		return true, nil
	}

	res, err := c.sessions.Apply(ctx, c.key, cmd.Action)
	if err != nil {
		return false, fmt.Errorf("applying %s: %w", cmd.Action.Kind, err)
	}
	for _, l := range Render(res) {
		c.println(l)
	}
	return false, nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
