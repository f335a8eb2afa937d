// Package shell is a line-oriented front end to a play.Controller.
//
// Commands:
//
//	levels              list the catalog
//	level <id>          select a level (restores saved progress)
//	put <r-c> <text>    enter a letter; empty text clears
//	del <r-c>           clear a letter
//	focus <r-c>         tap a cell
//	clue <id>           show a clue's hint path
//	dir across|down     set the typing direction
//	reset               erase progress of the current level
//	show                print the board
//	help                this list
//	quit | exit         leave
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/robalobadob/crossclue/internal/game"
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
	"github.com/robalobadob/crossclue/internal/play"
)

// ErrQuit is returned by Exec when the user asks to leave.
var ErrQuit = errors.New("quit")

const usage = `levels              list the catalog
level <id>          select a level
put <r-c> <text>    enter a letter (empty text clears)
del <r-c>           clear a letter
focus <r-c>         tap a cell
clue <id>           show a clue's hint path
dir across|down     set the typing direction
reset               erase progress of the current level
show                print the board
quit                leave`

// Shell executes commands against one controller and writes to out.
type Shell struct {
	ctrl  *play.Controller
	focus *play.Recorder
	out   io.Writer
	// cursor is the last focused cell, shown in the board.
	cursor    grid.Position
	hasCursor bool
}

// New returns a shell driving ctrl. rec must be the controller's focus sink.
func New(ctrl *play.Controller, rec *play.Recorder, out io.Writer) *Shell {
	return &Shell{ctrl: ctrl, focus: rec, out: out}
}

// Prompt returns the prompt text for the current state.
func (sh *Shell) Prompt() string {
	b, err := sh.ctrl.Board()
	if err != nil {
		return "crossclue> "
	}
	return fmt.Sprintf("crossclue [%s]> ", b.Level)
}

type command func(ctx context.Context, args []string) error

func (sh *Shell) commands() map[string]command {
	return map[string]command{
		"help":   sh.help,
		"levels": sh.levels,
		"level":  sh.level,
		"put":    sh.put,
		"del":    sh.del,
		"focus":  sh.tap,
		"clue":   sh.clue,
		"dir":    sh.dir,
		"reset":  sh.reset,
		"show":   sh.show,
		"quit":   func(context.Context, []string) error { return ErrQuit },
		"exit":   func(context.Context, []string) error { return ErrQuit },
	}
}

// Exec runs one input line. Blank lines are ignored.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	fields, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := sh.commands()[strings.ToLower(fields[0])]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	return cmd(ctx, fields[1:])
}

func (sh *Shell) printf(format string, a ...any) {
	fmt.Fprintf(sh.out, format, a...)
}

func (sh *Shell) help(context.Context, []string) error {
	sh.printf("%s\n", usage)
	return nil
}

func (sh *Shell) levels(context.Context, []string) error {
	c := sh.ctrl.Catalog()
	for i := 0; i < c.Len(); i++ {
		l := c.At(i)
		sh.printf("%-16s %s (%dx%d)\n", l.ID, l.Title, l.Rows(), l.Cols())
	}
	return nil
}

func (sh *Shell) level(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: level <id>")
	}
	if err := sh.ctrl.SelectLevel(ctx, args[0]); err != nil {
		if errors.Is(err, level.ErrUnknownLevel) {
			return fmt.Errorf("no level %q", args[0])
		}
		return err
	}
	sh.focus.Drain()
	sh.hasCursor = false
	return sh.show(ctx, nil)
}

func parsePos(args []string, n int, use string) (grid.Position, error) {
	if len(args) < n {
		return grid.Position{}, errors.New("usage: " + use)
	}
	return grid.ParsePosition(args[0])
}

func (sh *Shell) put(ctx context.Context, args []string) error {
	p, err := parsePos(args, 1, "put <r-c> <text>")
	if err != nil {
		return err
	}
	text := ""
	if len(args) > 1 {
		text = args[1]
	}
	res, err := sh.ctrl.SubmitLetter(p, text)
	if err != nil {
		return err
	}
	switch {
	case !res.Accepted:
		sh.printf("%s is locked\n", p.Key())
	case res.BecameCorrect:
		sh.printf("%s locked in\n", p.Key())
	}
	sh.moveCursor()
	return sh.show(ctx, nil)
}

func (sh *Shell) del(ctx context.Context, args []string) error {
	p, err := parsePos(args, 1, "del <r-c>")
	if err != nil {
		return err
	}
	res, err := sh.ctrl.ClearLetter(p)
	if err != nil {
		return err
	}
	if !res.Accepted {
		sh.printf("%s is locked\n", p.Key())
	}
	sh.moveCursor()
	return sh.show(ctx, nil)
}

func (sh *Shell) tap(ctx context.Context, args []string) error {
	p, err := parsePos(args, 1, "focus <r-c>")
	if err != nil {
		return err
	}
	locked, err := sh.ctrl.FocusRequested(p)
	if err != nil {
		return err
	}
	sh.focus.Drain()
	if locked {
		sh.printf("%s is locked\n", p.Key())
		return nil
	}
	sh.cursor, sh.hasCursor = p, true
	return sh.show(ctx, nil)
}

func (sh *Shell) clue(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: clue <id>")
	}
	h, err := sh.ctrl.RevealClue(args[0])
	if err != nil {
		return err
	}
	sh.printf("%s: %s (%s)\n", args[0], h.Path, h.Color)
	return nil
}

func (sh *Shell) dir(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: dir across|down")
	}
	var d game.Direction
	switch strings.ToLower(args[0]) {
	case "across", "a":
		d = game.Across
	case "down", "d":
		d = game.Down
	default:
		return fmt.Errorf("unknown direction %q", args[0])
	}
	if err := sh.ctrl.SetDirection(d); err != nil {
		return err
	}
	return sh.show(ctx, nil)
}

func (sh *Shell) reset(ctx context.Context, _ []string) error {
	if err := sh.ctrl.ResetLevel(ctx); err != nil {
		return err
	}
	return sh.show(ctx, nil)
}

// moveCursor follows the last focus event emitted by the controller.
func (sh *Shell) moveCursor() {
	for _, ev := range sh.focus.Drain() {
		p, err := grid.ParsePosition(ev.Pos)
		if err != nil {
			continue
		}
		switch ev.Action {
		case "focus":
			sh.cursor, sh.hasCursor = p, true
		case "blur":
			sh.hasCursor = false
		}
	}
}

func (sh *Shell) show(context.Context, []string) error {
	b, err := sh.ctrl.Board()
	if err != nil {
		return err
	}
	sh.printf("%s", Render(b, sh.cursor, sh.hasCursor))
	return nil
}

// Render draws a board as text. Clue cells show their id, locked letters are
// wrapped in brackets and the cursor cell is marked with '>'.
func Render(b play.Board, cursor grid.Position, hasCursor bool) string {
	var sb strings.Builder
	title := b.Title
	if b.SecondaryTitle != "" {
		title += " - " + b.SecondaryTitle
	}
	fmt.Fprintf(&sb, "%s (%s)\n", title, b.Direction)

	sb.WriteString("    ")
	for c := 0; c < b.Cols; c++ {
		fmt.Fprintf(&sb, " %-3d", c)
	}
	sb.WriteString("\n")
	for r, row := range b.Cells {
		fmt.Fprintf(&sb, "%3d ", r)
		for c, cell := range row {
			mark := " "
			if hasCursor && cursor == grid.At(r, c) {
				mark = ">"
			}
			sb.WriteString(mark + cellText(cell))
		}
		sb.WriteString("\n")
	}
	if b.Solved {
		sb.WriteString("solved!\n")
	}
	return sb.String()
}

func cellText(v play.CellView) string {
	switch v.Kind {
	case "clue":
		return fmt.Sprintf("%-3s", v.Clue)
	case "letter":
		switch {
		case v.Locked:
			return "[" + v.Guess + "]"
		case v.Guess != "":
			return " " + v.Guess + " "
		default:
			return " _ "
		}
	default:
		return "###"
	}
}
