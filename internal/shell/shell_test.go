package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/robalobadob/crossclue/internal/clue"
	"github.com/robalobadob/crossclue/internal/game"
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
	"github.com/robalobadob/crossclue/internal/play"
	"github.com/robalobadob/crossclue/internal/store"
)

func newShell(t *testing.T) (*Shell, *bytes.Buffer) {
	is := is.New(t)
	c, err := level.Embedded()
	is.NoErr(err)
	rec := &play.Recorder{}
	ctrl := play.New(c, store.NewMemory(), play.Options{Focus: rec})
	t.Cleanup(func() { _ = ctrl.Close(context.Background()) })
	var out bytes.Buffer
	return New(ctrl, rec, &out), &out
}

func TestShellPlaysALevel(t *testing.T) {
	is := is.New(t)
	sh, out := newShell(t)
	ctx := context.Background()

	is.NoErr(sh.Exec(ctx, "level easylevel"))
	is.True(strings.Contains(out.String(), "Getting Started"))
	is.Equal(sh.Prompt(), "crossclue [easylevel]> ")

	out.Reset()
	is.NoErr(sh.Exec(ctx, "put 1-1 c"))
	is.True(strings.Contains(out.String(), "1-1 locked in"))
	is.True(strings.Contains(out.String(), "[C]>"))
	is.Equal(sh.cursor, grid.At(1, 2))

	out.Reset()
	is.NoErr(sh.Exec(ctx, "put 1-1 z"))
	is.True(strings.Contains(out.String(), "1-1 is locked"))

	out.Reset()
	is.NoErr(sh.Exec(ctx, `clue 1A`))
	is.Equal(out.String(), "1A: clues/easylevel/2.png ("+clue.Palette[1]+")\n")

	is.NoErr(sh.Exec(ctx, "reset"))
	b, err := sh.ctrl.Board()
	is.NoErr(err)
	is.True(!b.Cells[1][1].Locked)
}

func TestShellQuotedEmptyTextClears(t *testing.T) {
	is := is.New(t)
	sh, _ := newShell(t)
	ctx := context.Background()

	is.NoErr(sh.Exec(ctx, "level easylevel"))
	is.NoErr(sh.Exec(ctx, "put 1-2 x"))
	is.NoErr(sh.Exec(ctx, `put 1-2 ""`))
	b, err := sh.ctrl.Board()
	is.NoErr(err)
	is.Equal(b.Cells[1][2].Guess, "")
	is.Equal(sh.cursor, grid.At(1, 1))
}

func TestShellErrors(t *testing.T) {
	is := is.New(t)
	sh, _ := newShell(t)
	ctx := context.Background()

	is.True(errors.Is(sh.Exec(ctx, "show"), play.ErrNoLevel))
	is.True(sh.Exec(ctx, "level nope") != nil)
	is.True(sh.Exec(ctx, "bogus") != nil)
	is.True(sh.Exec(ctx, `put "1-1`) != nil)
	is.NoErr(sh.Exec(ctx, "   "))

	is.NoErr(sh.Exec(ctx, "level easylevel"))
	is.True(errors.Is(sh.Exec(ctx, "put 0-0 A"), game.ErrInvalidCell))
	is.True(errors.Is(sh.Exec(ctx, "del 1-x"), grid.ErrBadPosition))
	is.True(errors.Is(sh.Exec(ctx, "clue 9Z"), game.ErrUnknownClue))
	is.True(sh.Exec(ctx, "dir sideways") != nil)
	is.True(errors.Is(sh.Exec(ctx, "QUIT"), ErrQuit))
}

func TestShellDirection(t *testing.T) {
	is := is.New(t)
	sh, out := newShell(t)
	ctx := context.Background()

	is.NoErr(sh.Exec(ctx, "level easylevel"))
	is.NoErr(sh.Exec(ctx, "dir down"))
	is.True(strings.Contains(out.String(), "(down)"))
	is.NoErr(sh.Exec(ctx, "put 1-1 c"))
	is.Equal(sh.cursor, grid.At(2, 1))
}

func TestRenderMarksCells(t *testing.T) {
	is := is.New(t)
	b := play.Board{
		Title: "T", Rows: 1, Cols: 4, Direction: "across",
		Cells: [][]play.CellView{{
			{Kind: "empty"},
			{Kind: "clue", Clue: "1A"},
			{Kind: "letter", Guess: "C", Locked: true},
			{Kind: "letter"},
		}},
	}
	got := Render(b, grid.At(0, 3), true)
	is.True(strings.Contains(got, "T (across)"))
	is.True(strings.Contains(got, " ### 1A  [C]> _ "))
}
