package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/crossclue/internal/clue"
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
)

// navSession builds:
//
//	1A C  A  .  T  .
//	.  O  #  .  O  .
//	2A W  I  G  P  .
//
// where # is a clue cell (3D) in the middle of the grid.
func navSession(t *testing.T) *Session {
	t.Helper()
	L, C, E := level.LetterCell, level.ClueCell, level.EmptyCell
	lvl := &level.Level{
		ID: "nav",
		Grid: [][]level.Cell{
			{C("1A"), L("C"), L("A"), E(), L("T"), E()},
			{E(), L("O"), C("3D"), E(), L("O"), E()},
			{C("2A"), L("W"), L("I"), L("G"), L("P"), E()},
		},
		Clues: map[string]level.ClueInfo{"1A": {}, "2A": {}, "3D": {}},
	}
	g := grid.New(lvl)
	return NewSession(g, clue.NewResolver("").Resolve(g, -1), nil, nil)
}

func TestNextAcrossSkipsBlockedCells(t *testing.T) {
	s := navSession(t)

	n, ok := s.Next(grid.At(0, 1), Forward)
	require.True(t, ok)
	assert.Equal(t, grid.At(0, 2), n)

	n, ok = s.Next(grid.At(0, 2), Forward)
	require.True(t, ok)
	assert.Equal(t, grid.At(0, 4), n, "empty cell is skipped")

	n, ok = s.Next(grid.At(0, 4), Backward)
	require.True(t, ok)
	assert.Equal(t, grid.At(0, 2), n)
}

func TestNextStopsAtBoundary(t *testing.T) {
	s := navSession(t)

	_, ok := s.Next(grid.At(0, 4), Forward)
	assert.False(t, ok, "only empty cells remain before the edge")

	_, ok = s.Next(grid.At(2, 4), Forward)
	assert.False(t, ok)

	_, ok = s.Next(grid.At(0, 1), Backward)
	assert.False(t, ok, "clue cell then edge, no wraparound")
}

func TestNextDown(t *testing.T) {
	s := navSession(t)
	s.SetDirection(Down)

	n, ok := s.Next(grid.At(0, 1), Forward)
	require.True(t, ok)
	assert.Equal(t, grid.At(1, 1), n)

	n, ok = s.Next(grid.At(0, 2), Forward)
	require.True(t, ok)
	assert.Equal(t, grid.At(2, 2), n, "clue cell is skipped")

	_, ok = s.Next(grid.At(2, 1), Forward)
	assert.False(t, ok)

	n, ok = s.Next(grid.At(2, 4), Backward)
	require.True(t, ok)
	assert.Equal(t, grid.At(1, 4), n)
}

func TestNextLandsOnLockedCells(t *testing.T) {
	s := navSession(t)
	_, err := s.SubmitLetter(grid.At(0, 2), "A")
	require.NoError(t, err)
	require.True(t, s.IsLocked(grid.At(0, 2)))

	n, ok := s.Next(grid.At(0, 1), Forward)
	require.True(t, ok)
	assert.Equal(t, grid.At(0, 2), n)
}

func TestNextNeverLandsOnBlockedCells(t *testing.T) {
	s := navSession(t)
	g := s.Grid()
	for _, d := range []Direction{Across, Down} {
		s.SetDirection(d)
		for r := 0; r < g.Rows(); r++ {
			for c := 0; c < g.Cols(); c++ {
				for _, m := range []Mode{Forward, Backward} {
					n, ok := s.Next(grid.At(r, c), m)
					if !ok {
						continue
					}
					cell, in := g.At(n)
					require.True(t, in)
					assert.Equal(t, level.KindLetter, cell.Kind)
				}
			}
		}
	}
}

func TestNextOutsideGrid(t *testing.T) {
	s := navSession(t)
	_, ok := s.Next(grid.At(0, -1), Forward)
	assert.False(t, ok)
}

func TestFocusRequestedShiftsDirection(t *testing.T) {
	s := navSession(t)

	// No last update yet: direction untouched.
	locked, err := s.FocusRequested(grid.At(2, 1))
	require.NoError(t, err)
	assert.False(t, locked)
	assert.Equal(t, Across, s.Direction())

	_, err = s.SubmitLetter(grid.At(0, 1), "x")
	require.NoError(t, err)

	_, err = s.FocusRequested(grid.At(1, 1))
	require.NoError(t, err)
	assert.Equal(t, Down, s.Direction(), "row change shifts down")

	_, err = s.FocusRequested(grid.At(0, 2))
	require.NoError(t, err)
	assert.Equal(t, Across, s.Direction(), "same row, column change shifts across")

	s.SetDirection(Down)
	_, err = s.FocusRequested(grid.At(0, 1))
	require.NoError(t, err)
	assert.Equal(t, Down, s.Direction(), "same cell keeps the direction")
}

func TestFocusRequestedReportsLockedCells(t *testing.T) {
	s := navSession(t)
	_, err := s.SubmitLetter(grid.At(0, 1), "C")
	require.NoError(t, err)

	locked, err := s.FocusRequested(grid.At(0, 1))
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestActivateClueShiftsDirection(t *testing.T) {
	s := navSession(t)
	_, err := s.SubmitLetter(grid.At(0, 4), "x")
	require.NoError(t, err)

	_, err = s.ActivateClue("2A")
	require.NoError(t, err)
	assert.Equal(t, Down, s.Direction())

	_, err = s.ActivateClue("1A")
	require.NoError(t, err)
	assert.Equal(t, Across, s.Direction())
}
