package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/crossclue/internal/clue"
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
)

// catSession is the single-row puzzle [[1A][C][A][T]].
func catSession(t *testing.T) *Session {
	t.Helper()
	lvl := &level.Level{
		ID: "cat",
		Grid: [][]level.Cell{
			{level.ClueCell("1A"), level.LetterCell("C"), level.LetterCell("A"), level.LetterCell("T")},
		},
		Clues: map[string]level.ClueInfo{"1A": {Answer: "CAT", AssetPath: "hints/cat.png"}},
	}
	g := grid.New(lvl)
	return NewSession(g, clue.NewResolver("").Resolve(g, -1), nil, nil)
}

func TestCatScenario(t *testing.T) {
	s := catSession(t)

	res, err := s.SubmitLetter(grid.At(0, 1), "C")
	require.NoError(t, err)
	assert.Equal(t, SubmitResult{Accepted: true, BecameCorrect: true}, res)
	assert.True(t, s.IsLocked(grid.At(0, 1)))

	res, err = s.SubmitLetter(grid.At(0, 2), "a")
	require.NoError(t, err)
	assert.Equal(t, SubmitResult{Accepted: true, BecameCorrect: true}, res)
	g, ok := s.CurrentGuess(grid.At(0, 2))
	require.True(t, ok)
	assert.Equal(t, "A", g)

	before, beforeCorrect := s.Guesses(), s.CorrectAnswers()
	res, err = s.SubmitLetter(grid.At(0, 1), "Z")
	require.NoError(t, err)
	assert.Equal(t, SubmitResult{}, res)
	assert.Equal(t, before, s.Guesses())
	assert.Equal(t, beforeCorrect, s.CorrectAnswers())
}

func TestWrongGuessIsKeptUnlocked(t *testing.T) {
	s := catSession(t)
	p := grid.At(0, 3)

	res, err := s.SubmitLetter(p, "x")
	require.NoError(t, err)
	assert.Equal(t, SubmitResult{Accepted: true}, res)
	assert.False(t, s.IsLocked(p))
	g, _ := s.CurrentGuess(p)
	assert.Equal(t, "X", g)

	last, ok := s.LastUpdated()
	require.True(t, ok)
	assert.Equal(t, p, last)
}

func TestSubmitKeepsLastCharacter(t *testing.T) {
	s := catSession(t)
	p := grid.At(0, 3)

	res, err := s.SubmitLetter(p, "xt")
	require.NoError(t, err)
	assert.True(t, res.BecameCorrect)
	g, _ := s.CurrentGuess(p)
	assert.Equal(t, "T", g)
}

func TestLockedCellsIgnoreEveryMutation(t *testing.T) {
	s := catSession(t)
	p := grid.At(0, 1)
	_, err := s.SubmitLetter(p, "C")
	require.NoError(t, err)

	for _, in := range []string{"", "C", "z", "Q", "cc"} {
		res, err := s.SubmitLetter(p, in)
		require.NoError(t, err)
		assert.False(t, res.Accepted, "input %q", in)
	}
	cres, err := s.ClearLetter(p)
	require.NoError(t, err)
	assert.False(t, cres.Accepted)

	g, ok := s.CurrentGuess(p)
	require.True(t, ok)
	assert.Equal(t, "C", g)
	assert.True(t, s.IsLocked(p))
}

func TestEmptySubmitEqualsClear(t *testing.T) {
	a, b := catSession(t), catSession(t)
	p := grid.At(0, 2)
	for _, s := range []*Session{a, b} {
		_, err := s.SubmitLetter(p, "q")
		require.NoError(t, err)
	}

	sres, err := a.SubmitLetter(p, "")
	require.NoError(t, err)
	cres, err := b.ClearLetter(p)
	require.NoError(t, err)

	assert.Equal(t, cres.Accepted, sres.Accepted)
	assert.False(t, sres.BecameCorrect)
	assert.Equal(t, b.Guesses(), a.Guesses())
	_, ok := a.CurrentGuess(p)
	assert.False(t, ok, "cleared guesses are removed, not blanked")
}

func TestInvalidCells(t *testing.T) {
	s := catSession(t)

	for _, p := range []grid.Position{grid.At(0, 0), grid.At(0, 4), grid.At(1, 1)} {
		_, err := s.SubmitLetter(p, "A")
		assert.True(t, errors.Is(err, ErrInvalidCell), "submit %s", p)
		_, err = s.ClearLetter(p)
		assert.True(t, errors.Is(err, ErrInvalidCell), "clear %s", p)
		_, err = s.FocusRequested(p)
		assert.True(t, errors.Is(err, ErrInvalidCell), "focus %s", p)
	}
	assert.Empty(t, s.Guesses())
}

func TestActivateClue(t *testing.T) {
	s := catSession(t)

	path, err := s.ActivateClue("1A")
	require.NoError(t, err)
	assert.Equal(t, "hints/cat.png", path)

	_, err = s.ActivateClue("9Z")
	assert.True(t, errors.Is(err, ErrUnknownClue))
}

func TestResetEmptiesState(t *testing.T) {
	s := catSession(t)
	_, _ = s.SubmitLetter(grid.At(0, 1), "C")
	_, _ = s.SubmitLetter(grid.At(0, 2), "Q")

	s.Reset()
	assert.Empty(t, s.Guesses())
	assert.Empty(t, s.CorrectAnswers())
	assert.False(t, s.IsLocked(grid.At(0, 1)))
}

func TestSolved(t *testing.T) {
	s := catSession(t)
	assert.False(t, s.Solved())
	for i, ch := range []string{"C", "A", "T"} {
		_, err := s.SubmitLetter(grid.At(0, i+1), ch)
		require.NoError(t, err)
	}
	assert.True(t, s.Solved())
}

func TestNewSessionDropsStaleState(t *testing.T) {
	base := catSession(t)
	s := NewSession(base.Grid(), base.Clues(),
		map[grid.Position]string{
			grid.At(0, 2): "B",  // kept
			grid.At(0, 0): "X",  // clue cell
			grid.At(5, 5): "Y",  // outside
			grid.At(0, 3): "tt", // not a normalized letter
		},
		map[grid.Position]string{
			grid.At(0, 1): "C", // kept
			grid.At(0, 3): "Z", // does not match T
		},
	)

	assert.Equal(t, map[grid.Position]string{grid.At(0, 1): "C"}, s.CorrectAnswers())
	assert.Equal(t, map[grid.Position]string{grid.At(0, 1): "C", grid.At(0, 2): "B"}, s.Guesses())
}

func TestComposedInputLocksAccentedCell(t *testing.T) {
	lvl := &level.Level{
		ID:    "accent",
		Grid:  [][]level.Cell{{level.ClueCell("1A"), level.LetterCell("é")}},
		Clues: map[string]level.ClueInfo{"1A": {Answer: "É"}},
	}
	s := NewSession(grid.New(lvl), nil, nil, nil)

	res, err := s.SubmitLetter(grid.At(0, 1), "e\u0301")
	require.NoError(t, err)
	assert.True(t, res.BecameCorrect)
}

func TestInvalidTrailingByteKeepsLastLetter(t *testing.T) {
	s := catSession(t)

	res, err := s.SubmitLetter(grid.At(0, 1), "c\xff")
	require.NoError(t, err)
	assert.True(t, res.BecameCorrect)
}
