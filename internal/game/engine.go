// internal/game/engine.go
//
// Puzzle engine for a single level session.
// Responsibilities:
//   - Own the mutable state: guesses, locked correct answers, focus
//     direction and the last updated position.
//   - Accept, normalize and validate letter input; lock correct cells.
//   - Clear and reset state.
//   - Apply the direction auto-switch heuristic on focus and clue taps.
//
// Notes:
//   - A Session is not safe for concurrent use; callers serialize commands.
//   - A locked position is never mutated until Reset.
//   - Cleared guesses are removed from the map, never stored as "".

package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossclue/internal/clue"
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
)

// Session is the explicit state of one level being played.
type Session struct {
	grid    *grid.Grid
	clues   clue.Index
	guesses map[grid.Position]string
	correct map[grid.Position]string

	direction Direction
	last      grid.Position
	hasLast   bool
}

// NewSession starts a session over g with previously saved state. Saved
// entries that no longer fit the grid (non-letter cells, multi-character
// values, correct answers that do not match) are dropped.
func NewSession(g *grid.Grid, clues clue.Index, guesses, correct map[grid.Position]string) *Session {
	s := &Session{
		grid:    g,
		clues:   clues,
		guesses: make(map[grid.Position]string, len(guesses)),
		correct: make(map[grid.Position]string, len(correct)),
	}
	if s.clues == nil {
		s.clues = clue.Index{}
	}
	for p, v := range correct {
		cell, err := s.letterCell(p)
		if err != nil || cell.Letter != v {
			log.Debug().Str("level_id", g.Level().ID).Str("pos", p.Key()).Msg("dropping stale correct answer")
			continue
		}
		s.correct[p] = v
		s.guesses[p] = v
	}
	for p, v := range guesses {
		if _, locked := s.correct[p]; locked {
			continue
		}
		if _, err := s.letterCell(p); err != nil || level.NormalizeLetter(v) != v || v == "" {
			log.Debug().Str("level_id", g.Level().ID).Str("pos", p.Key()).Msg("dropping stale guess")
			continue
		}
		s.guesses[p] = v
	}
	return s
}

func (s *Session) Grid() *grid.Grid     { return s.grid }
func (s *Session) Level() *level.Level  { return s.grid.Level() }
func (s *Session) Clues() clue.Index    { return s.clues }
func (s *Session) Direction() Direction { return s.direction }

// SetDirection overrides the focus axis.
func (s *Session) SetDirection(d Direction) { s.direction = d }

// LastUpdated returns the most recent position written to, if any.
func (s *Session) LastUpdated() (grid.Position, bool) { return s.last, s.hasLast }

// letterCell resolves p to a letter cell or fails with ErrInvalidCell.
func (s *Session) letterCell(p grid.Position) (level.Cell, error) {
	cell, ok := s.grid.At(p)
	if !ok {
		return level.Cell{}, fmt.Errorf("%w: %s is outside the grid", ErrInvalidCell, p)
	}
	if cell.Kind != level.KindLetter {
		return level.Cell{}, fmt.Errorf("%w: %s is a %s cell", ErrInvalidCell, p, cell.Kind)
	}
	return cell, nil
}

// SubmitLetter writes the last character of text into p.
//
// Rules:
//   - p must be a letter cell (ErrInvalidCell otherwise).
//   - Locked positions are left untouched (Accepted=false).
//   - Text normalizing to nothing clears p, exactly like ClearLetter.
//   - A guess equal to the expected letter locks p (BecameCorrect=true).
func (s *Session) SubmitLetter(p grid.Position, text string) (SubmitResult, error) {
	cell, err := s.letterCell(p)
	if err != nil {
		return SubmitResult{}, err
	}
	if s.IsLocked(p) {
		log.Debug().Str("pos", p.Key()).Msg("input on locked cell ignored")
		return SubmitResult{}, nil
	}
	ch := level.NormalizeLetter(text)
	if ch == "" {
		delete(s.guesses, p)
		return SubmitResult{Accepted: true}, nil
	}

	s.guesses[p] = ch
	s.last, s.hasLast = p, true

	if ch != cell.Letter {
		return SubmitResult{Accepted: true}, nil
	}
	s.correct[p] = ch
	log.Debug().Str("level_id", s.Level().ID).Str("pos", p.Key()).Msg("correct answer entered, cell locked")
	return SubmitResult{Accepted: true, BecameCorrect: true}, nil
}

// ClearLetter removes the guess at p unless p is locked.
func (s *Session) ClearLetter(p grid.Position) (ClearResult, error) {
	if _, err := s.letterCell(p); err != nil {
		return ClearResult{}, err
	}
	if s.IsLocked(p) {
		return ClearResult{}, nil
	}
	delete(s.guesses, p)
	return ClearResult{Accepted: true}, nil
}

// Reset empties guesses and correct answers.
func (s *Session) Reset() {
	s.guesses = make(map[grid.Position]string)
	s.correct = make(map[grid.Position]string)
}

// IsLocked reports whether p holds a locked correct answer.
func (s *Session) IsLocked(p grid.Position) bool {
	_, ok := s.correct[p]
	return ok
}

// CurrentGuess returns the guess at p, if any.
func (s *Session) CurrentGuess(p grid.Position) (string, bool) {
	g, ok := s.guesses[p]
	return g, ok
}

// Guesses returns a copy of the guess state.
func (s *Session) Guesses() map[grid.Position]string { return copyState(s.guesses) }

// CorrectAnswers returns a copy of the locked answers.
func (s *Session) CorrectAnswers() map[grid.Position]string { return copyState(s.correct) }

// Solved reports whether every letter cell is locked.
func (s *Session) Solved() bool {
	for _, p := range s.grid.Letters() {
		if !s.IsLocked(p) {
			return false
		}
	}
	return true
}

// FocusRequested applies the direction heuristic for a tap or programmatic
// focus on p and reports whether p is locked, in which case the caller
// must blur it.
func (s *Session) FocusRequested(p grid.Position) (locked bool, err error) {
	if _, err := s.letterCell(p); err != nil {
		return false, err
	}
	s.shiftDirection(p)
	return s.IsLocked(p), nil
}

// ActivateClue returns the hint asset path of a clue and applies the
// direction heuristic using the clue cell's coordinates.
func (s *Session) ActivateClue(id string) (string, error) {
	path, ok := s.clues.Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownClue, id)
	}
	if p, ok := s.grid.CluePosition(id); ok {
		s.shiftDirection(p)
	}
	return path, nil
}

// shiftDirection biases the next auto-advance from the last manual write:
// a row change means down, otherwise a column change means across.
func (s *Session) shiftDirection(p grid.Position) {
	if !s.hasLast {
		return
	}
	switch {
	case p.Row != s.last.Row:
		s.direction = Down
	case p.Col != s.last.Col:
		s.direction = Across
	}
}

func copyState(m map[grid.Position]string) map[grid.Position]string {
	out := make(map[grid.Position]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
