// internal/game/types.go
//
// Core type definitions for the puzzle engine.
// Defines:
//   - Direction: the axis auto-advance follows (across/down).
//   - Mode: navigation sense (forward after input, backward after deletion).
//   - SubmitResult / ClearResult: outcomes of engine mutations.
//   - FocusController: capability the presentation layer provides to move
//     input focus between cells.

package game

import (
	"errors"

	"github.com/robalobadob/crossclue/internal/grid"
)

var (
	// ErrInvalidCell is returned when an operation targets a position that
	// is outside the grid or not a letter cell.
	ErrInvalidCell = errors.New("invalid cell")
	// ErrUnknownClue is returned when a clue id is not in the level's index.
	ErrUnknownClue = errors.New("unknown clue")
)

// Direction is the focus axis. The zero value is Across.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "across"
}

// Mode selects the navigation sense.
type Mode int

const (
	Forward Mode = iota
	Backward
)

// SubmitResult reports the outcome of SubmitLetter.
//   - Accepted is false when the position was already locked.
//   - BecameCorrect is true when this submission locked the position.
type SubmitResult struct {
	Accepted      bool `json:"accepted"`
	BecameCorrect bool `json:"becameCorrect"`
}

// ClearResult reports the outcome of ClearLetter.
type ClearResult struct {
	Accepted bool `json:"accepted"`
}

// FocusController moves input focus in the presentation layer.
type FocusController interface {
	Focus(p grid.Position)
	Blur(p grid.Position)
}

// NopFocus is a FocusController that does nothing.
type NopFocus struct{}

func (NopFocus) Focus(grid.Position) {}
func (NopFocus) Blur(grid.Position)  {}
