package game

import (
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
)

// Next computes the cell that should receive focus after p.
//
// It steps along the column axis when the direction is Across and along the
// row axis when Down, backwards in Backward mode, skipping clue and empty
// cells. Leaving the grid ends navigation (ok=false); there is no
// wraparound. Locked letter cells are valid targets.
func (s *Session) Next(p grid.Position, mode Mode) (grid.Position, bool) {
	if !s.grid.Contains(p) {
		return grid.Position{}, false
	}
	step := grid.East
	if s.direction == Down {
		step = grid.South
	}
	if mode == Backward {
		step = opposite(step)
	}
	for {
		n, ok := s.grid.Neighbor(p, step)
		if !ok {
			return grid.Position{}, false
		}
		if cell, _ := s.grid.At(n); cell.Kind == level.KindLetter {
			return n, true
		}
		p = n
	}
}

func opposite(d grid.Direction) grid.Direction {
	switch d {
	case grid.North:
		return grid.South
	case grid.East:
		return grid.West
	case grid.South:
		return grid.North
	default:
		return grid.East
	}
}
