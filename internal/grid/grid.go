// Package grid maps a level's 2D cell layout into addressable, classified
// cells: dimensions, per-cell classification, four-way neighbours and the
// coordinates of each clue cell. Everything here is pure over the level.
package grid

import (
	"github.com/robalobadob/crossclue/internal/level"
)

// Edges flags the sides of a cell, used to style clue cells that border
// letter regions.
type Edges struct {
	Top    bool `json:"top,omitempty"`
	Right  bool `json:"right,omitempty"`
	Bottom bool `json:"bottom,omitempty"`
	Left   bool `json:"left,omitempty"`
}

// Any reports whether any edge is set.
func (e Edges) Any() bool { return e.Top || e.Right || e.Bottom || e.Left }

// Grid is a read-only addressing view over one level.
type Grid struct {
	lvl     *level.Level
	clues   map[string]Position
	letters []Position
}

// New indexes the level's grid. The level must already be validated.
func New(l *level.Level) *Grid {
	g := &Grid{lvl: l, clues: make(map[string]Position)}
	for r, row := range l.Grid {
		for c, cell := range row {
			switch cell.Kind {
			case level.KindLetter:
				g.letters = append(g.letters, At(r, c))
			case level.KindClue:
				// first occurrence wins if a clue id is repeated
				if _, seen := g.clues[cell.ClueID]; !seen {
					g.clues[cell.ClueID] = At(r, c)
				}
			}
		}
	}
	return g
}

func (g *Grid) Level() *level.Level { return g.lvl }
func (g *Grid) Rows() int           { return g.lvl.Rows() }
func (g *Grid) Cols() int           { return g.lvl.Cols() }

// Contains reports whether p lies inside the grid.
func (g *Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows() && p.Col >= 0 && p.Col < g.Cols()
}

// Classify returns the cell at (row, col); ok is false outside the grid.
func (g *Grid) Classify(row, col int) (level.Cell, bool) {
	return g.lvl.Cell(row, col)
}

// At returns the cell at p.
func (g *Grid) At(p Position) (level.Cell, bool) {
	return g.lvl.Cell(p.Row, p.Col)
}

// Neighbor returns the adjacent position in direction d, or false at the
// grid boundary.
func (g *Grid) Neighbor(p Position, d Direction) (Position, bool) {
	if !g.Contains(p) {
		return Position{}, false
	}
	n := p.Step(d)
	if !g.Contains(n) {
		return Position{}, false
	}
	return n, true
}

// CluePosition returns the grid coordinates of the clue cell for id.
func (g *Grid) CluePosition(id string) (Position, bool) {
	p, ok := g.clues[id]
	return p, ok
}

// Letters returns all letter positions in row-major order.
func (g *Grid) Letters() []Position {
	out := make([]Position, len(g.letters))
	copy(out, g.letters)
	return out
}

// ClueBorders reports which edges of the clue cell at p touch a letter cell.
// Non-clue cells have no borders.
func (g *Grid) ClueBorders(p Position) Edges {
	cell, ok := g.At(p)
	if !ok || cell.Kind != level.KindClue {
		return Edges{}
	}
	isLetter := func(d Direction) bool {
		n, ok := g.Neighbor(p, d)
		if !ok {
			return false
		}
		c, _ := g.At(n)
		return c.Kind == level.KindLetter
	}
	return Edges{
		Top:    isLetter(North),
		Right:  isLetter(East),
		Bottom: isLetter(South),
		Left:   isLetter(West),
	}
}
