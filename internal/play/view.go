package play

import (
	"github.com/robalobadob/crossclue/internal/game"
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
)

// CellView is one cell as the presentation layer sees it. Expected letters
// are never exposed.
type CellView struct {
	Pos     string      `json:"pos"`
	Kind    string      `json:"kind"`
	Clue    string      `json:"clue,omitempty"`
	Color   string      `json:"color,omitempty"`
	Guess   string      `json:"guess,omitempty"`
	Locked  bool        `json:"locked,omitempty"`
	Borders *grid.Edges `json:"borders,omitempty"`
}

// Board is a snapshot of the active session.
type Board struct {
	Level          string       `json:"level"`
	Title          string       `json:"title"`
	SecondaryTitle string       `json:"secondaryTitle,omitempty"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	Direction      string       `json:"direction"`
	Solved         bool         `json:"solved"`
	Cells          [][]CellView `json:"cells"`
}

func render(s *game.Session) Board {
	g := s.Grid()
	lvl := s.Level()
	b := Board{
		Level:          lvl.ID,
		Title:          lvl.Title,
		SecondaryTitle: lvl.SecondaryTitle,
		Rows:           g.Rows(),
		Cols:           g.Cols(),
		Direction:      s.Direction().String(),
		Solved:         s.Solved(),
		Cells:          make([][]CellView, g.Rows()),
	}
	for r := range b.Cells {
		b.Cells[r] = make([]CellView, g.Cols())
		for c := range b.Cells[r] {
			p := grid.At(r, c)
			cell, _ := g.At(p)
			v := CellView{Pos: p.Key(), Kind: cell.Kind.String()}
			switch cell.Kind {
			case level.KindLetter:
				v.Guess, _ = s.CurrentGuess(p)
				v.Locked = s.IsLocked(p)
			case level.KindClue:
				v.Clue = cell.ClueID
				if h, ok := s.Clues().Hint(cell.ClueID); ok {
					v.Color = h.Color
				}
				if e := g.ClueBorders(p); e.Any() {
					v.Borders = &e
				}
			}
			b.Cells[r][c] = v
		}
	}
	return b
}
