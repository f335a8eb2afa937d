package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadPosition is returned when a position key cannot be parsed.
var ErrBadPosition = errors.New("bad position")

// Position addresses one grid cell. Positions order row-major.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// At is shorthand for Position{Row: row, Col: col}.
func At(row, col int) Position { return Position{Row: row, Col: col} }

// Key is the canonical "{row}-{col}" form used by storage and the wire.
func (p Position) Key() string {
	return strconv.Itoa(p.Row) + "-" + strconv.Itoa(p.Col)
}

func (p Position) String() string { return p.Key() }

// Less reports whether p sorts before q.
func (p Position) Less(q Position) bool { return Compare(p, q) < 0 }

// Compare orders positions by row, then column.
func Compare(a, b Position) int {
	switch {
	case a.Row != b.Row:
		if a.Row < b.Row {
			return -1
		}
		return 1
	case a.Col < b.Col:
		return -1
	case a.Col > b.Col:
		return 1
	}
	return 0
}

// ParsePosition parses a "{row}-{col}" key with non-negative components.
func ParsePosition(key string) (Position, error) {
	rs, cs, ok := strings.Cut(strings.TrimSpace(key), "-")
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, key)
	}
	row, err := strconv.Atoi(rs)
	if err != nil || row < 0 {
		return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, key)
	}
	col, err := strconv.Atoi(cs)
	if err != nil || col < 0 {
		return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, key)
	}
	return Position{Row: row, Col: col}, nil
}

// Direction is a compass step between neighbouring cells.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Step returns the position one cell away in direction d.
func (p Position) Step(d Direction) Position {
	switch d {
	case North:
		return Position{p.Row - 1, p.Col}
	case East:
		return Position{p.Row, p.Col + 1}
	case South:
		return Position{p.Row + 1, p.Col}
	default:
		return Position{p.Row, p.Col - 1}
	}
}
