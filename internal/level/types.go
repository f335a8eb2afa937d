// internal/level/types.go
//
// Core type definitions for the level catalog.
// Defines:
//   - Kind / Cell: the tagged grid cell (letter, clue marker, empty).
//   - ClueInfo: expected answer, optional hint asset and accent color.
//   - Level: one complete, immutable puzzle definition.
//
// Cells travel on the wire as {letter: "C"} | {clue: "1A"} | {empty: true};
// exactly one tag must be present.

package level

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind classifies a grid cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindLetter
	KindClue
)

func (k Kind) String() string {
	switch k {
	case KindLetter:
		return "letter"
	case KindClue:
		return "clue"
	default:
		return "empty"
	}
}

// Cell is one grid unit. Letter is set (uppercase) only for KindLetter and
// ClueID only for KindClue.
type Cell struct {
	Kind   Kind
	Letter string
	ClueID string
}

// LetterCell, ClueCell and EmptyCell build cells in code (tests, generators).
func LetterCell(letter string) Cell { return Cell{Kind: KindLetter, Letter: NormalizeLetter(letter)} }
func ClueCell(id string) Cell       { return Cell{Kind: KindClue, ClueID: id} }
func EmptyCell() Cell               { return Cell{Kind: KindEmpty} }

// cellRecord is the wire form shared by the JSON and YAML codecs.
type cellRecord struct {
	Letter string `json:"letter,omitempty" yaml:"letter,omitempty"`
	Clue   string `json:"clue,omitempty" yaml:"clue,omitempty"`
	Empty  bool   `json:"empty,omitempty" yaml:"empty,omitempty"`
}

var errCellTag = errors.New("cell must have exactly one of letter, clue, empty")

func (rec cellRecord) cell() (Cell, error) {
	tags := 0
	if rec.Letter != "" {
		tags++
	}
	if rec.Clue != "" {
		tags++
	}
	if rec.Empty {
		tags++
	}
	if tags != 1 {
		return Cell{}, errCellTag
	}
	switch {
	case rec.Letter != "":
		letter, err := canonicalLetter(rec.Letter)
		if err != nil {
			return Cell{}, err
		}
		return Cell{Kind: KindLetter, Letter: letter}, nil
	case rec.Clue != "":
		return ClueCell(rec.Clue), nil
	default:
		return EmptyCell(), nil
	}
}

func (c Cell) record() cellRecord {
	switch c.Kind {
	case KindLetter:
		return cellRecord{Letter: c.Letter}
	case KindClue:
		return cellRecord{Clue: c.ClueID}
	default:
		return cellRecord{Empty: true}
	}
}

func (c Cell) MarshalJSON() ([]byte, error) { return json.Marshal(c.record()) }

func (c *Cell) UnmarshalJSON(b []byte) error {
	var rec cellRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	cell, err := rec.cell()
	if err != nil {
		return err
	}
	*c = cell
	return nil
}

func (c Cell) MarshalYAML() (interface{}, error) { return c.record(), nil }

func (c *Cell) UnmarshalYAML(value *yaml.Node) error {
	var rec cellRecord
	if err := value.Decode(&rec); err != nil {
		return err
	}
	cell, err := rec.cell()
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = cell
	return nil
}

// ClueInfo is the catalog metadata of one clue.
type ClueInfo struct {
	Answer    string `json:"answer" yaml:"answer"`
	AssetPath string `json:"assetPath,omitempty" yaml:"assetPath,omitempty"`
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Level is one complete puzzle definition. Treat as read-only once loaded.
type Level struct {
	ID             string              `json:"id" yaml:"id"`
	Title          string              `json:"title" yaml:"title"`
	SecondaryTitle string              `json:"secondaryTitle,omitempty" yaml:"secondaryTitle,omitempty"`
	Grid           [][]Cell            `json:"grid" yaml:"grid"`
	Clues          map[string]ClueInfo `json:"clues" yaml:"clues"`
}

// Rows reports the number of grid rows.
func (l *Level) Rows() int { return len(l.Grid) }

// Cols reports the number of grid columns (0 for an empty grid).
func (l *Level) Cols() int {
	if len(l.Grid) == 0 {
		return 0
	}
	return len(l.Grid[0])
}

// Cell returns the cell at (row, col); ok is false outside the grid.
func (l *Level) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= len(l.Grid) || col < 0 || col >= len(l.Grid[row]) {
		return Cell{}, false
	}
	return l.Grid[row][col], true
}
