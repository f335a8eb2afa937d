// internal/level/catalog.go
//
// Level catalog loading and lookup.
//
// Load behavior:
//   1. If a path is given (LEVELS_FILE), decode it as YAML or JSON by extension.
//   2. Otherwise fall back to the catalog embedded in the assets package.
//
// Every level is validated on load: unique non-empty id, rectangular grid,
// and every clue cell must reference an entry in the level's clue map.

package level

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/crossclue/assets"
)

var (
	ErrUnknownLevel   = errors.New("unknown level")
	ErrInvalidCatalog = errors.New("invalid level catalog")
)

// Catalog is an ordered, read-only set of levels.
type Catalog struct {
	levels []*Level
	byID   map[string]*Level
}

type catalogFile struct {
	Levels []*Level `json:"levels" yaml:"levels"`
}

// New validates levels and builds a catalog preserving their order.
func New(levels ...*Level) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Level, len(levels))}
	for _, l := range levels {
		if err := validate(l); err != nil {
			return nil, err
		}
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate level id %q", ErrInvalidCatalog, l.ID)
		}
		c.byID[l.ID] = l
		c.levels = append(c.levels, l)
	}
	return c, nil
}

// Load reads the catalog at path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Embedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return Parse(data, format)
}

// Embedded returns the built-in catalog.
func Embedded() (*Catalog, error) {
	data, err := assets.Levels()
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	return Parse(data, "yaml")
}

// Parse decodes a catalog document; format is "json" or "yaml".
func Parse(data []byte, format string) (*Catalog, error) {
	var f catalogFile
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &f)
	case "yaml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidCatalog, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Levels...)
}

func validate(l *Level) error {
	if l == nil || strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("%w: level without id", ErrInvalidCatalog)
	}
	if len(l.Grid) == 0 || len(l.Grid[0]) == 0 {
		return fmt.Errorf("%w: level %q has an empty grid", ErrInvalidCatalog, l.ID)
	}
	cols := len(l.Grid[0])
	for r, row := range l.Grid {
		if len(row) != cols {
			return fmt.Errorf("%w: level %q row %d has %d cells, want %d", ErrInvalidCatalog, l.ID, r, len(row), cols)
		}
		for c, cell := range row {
			if cell.Kind == KindLetter {
				if _, err := canonicalLetter(cell.Letter); err != nil {
					return fmt.Errorf("%w: level %q cell %d-%d: %v", ErrInvalidCatalog, l.ID, r, c, err)
				}
				continue
			}
			if cell.Kind != KindClue {
				continue
			}
			if _, ok := l.Clues[cell.ClueID]; !ok {
				return fmt.Errorf("%w: level %q cell %d-%d references unknown clue %q", ErrInvalidCatalog, l.ID, r, c, cell.ClueID)
			}
		}
	}
	return nil
}

// Get looks up a level by id.
func (c *Catalog) Get(id string) (*Level, error) {
	if l, ok := c.byID[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, id)
}

// IDs returns level ids in catalog order.
func (c *Catalog) IDs() []string {
	return lo.Map(c.levels, func(l *Level, _ int) string { return l.ID })
}

// Len reports the number of levels.
func (c *Catalog) Len() int { return len(c.levels) }

// At returns the i-th level in catalog order.
func (c *Catalog) At(i int) *Level { return c.levels[i] }
