// internal/clue/resolver.go
//
// Clue path resolution: turns a level's clues into an index of hint-asset
// locations the presentation layer dereferences to images.
//
// Ordering:
//   - Clue ids are ordered by their clue cell position (row-major).
//   - Ids that have no cell on the grid follow, sorted by id.
//
// Paths:
//   - An explicit ClueInfo.AssetPath is used verbatim.
//   - Otherwise the path is derived as {base}/{levelID}/{n}.png, n being the
//     1-based ordinal of the clue in the order above.
//
// Colors:
//   - An explicit ClueInfo.Color is used verbatim.
//   - Otherwise Palette[(n-1) % len(Palette)], so neighbouring clues differ.

package clue

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/crossclue/internal/grid"
)

// DefaultBase is the asset root used when none is configured.
const DefaultBase = "clues"

// Palette is the accent color cycle for clues without an explicit color.
var Palette = []string{"#e4572e", "#17bebb", "#ffc914", "#76b041", "#7e52a0", "#2e86ab"}

// Hint is what activating a clue reveals: the image to show and the accent
// color framing it.
type Hint struct {
	Path  string `json:"path"`
	Color string `json:"color"`
}

// Index maps clue ids to resolved hints.
type Index map[string]Hint

// Lookup returns the asset path of a clue.
func (ix Index) Lookup(id string) (string, bool) {
	h, ok := ix[id]
	return h.Path, ok
}

// Hint returns the full hint of a clue.
func (ix Index) Hint(id string) (Hint, bool) {
	h, ok := ix[id]
	return h, ok
}

// Resolver derives clue indexes for levels.
type Resolver struct {
	base string
}

// NewResolver returns a resolver rooted at base (DefaultBase if empty).
func NewResolver(base string) *Resolver {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBase
	}
	return &Resolver{base: base}
}

// Resolve indexes the first count clues of the grid's level. A negative
// count, or one larger than the clue map, covers every clue.
func (r *Resolver) Resolve(g *grid.Grid, count int) Index {
	lvl := g.Level()
	ids := Order(g)
	if count < 0 || count > len(ids) {
		count = len(ids)
	}
	ix := make(Index, count)
	for n, id := range ids[:count] {
		info := lvl.Clues[id]
		h := Hint{Path: info.AssetPath, Color: info.Color}
		if h.Path == "" {
			h.Path = r.base + "/" + lvl.ID + "/" + strconv.Itoa(n+1) + ".png"
		}
		if h.Color == "" {
			h.Color = Palette[n%len(Palette)]
		}
		ix[id] = h
	}
	return ix
}

// Order returns the level's clue ids in resolution order.
func Order(g *grid.Grid) []string {
	ids := lo.Keys(g.Level().Clues)
	sort.Slice(ids, func(i, j int) bool {
		pi, oki := g.CluePosition(ids[i])
		pj, okj := g.CluePosition(ids[j])
		switch {
		case oki && okj:
			if c := grid.Compare(pi, pj); c != 0 {
				return c < 0
			}
			return ids[i] < ids[j]
		case oki != okj:
			return oki
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}
