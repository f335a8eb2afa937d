// internal/httpserver/routes_levels.go
//
// Read-only catalog routes:
//   - GET /levels        → every level summary, in catalog order
//   - GET /levels/daily  → today's level (deterministic from date + salt)
//   - GET /levels/{id}   → one level's layout, without answers

package httpserver

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/robalobadob/crossclue/internal/daily"
	"github.com/robalobadob/crossclue/internal/level"
)

// levelSummary is the catalog entry shown in level pickers.
type levelSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	SecondaryTitle string `json:"secondaryTitle,omitempty"`
	Rows           int    `json:"rows"`
	Cols           int    `json:"cols"`
	Clues          int    `json:"clues"`
}

// layoutCell is one cell of a level layout; expected letters are never sent.
type layoutCell struct {
	Kind string `json:"kind"` // "empty" | "letter" | "clue"
	Clue string `json:"clue,omitempty"`
}

// levelDetail adds the cell layout to a summary.
type levelDetail struct {
	levelSummary
	ClueIDs []string       `json:"clueIds"`
	Layout  [][]layoutCell `json:"layout"`
}

type dailyRes struct {
	Date  string       `json:"date"`
	Level levelSummary `json:"level"`
}

func (s *Server) mountLevels(r chi.Router) {
	r.Route("/levels", func(r chi.Router) {
		r.Get("/", s.handleLevels)
		r.Get("/daily", s.handleDaily)
		r.Get("/{id}", s.handleLevel)
	})
}

func summarize(l *level.Level) levelSummary {
	return levelSummary{
		ID:             l.ID,
		Title:          l.Title,
		SecondaryTitle: l.SecondaryTitle,
		Rows:           l.Rows(),
		Cols:           l.Cols(),
		Clues:          len(l.Clues),
	}
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	c := s.opts.Catalog
	out := make([]levelSummary, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		out = append(out, summarize(c.At(i)))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := s.opts.Now()
	l, err := daily.Pick(s.opts.Catalog, now, s.opts.DailySalt)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyRes{Date: daily.DateKey(now), Level: summarize(l)})
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	l, err := s.opts.Catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	ids := lo.Keys(l.Clues)
	sort.Strings(ids)
	layout := lo.Map(l.Grid, func(row []level.Cell, _ int) []layoutCell {
		return lo.Map(row, func(c level.Cell, _ int) layoutCell {
			return layoutCell{Kind: c.Kind.String(), Clue: c.ClueID}
		})
	})
	writeJSON(w, http.StatusOK, levelDetail{levelSummary: summarize(l), ClueIDs: ids, Layout: layout})
}
