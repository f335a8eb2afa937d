// internal/httpserver/routes_play.go
//
// Play routes, all scoped to the caller's player controller:
//   - POST /play/select {level}        → board
//   - POST /play/letter {pos, text}    → result, focus events, board
//   - POST /play/clear  {pos}          → result, focus events, board
//   - POST /play/focus  {pos}          → locked flag, focus events, board
//   - POST /play/clue   {clue}         → hint path and color, board
//   - POST /play/reset                 → board
//   - GET  /play/board                 → board
//
// Positions travel as "row-col" strings. Only /play/select creates a
// player's controller; the other routes answer no_level for unknown players.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/play"
)

type selectReq struct {
	Level string `json:"level"`
}

type posReq struct {
	Pos  string `json:"pos"`
	Text string `json:"text"`
}

type clueReq struct {
	Clue string `json:"clue"`
}

// moveRes is returned by every command that can move focus.
type moveRes struct {
	Accepted      bool              `json:"accepted"`
	BecameCorrect bool              `json:"becameCorrect,omitempty"`
	Locked        bool              `json:"locked,omitempty"`
	Focus         []play.FocusEvent `json:"focus"`
	Board         play.Board        `json:"board"`
}

type clueRes struct {
	Path  string     `json:"path"`
	Color string     `json:"color"`
	Board play.Board `json:"board"`
}

func (s *Server) mountPlay(r chi.Router) {
	r.Post("/select", s.handleSelect)
	r.Post("/letter", s.handleLetter)
	r.Post("/clear", s.handleClear)
	r.Post("/focus", s.handleFocus)
	r.Post("/clue", s.handleClue)
	r.Post("/reset", s.handleReset)
	r.Get("/board", s.handleBoard)
}

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}

// decodePos reads a posReq and parses its position.
func decodePos(w http.ResponseWriter, r *http.Request) (posReq, grid.Position, bool) {
	var req posReq
	if !decode(w, r, &req) {
		return req, grid.Position{}, false
	}
	p, err := grid.ParsePosition(req.Pos)
	if err != nil {
		writeDomainError(w, err)
		return req, grid.Position{}, false
	}
	return req, p, true
}

// writeBoard renders the player's board into a response built by fill.
// Callers hold p.mu.
func (s *Server) writeBoard(w http.ResponseWriter, p *player, fill func(b play.Board) any) {
	b, err := p.ctrl.Board()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fill(b))
}

func boardOnly(b play.Board) any { return b }

// withActive runs fn holding the caller's player lock, or answers no_level
// when the player has not selected a level on this server.
func (s *Server) withActive(w http.ResponseWriter, r *http.Request, fn func(p *player)) {
	p, ok := s.lookupPlayer(playerID(r))
	if !ok {
		writeDomainError(w, play.ErrNoLevel)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if !decode(w, r, &req) {
		return
	}
	if _, err := s.opts.Catalog.Get(req.Level); err != nil {
		writeDomainError(w, err)
		return
	}
	p := s.ensurePlayer(playerID(r))
	// Not under p.mu: a newer selection must be able to supersede this one.
	if err := p.ctrl.SelectLevel(r.Context(), req.Level); err != nil {
		writeDomainError(w, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focus.Drain()
	s.writeBoard(w, p, boardOnly)
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	req, pos, ok := decodePos(w, r)
	if !ok {
		return
	}
	s.withActive(w, r, func(p *player) {
		res, err := p.ctrl.SubmitLetter(pos, req.Text)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.writeBoard(w, p, func(b play.Board) any {
			return moveRes{Accepted: res.Accepted, BecameCorrect: res.BecameCorrect, Focus: p.focus.Drain(), Board: b}
		})
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	_, pos, ok := decodePos(w, r)
	if !ok {
		return
	}
	s.withActive(w, r, func(p *player) {
		res, err := p.ctrl.ClearLetter(pos)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.writeBoard(w, p, func(b play.Board) any {
			return moveRes{Accepted: res.Accepted, Focus: p.focus.Drain(), Board: b}
		})
	})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	_, pos, ok := decodePos(w, r)
	if !ok {
		return
	}
	s.withActive(w, r, func(p *player) {
		locked, err := p.ctrl.FocusRequested(pos)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.writeBoard(w, p, func(b play.Board) any {
			return moveRes{Accepted: !locked, Locked: locked, Focus: p.focus.Drain(), Board: b}
		})
	})
}

func (s *Server) handleClue(w http.ResponseWriter, r *http.Request) {
	var req clueReq
	if !decode(w, r, &req) {
		return
	}
	s.withActive(w, r, func(p *player) {
		h, err := p.ctrl.RevealClue(req.Clue)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.writeBoard(w, p, func(b play.Board) any { return clueRes{Path: h.Path, Color: h.Color, Board: b} })
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withActive(w, r, func(p *player) {
		if err := p.ctrl.ResetLevel(r.Context()); err != nil {
			writeDomainError(w, err)
			return
		}
		p.focus.Drain()
		s.writeBoard(w, p, boardOnly)
	})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.withActive(w, r, func(p *player) { s.writeBoard(w, p, boardOnly) })
}
