// internal/play/controller.go
//
// Command surface the presentation layer drives.
// Responsibilities:
//   - selectLevel: build a fresh Session from the catalog and saved progress.
//   - submitLetter / clearLetter: mutate the session, queue a save, and move
//     focus forward (after input) or backward (after deletion).
//   - focusRequested / activateClue: direction heuristic, blur locked cells.
//   - resetLevel: clear in-memory and persisted state of the current level.
//
// Concurrency:
//   - Commands are serialized by a mutex (single writer).
//   - SelectLevel blocks until its load completes. Starting another
//     SelectLevel cancels the pending load and its result is discarded.
//   - Storage failures never fail a command; they are logged and the
//     puzzle continues from in-memory state.

package play

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossclue/internal/clue"
	"github.com/robalobadob/crossclue/internal/game"
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
	"github.com/robalobadob/crossclue/internal/progress"
	"github.com/robalobadob/crossclue/internal/store"
)

var (
	// ErrNoLevel is returned by commands issued while no level is active
	// (none selected yet, or a selection is still loading).
	ErrNoLevel = errors.New("no level selected")
	// ErrSuperseded is returned by a SelectLevel whose load was overtaken by
	// a newer selection.
	ErrSuperseded = errors.New("level selection superseded")
)

// Options tune a Controller. Zero values are usable.
type Options struct {
	Resolver     *clue.Resolver
	Focus        game.FocusController
	SaveAttempts uint
	// ClearOnFocus removes an unlocked cell's guess when it receives focus,
	// so typing overwrites instead of appending.
	ClearOnFocus bool
}

// Controller owns the single active puzzle session.
type Controller struct {
	catalog      *level.Catalog
	kv           store.KV
	saver        *progress.Saver
	resolver     *clue.Resolver
	focus        game.FocusController
	clearOnFocus bool

	mu         sync.Mutex
	session    *game.Session
	levelID    string
	gen        uint64
	cancelLoad context.CancelFunc
}

// New constructs a Controller reading levels from catalog and persisting
// progress to kv.
func New(catalog *level.Catalog, kv store.KV, opts Options) *Controller {
	c := &Controller{
		catalog:      catalog,
		kv:           kv,
		saver:        progress.NewSaver(kv, opts.SaveAttempts),
		resolver:     opts.Resolver,
		focus:        opts.Focus,
		clearOnFocus: opts.ClearOnFocus,
	}
	if c.resolver == nil {
		c.resolver = clue.NewResolver("")
	}
	if c.focus == nil {
		c.focus = game.NopFocus{}
	}
	return c
}

// Catalog exposes the level catalog.
func (c *Controller) Catalog() *level.Catalog { return c.catalog }

// SelectLevel switches to level id, restoring its saved progress.
func (c *Controller) SelectLevel(ctx context.Context, id string) error {
	lvl, err := c.catalog.Get(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancelLoad = cancel
	c.session, c.levelID = nil, ""
	c.mu.Unlock()
	defer cancel()

	// Queued writes for this level must land before we read it back.
	snap := progress.Empty()
	err = c.saver.Flush(loadCtx)
	if err == nil {
		snap, err = progress.Load(loadCtx, c.kv, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		log.Debug().Str("level_id", id).Msg("discarding stale level load")
		return ErrSuperseded
	}
	c.cancelLoad = nil
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		log.Warn().Err(err).Str("level_id", id).Msg("progress load failed, starting blank")
		snap = progress.Empty()
	}

	g := grid.New(lvl)
	c.session = game.NewSession(g, c.resolver.Resolve(g, len(lvl.Clues)), snap.Guesses, snap.CorrectAnswers)
	c.levelID = id
	log.Info().Str("level_id", id).Int("guesses", len(snap.Guesses)).Int("locked", len(snap.CorrectAnswers)).Msg("level selected")
	return nil
}

// active returns the current session; callers hold c.mu.
func (c *Controller) active() (*game.Session, error) {
	if c.session == nil {
		return nil, ErrNoLevel
	}
	return c.session, nil
}

// persist queues the session's full state; callers hold c.mu.
func (c *Controller) persist(s *game.Session) {
	c.saver.Save(c.levelID, progress.Snapshot{
		Guesses:        s.Guesses(),
		CorrectAnswers: s.CorrectAnswers(),
	})
}

// SubmitLetter applies input at pos. Empty input behaves like ClearLetter.
// Accepted input moves focus forward along the active direction.
func (c *Controller) SubmitLetter(pos grid.Position, text string) (game.SubmitResult, error) {
	if level.NormalizeLetter(text) == "" {
		res, err := c.ClearLetter(pos)
		return game.SubmitResult{Accepted: res.Accepted}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return game.SubmitResult{}, err
	}
	res, err := s.SubmitLetter(pos, text)
	if err != nil || !res.Accepted {
		return res, err
	}
	c.persist(s)
	if res.BecameCorrect {
		log.Info().Str("level_id", c.levelID).Str("pos", pos.Key()).Msg("cell locked")
	}
	if next, ok := s.Next(pos, game.Forward); ok {
		c.focus.Focus(next)
	}
	return res, nil
}

// ClearLetter removes the guess at pos and moves focus backward.
func (c *Controller) ClearLetter(pos grid.Position) (game.ClearResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return game.ClearResult{}, err
	}
	res, err := s.ClearLetter(pos)
	if err != nil || !res.Accepted {
		return res, err
	}
	c.persist(s)
	if prev, ok := s.Next(pos, game.Backward); ok {
		c.focus.Focus(prev)
	}
	return res, nil
}

// FocusRequested handles a tap or programmatic focus on pos. Locked cells
// are blurred immediately; the returned flag reports that case.
func (c *Controller) FocusRequested(pos grid.Position) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return false, err
	}
	locked, err := s.FocusRequested(pos)
	if err != nil {
		return false, err
	}
	if locked {
		c.focus.Blur(pos)
		return true, nil
	}
	if _, has := s.CurrentGuess(pos); has && c.clearOnFocus {
		if res, _ := s.ClearLetter(pos); res.Accepted {
			c.persist(s)
		}
	}
	return false, nil
}

// ActivateClue returns the hint asset path for clueID.
func (c *Controller) ActivateClue(clueID string) (string, error) {
	h, err := c.RevealClue(clueID)
	return h.Path, err
}

// RevealClue activates clueID like ActivateClue and returns the full hint,
// including its accent color.
func (c *Controller) RevealClue(clueID string) (clue.Hint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return clue.Hint{}, err
	}
	if _, err := s.ActivateClue(clueID); err != nil {
		return clue.Hint{}, err
	}
	h, _ := s.Clues().Hint(clueID)
	return h, nil
}

// ResetLevel erases all progress of the current level, in memory and in
// storage. Storage failures are logged, not returned.
func (c *Controller) ResetLevel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return err
	}
	s.Reset()
	c.saver.Forget(c.levelID)
	if err := c.saver.Flush(ctx); err != nil {
		log.Warn().Err(err).Str("level_id", c.levelID).Msg("reset not yet persisted")
	}
	log.Info().Str("level_id", c.levelID).Msg("level reset")
	return nil
}

// SetDirection overrides the focus axis of the active session.
func (c *Controller) SetDirection(d game.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return err
	}
	s.SetDirection(d)
	return nil
}

// Board renders the active session for the presentation layer.
func (c *Controller) Board() (Board, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return Board{}, err
	}
	return render(s), nil
}

// Flush waits for queued progress writes.
func (c *Controller) Flush(ctx context.Context) error { return c.saver.Flush(ctx) }

// Close flushes pending writes and stops the background saver.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	c.mu.Unlock()
	return c.saver.Close(ctx)
}
