// internal/progress/progress.go
//
// Per-level progress persistence on top of a store.KV.
//
// Keys:
//   guesses-{levelId}        → JSON object {"row-col": "X"}
//   correctAnswers-{levelId} → JSON object {"row-col": "X"}
//
// Missing or undecodable values load as empty mappings; storage failures
// are returned (wrapping store.ErrUnavailable) together with an empty
// snapshot so callers can log and carry on with a blank puzzle.

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/store"
)

// GuessesKey is the storage key of a level's guesses.
func GuessesKey(levelID string) string { return "guesses-" + levelID }

// CorrectAnswersKey is the storage key of a level's locked answers.
func CorrectAnswersKey(levelID string) string { return "correctAnswers-" + levelID }

// Snapshot is the persisted state of one level.
type Snapshot struct {
	Guesses        map[grid.Position]string
	CorrectAnswers map[grid.Position]string
}

// Empty returns a snapshot with non-nil, empty mappings.
func Empty() Snapshot {
	return Snapshot{
		Guesses:        map[grid.Position]string{},
		CorrectAnswers: map[grid.Position]string{},
	}
}

// Encode serializes a mapping as a JSON object keyed by "row-col".
func Encode(m map[grid.Position]string) (string, error) {
	out := make(map[string]string, len(m))
	for p, v := range m {
		out[p.Key()] = v
	}
	b, err := json.Marshal(out)
	return string(b), err
}

// Decode parses a JSON object keyed by "row-col".
func Decode(s string) (map[grid.Position]string, error) {
	var raw map[string]string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	out := make(map[grid.Position]string, len(raw))
	for k, v := range raw {
		p, err := grid.ParsePosition(k)
		if err != nil {
			return nil, err
		}
		out[p] = v
	}
	return out, nil
}

// Load reads both mappings of a level concurrently.
func Load(ctx context.Context, kv store.KV, levelID string) (Snapshot, error) {
	snap := Empty()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := loadOne(ctx, kv, GuessesKey(levelID))
		if m != nil {
			snap.Guesses = m
		}
		return err
	})
	g.Go(func() error {
		m, err := loadOne(ctx, kv, CorrectAnswersKey(levelID))
		if m != nil {
			snap.CorrectAnswers = m
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return Empty(), err
	}
	return snap, nil
}

func loadOne(ctx context.Context, kv store.KV, key string) (map[grid.Position]string, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	m, err := Decode(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding undecodable progress")
		return nil, nil
	}
	return m, nil
}

// Delete removes both keys of a level.
func Delete(ctx context.Context, kv store.KV, levelID string) error {
	return errors.Join(
		kv.Delete(ctx, GuessesKey(levelID)),
		kv.Delete(ctx, CorrectAnswersKey(levelID)),
	)
}

// Write stores both mappings of a level.
func Write(ctx context.Context, kv store.KV, levelID string, snap Snapshot) error {
	guesses, err := Encode(snap.Guesses)
	if err != nil {
		return fmt.Errorf("encode guesses: %w", err)
	}
	correct, err := Encode(snap.CorrectAnswers)
	if err != nil {
		return fmt.Errorf("encode correct answers: %w", err)
	}
	if err := kv.Set(ctx, GuessesKey(levelID), guesses); err != nil {
		return err
	}
	return kv.Set(ctx, CorrectAnswersKey(levelID), correct)
}
