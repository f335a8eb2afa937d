// internal/progress/saver.go
//
// Asynchronous progress writer.
//
// Behavior:
//   - Save and Forget only queue work; they never block on storage I/O.
//   - Work is coalesced per level: only the latest queued operation for a
//     level is executed (a save carries the full mappings, so the last
//     write wins).
//   - A single background goroutine performs writes, so operations on the
//     same level complete in the order they were queued.
//   - Failed writes are retried; a write that still fails is logged and
//     dropped.

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/store"
)

const (
	defaultAttempts = 3
	retryDelay      = 50 * time.Millisecond
	opTimeout       = 5 * time.Second
)

type op struct {
	snap   Snapshot
	delete bool
}

// Saver writes level snapshots in the background.
type Saver struct {
	kv       store.KV
	attempts uint

	mu      sync.Mutex
	pending map[string]op
	queued  uint64        // operations accepted so far
	written uint64        // operations completed (or dropped) so far
	drained chan struct{} // closed and replaced after each batch
	wake    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSaver starts a saver writing to kv. attempts bounds the tries per
// write (defaults to 3 when zero).
func NewSaver(kv store.KV, attempts uint) *Saver {
	if attempts == 0 {
		attempts = defaultAttempts
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Saver{
		kv:       kv,
		attempts: attempts,
		pending:  make(map[string]op),
		drained:  make(chan struct{}),
		wake:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// Save queues the full state of a level. The maps are copied.
func (s *Saver) Save(levelID string, snap Snapshot) {
	s.enqueue(levelID, op{snap: Snapshot{
		Guesses:        cloneState(snap.Guesses),
		CorrectAnswers: cloneState(snap.CorrectAnswers),
	}})
}

// Forget queues deletion of a level's keys, superseding any queued save.
func (s *Saver) Forget(levelID string) {
	s.enqueue(levelID, op{delete: true})
}

func (s *Saver) enqueue(levelID string, o op) {
	s.mu.Lock()
	s.pending[levelID] = o
	s.queued++
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every operation queued before the call has completed.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	target := s.queued
	s.mu.Unlock()
	for {
		s.mu.Lock()
		if s.written >= target {
			s.mu.Unlock()
			return nil
		}
		ch := s.drained
		s.mu.Unlock()

		select {
		case <-ch:
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close flushes queued work (bounded by ctx) and stops the worker.
func (s *Saver) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	s.cancel()
	<-s.done
	return err
}

func (s *Saver) run() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.wake:
		}
		s.drain()
	}
}

// drain executes every pending operation, then publishes progress.
func (s *Saver) drain() {
	s.mu.Lock()
	batch := s.pending
	target := s.queued
	s.pending = make(map[string]op)
	s.mu.Unlock()

	for levelID, o := range batch {
		s.apply(levelID, o)
	}

	s.mu.Lock()
	s.written = target
	close(s.drained)
	s.drained = make(chan struct{})
	s.mu.Unlock()
}

func (s *Saver) apply(levelID string, o op) {
	ctx, cancel := context.WithTimeout(s.ctx, opTimeout)
	defer cancel()

	err := retry.Do(
		func() error {
			if o.delete {
				return Delete(ctx, s.kv, levelID)
			}
			return Write(ctx, s.kv, levelID, o.snap)
		},
		retry.Attempts(s.attempts),
		retry.Delay(retryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Str("level_id", levelID).Uint("attempt", n+1).Msg("retrying progress write")
		}),
	)
	if err != nil {
		log.Warn().Err(err).Str("level_id", levelID).Bool("delete", o.delete).Msg("progress write failed")
	}
}

func cloneState(m map[grid.Position]string) map[grid.Position]string {
	out := make(map[grid.Position]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
