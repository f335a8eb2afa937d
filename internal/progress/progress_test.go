package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/store"
)

// flakyKV wraps a Memory and fails the first n Set calls.
type flakyKV struct {
	*store.Memory
	mu       sync.Mutex
	failSets int
	sets     int
	down     bool
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	down := f.down
	f.mu.Unlock()
	if down {
		return "", false, store.ErrUnavailable
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.sets++
	fail := f.down || f.failSets > 0
	if f.failSets > 0 {
		f.failSets--
	}
	f.mu.Unlock()
	if fail {
		return store.ErrUnavailable
	}
	return f.Memory.Set(ctx, key, value)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := map[grid.Position]string{grid.At(0, 1): "C", grid.At(3, 2): "I", grid.At(10, 0): "Q"}

	raw, err := Encode(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"0-1":"C","3-2":"I","10-0":"Q"}`, raw)

	out, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRejectsBadKeys(t *testing.T) {
	_, err := Decode(`{"nope":"A"}`)
	assert.True(t, errors.Is(err, grid.ErrBadPosition))
	_, err = Decode(`[1,2]`)
	assert.Error(t, err)
}

func TestPersistReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	snap := Snapshot{
		Guesses:        map[grid.Position]string{grid.At(1, 1): "C", grid.At(1, 2): "Z"},
		CorrectAnswers: map[grid.Position]string{grid.At(1, 1): "C"},
	}

	require.NoError(t, Write(ctx, kv, "easylevel", snap))
	assert.Equal(t, []string{"correctAnswers-easylevel", "guesses-easylevel"}, kv.Keys())

	got, err := Load(ctx, kv, "easylevel")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestLoadMissingAndCorruptValues(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	got, err := Load(ctx, kv, "nothing")
	require.NoError(t, err)
	assert.Equal(t, Empty(), got)

	require.NoError(t, kv.Set(ctx, GuessesKey("bad"), "{not json"))
	require.NoError(t, kv.Set(ctx, CorrectAnswersKey("bad"), `{"0-1":"A"}`))
	got, err = Load(ctx, kv, "bad")
	require.NoError(t, err)
	assert.Empty(t, got.Guesses)
	assert.Equal(t, map[grid.Position]string{grid.At(0, 1): "A"}, got.CorrectAnswers)
}

func TestLoadStorageFailureFallsBackToEmpty(t *testing.T) {
	kv := &flakyKV{Memory: store.NewMemory(), down: true}

	got, err := Load(context.Background(), kv, "easylevel")
	assert.True(t, errors.Is(err, store.ErrUnavailable))
	assert.Equal(t, Empty(), got)
}

func TestDeleteRemovesBothKeys(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, Write(ctx, kv, "a", Empty()))
	require.NoError(t, Write(ctx, kv, "b", Empty()))

	require.NoError(t, Delete(ctx, kv, "a"))
	assert.Equal(t, []string{"correctAnswers-b", "guesses-b"}, kv.Keys())
}

func TestSaverLastWriteWins(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kv := store.NewMemory()
	s := NewSaver(kv, 1)
	defer s.Close(ctx)

	for _, ch := range []string{"A", "B", "C", "D"} {
		s.Save("lvl", Snapshot{
			Guesses:        map[grid.Position]string{grid.At(0, 0): ch},
			CorrectAnswers: map[grid.Position]string{},
		})
	}
	require.NoError(t, s.Flush(ctx))

	got, err := Load(ctx, kv, "lvl")
	require.NoError(t, err)
	assert.Equal(t, map[grid.Position]string{grid.At(0, 0): "D"}, got.Guesses)
}

func TestSaverCopiesSnapshots(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kv := store.NewMemory()
	s := NewSaver(kv, 1)
	defer s.Close(ctx)

	guesses := map[grid.Position]string{grid.At(0, 0): "A"}
	s.Save("lvl", Snapshot{Guesses: guesses})
	guesses[grid.At(0, 0)] = "mutated"
	require.NoError(t, s.Flush(ctx))

	got, err := Load(ctx, kv, "lvl")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Guesses[grid.At(0, 0)])
}

func TestSaverForgetSupersedesSave(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kv := store.NewMemory()
	require.NoError(t, Write(ctx, kv, "lvl", Empty()))

	s := NewSaver(kv, 1)
	defer s.Close(ctx)
	s.Save("lvl", Snapshot{Guesses: map[grid.Position]string{grid.At(0, 0): "A"}})
	s.Forget("lvl")
	require.NoError(t, s.Flush(ctx))

	assert.Empty(t, kv.Keys())
}

func TestSaverRetriesTransientFailures(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kv := &flakyKV{Memory: store.NewMemory(), failSets: 2}
	s := NewSaver(kv, 5)
	defer s.Close(ctx)

	s.Save("lvl", Snapshot{Guesses: map[grid.Position]string{grid.At(2, 2): "X"}})
	require.NoError(t, s.Flush(ctx))

	got, err := Load(ctx, kv, "lvl")
	require.NoError(t, err)
	assert.Equal(t, "X", got.Guesses[grid.At(2, 2)])
}

func TestSaverGivesUpWithoutBlocking(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kv := &flakyKV{Memory: store.NewMemory(), down: true}
	s := NewSaver(kv, 2)

	s.Save("lvl", Empty())
	require.NoError(t, s.Flush(ctx), "failed writes are dropped, not retried forever")
	require.NoError(t, s.Close(ctx))

	kv.mu.Lock()
	defer kv.mu.Unlock()
	assert.Equal(t, 2, kv.sets)
}

func TestFlushHonoursContext(t *testing.T) {
	kv := store.NewMemory()
	s := NewSaver(kv, 1)
	defer s.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Save("lvl", Empty())
	err := s.Flush(ctx)
	if err != nil {
		assert.True(t, errors.Is(err, context.Canceled))
	}
}
