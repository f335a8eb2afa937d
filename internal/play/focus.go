package play

import (
	"sync"

	"github.com/robalobadob/crossclue/internal/grid"
)

// FocusEvent is one focus transfer requested by the core.
type FocusEvent struct {
	Action string `json:"action"` // "focus" | "blur"
	Pos    string `json:"pos"`
}

// Recorder is a FocusController that buffers events for presentation
// layers that cannot be called back directly (HTTP clients).
type Recorder struct {
	mu     sync.Mutex
	events []FocusEvent
}

func (r *Recorder) Focus(p grid.Position) { r.add("focus", p) }
func (r *Recorder) Blur(p grid.Position)  { r.add("blur", p) }

func (r *Recorder) add(action string, p grid.Position) {
	r.mu.Lock()
	r.events = append(r.events, FocusEvent{Action: action, Pos: p.Key()})
	r.mu.Unlock()
}

// Drain returns and clears buffered events.
func (r *Recorder) Drain() []FocusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	if out == nil {
		out = []FocusEvent{}
	}
	return out
}
