package trace

import (
	"slices"
	"sync"

	"github.com/rubengrill/blocks/internal/game"
)

// Recorder is a game.Observer that keeps every event in order and numbers
// them from 1.
//
// Thread-safety: Events, Len and Digest may be called from other
// goroutines while the game emits events.
type Recorder struct {
	mu     sync.Mutex
	seq    int64
	events []Event
	sink   func(Event)
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSink calls fn with every event right after it is recorded, on the
// goroutine that drives the game.
func WithSink(fn func(Event)) RecorderOption {
	return func(r *Recorder) {
		r.sink = fn
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) BlockSpawned(_ *game.Game, e game.SpawnEvent)    { r.record(e) }
func (r *Recorder) BlockMoved(_ *game.Game, e game.MoveEvent)       { r.record(e) }
func (r *Recorder) BlockCommitted(_ *game.Game, e game.CommitEvent) { r.record(e) }
func (r *Recorder) RowsCleared(_ *game.Game, e game.ClearEvent)     { r.record(e) }
func (r *Recorder) GameOver(_ *game.Game, e game.GameOverEvent)     { r.record(e) }

func (r *Recorder) record(e game.Event) {
	r.mu.Lock()
	r.seq++
	ev := FromGame(r.seq, e)
	r.events = append(r.events, ev)
	sink := r.sink
	r.mu.Unlock()

	if sink != nil {
		sink(ev)
	}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Digest fingerprints the events recorded so far.
func (r *Recorder) Digest() (string, error) {
	return Digest(r.Events())
}
