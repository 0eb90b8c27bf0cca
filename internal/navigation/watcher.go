package navigation

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"repolines/logging"
)

// Default settle delays
const (
	DefaultHistoryDelay  = 100 * time.Millisecond
	DefaultMutationDelay = 500 * time.Millisecond
)

// Source identifies what kind of signal settled
type Source string

const (
	SourceHistory  Source = "history"
	SourceMutation Source = "mutation"
)

// Settled is published once a navigation signal has been quiet for its delay
type Settled struct {
	At     time.Time
	Source Source
}

// History is the page history API: pushState/replaceState change the address
// without reloading the page
type History interface {
	PushState(url string)
	ReplaceState(url string)
}

// PopStateEmitter notifies back/forward traversal.
// OnPopState returns a function that removes the listener.
type PopStateEmitter interface {
	OnPopState(fn func()) func()
}

// MutationBatch is one batch of document mutations
type MutationBatch struct {
	AddedNodes int
}

// MutationSource delivers document mutation batches.
// The channel is closed when the source stops.
type MutationSource interface {
	Mutations() <-chan MutationBatch
}

// Watcher turns history changes and document mutations into settled
// navigation signals. Each source has its own debounce timer; a new signal
// re-arms the timer of its source only. Pending signals coalesce.
type Watcher struct {
	clock   clockwork.Clock
	closed  bool
	delays  map[Source]time.Duration
	gens    map[Source]uint64
	mu      sync.Mutex
	settled chan Settled
	timers  map[Source]clockwork.Timer
	unsubs  []func()
	wg      sync.WaitGroup
}

// Option configures a Watcher
type Option func(*Watcher)

// WithClock replaces the clock driving the debounce timers
func WithClock(clock clockwork.Clock) Option {
	return func(w *Watcher) { w.clock = clock }
}

// WithDelays overrides the settle delays. Non-positive values keep the default.
func WithDelays(history, mutation time.Duration) Option {
	return func(w *Watcher) {
		if history > 0 {
			w.delays[SourceHistory] = history
		}
		if mutation > 0 {
			w.delays[SourceMutation] = mutation
		}
	}
}

// NewWatcher creates a Watcher with the default delays and a real clock
func NewWatcher(opts ...Option) *Watcher {
	w := &Watcher{
		clock: clockwork.NewRealClock(),
		delays: map[Source]time.Duration{
			SourceHistory:  DefaultHistoryDelay,
			SourceMutation: DefaultMutationDelay,
		},
		gens:    make(map[Source]uint64),
		settled: make(chan Settled, 1),
		timers:  make(map[Source]clockwork.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Settled delivers settled signals. It is closed by Close.
func (w *Watcher) Settled() <-chan Settled {
	return w.settled
}

// Wrap returns a History that forwards to h and then signals a history change
func (w *Watcher) Wrap(h History) History {
	return &watchedHistory{inner: h, watcher: w}
}

// ListenPopState signals a history change on every back/forward traversal
func (w *Watcher) ListenPopState(e PopStateEmitter) {
	unsub := e.OnPopState(func() { w.signal(SourceHistory) })

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		unsub()
		return
	}
	w.unsubs = append(w.unsubs, unsub)
}

// Observe consumes mutation batches until ctx is done or the source closes.
// Batches that add no nodes are ignored.
func (w *Watcher) Observe(ctx context.Context, src MutationSource) {
	batches := src.Mutations()
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case batch, ok := <-batches:
				if !ok {
					return
				}
				if batch.AddedNodes > 0 {
					w.signal(SourceMutation)
				}
			}
		}
	}()
}

// Close stops all pending timers and listeners and closes the Settled channel.
// Observers started with Observe must be stopped through their context first.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	for source, t := range w.timers {
		t.Stop()
		delete(w.timers, source)
	}
	unsubs := w.unsubs
	w.unsubs = nil
	close(w.settled)
	w.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// Wait blocks until all observers have returned
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) signal(source Source) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if t, ok := w.timers[source]; ok {
		t.Stop()
	}
	w.gens[source]++
	gen := w.gens[source]
	w.timers[source] = w.clock.AfterFunc(w.delays[source], func() {
		w.fire(source, gen)
	})
}

func (w *Watcher) fire(source Source, gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.gens[source] != gen {
		return
	}
	delete(w.timers, source)

	select {
	case w.settled <- Settled{At: w.clock.Now(), Source: source}:
		logging.Logger.Debug("Navigation settled", "source", source)
	default:
		// a settled signal is already pending
	}
}

type watchedHistory struct {
	inner   History
	watcher *Watcher
}

func (h *watchedHistory) PushState(url string) {
	h.inner.PushState(url)
	h.watcher.signal(SourceHistory)
}

func (h *watchedHistory) ReplaceState(url string) {
	h.inner.ReplaceState(url)
	h.watcher.signal(SourceHistory)
}
