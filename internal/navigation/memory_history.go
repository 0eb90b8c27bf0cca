package navigation

import "sync"

// MemoryHistory is an in-process session history with back/forward traversal.
// It is the page history of the terminal UI.
type MemoryHistory struct {
	entries   []string
	index     int
	listeners map[int]func()
	mu        sync.Mutex
	nextID    int
}

// NewMemoryHistory creates a history whose only entry is initial
func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{
		entries:   []string{initial},
		listeners: make(map[int]func()),
	}
}

// PushState adds an entry and drops any forward entries
func (h *MemoryHistory) PushState(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], url)
	h.index++
}

// ReplaceState replaces the current entry
func (h *MemoryHistory) ReplaceState(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = url
}

// Back moves one entry back. It reports false at the first entry.
func (h *MemoryHistory) Back() bool {
	return h.traverse(-1)
}

// Forward moves one entry forward. It reports false at the last entry.
func (h *MemoryHistory) Forward() bool {
	return h.traverse(1)
}

// Location returns the current entry
func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Entries returns a copy of all entries, oldest first
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// OnPopState registers fn for back/forward traversal
func (h *MemoryHistory) OnPopState(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *MemoryHistory) traverse(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	listeners := make([]func(), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}
