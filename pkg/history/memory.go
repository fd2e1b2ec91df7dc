package history

import "github.com/vango-dev/vroute/pkg/routepath"

// MemoryHistory keeps its entries in process. It has no platform to mirror
// and is what tests and command line tools route against.
type MemoryHistory struct {
	stack *stack
}

var _ History = (*MemoryHistory)(nil)

// NewMemoryHistory creates a history whose single entry is initialURL.
func NewMemoryHistory(initialURL string) *MemoryHistory {
	return &MemoryHistory{stack: newStack(ParseLocation(initialURL), nil)}
}

// Location implements History.
func (h *MemoryHistory) Location() Location { return h.stack.location() }

// Push implements History.
func (h *MemoryHistory) Push(path, query string) { h.PushWithState(path, query, nil) }

// PushWithState implements History.
func (h *MemoryHistory) PushWithState(path, query string, state any) {
	h.stack.push(memoryLocation(path, query, state))
}

// Replace implements History.
func (h *MemoryHistory) Replace(path, query string) { h.ReplaceWithState(path, query, nil) }

// ReplaceWithState implements History.
func (h *MemoryHistory) ReplaceWithState(path, query string, state any) {
	h.stack.replace(memoryLocation(path, query, state))
}

// Go implements History.
func (h *MemoryHistory) Go(delta int) { h.stack.move(delta) }

// Back implements History.
func (h *MemoryHistory) Back() { h.Go(-1) }

// Forward implements History.
func (h *MemoryHistory) Forward() { h.Go(1) }

// Listen implements History.
func (h *MemoryHistory) Listen(fn func(Location)) (Unlisten, error) {
	return h.stack.listen(fn)
}

// Len returns the number of entries and the index of the current one.
func (h *MemoryHistory) Len() (length, index int) { return h.stack.size() }

// ListenerCount returns the number of registered listeners.
func (h *MemoryHistory) ListenerCount() int { return h.stack.listenerCount() }

// Close drops every listener. Later navigations are ignored and Listen
// returns ErrClosed.
func (h *MemoryHistory) Close() { h.stack.close() }

// memoryLocation accepts a path that may still carry a query or fragment.
// An embedded query comes before query.
func memoryLocation(path, query string, state any) Location {
	path, embedded, hash := routepath.SplitURL(path)
	return NewLocation(path, routepath.JoinQuery(embedded, query), hash, state)
}
