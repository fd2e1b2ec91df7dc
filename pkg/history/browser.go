package history

import "log/slog"

// BrowserHistory uses the address-bar path and query as the route. Every
// commit is mirrored to the platform through the Driver; back and forward
// presses made by the user arrive through HandlePopState.
type BrowserHistory struct {
	stack  *stack
	driver Driver
	logger *slog.Logger
}

var _ History = (*BrowserHistory)(nil)

// NewBrowserHistory creates a history positioned at initialURL, the
// relative URL the platform currently shows (for example "/app/users?x=1").
func NewBrowserHistory(initialURL string, opts ...Option) *BrowserHistory {
	o := buildOptions(opts)
	h := &BrowserHistory{driver: o.driver, logger: o.logger}
	h.stack = newStack(ParseLocation(initialURL), h.mirror)
	return h
}

// Location implements History.
func (h *BrowserHistory) Location() Location { return h.stack.location() }

// Push implements History.
func (h *BrowserHistory) Push(path, query string) { h.PushWithState(path, query, nil) }

// PushWithState implements History.
func (h *BrowserHistory) PushWithState(path, query string, state any) {
	h.stack.push(memoryLocation(path, query, state))
}

// Replace implements History.
func (h *BrowserHistory) Replace(path, query string) { h.ReplaceWithState(path, query, nil) }

// ReplaceWithState implements History.
func (h *BrowserHistory) ReplaceWithState(path, query string, state any) {
	h.stack.replace(memoryLocation(path, query, state))
}

// Go implements History.
func (h *BrowserHistory) Go(delta int) { h.stack.move(delta) }

// Back implements History.
func (h *BrowserHistory) Back() { h.Go(-1) }

// Forward implements History.
func (h *BrowserHistory) Forward() { h.Go(1) }

// Listen implements History.
func (h *BrowserHistory) Listen(fn func(Location)) (Unlisten, error) {
	return h.stack.listen(fn)
}

// HandlePopState applies a navigation the platform performed on its own,
// such as the user pressing back. rawURL is the relative URL now shown in
// the address bar; it must already be validated.
func (h *BrowserHistory) HandlePopState(rawURL string) {
	h.stack.pop(ParseLocation(rawURL))
}

// ListenerCount returns the number of registered listeners.
func (h *BrowserHistory) ListenerCount() int { return h.stack.listenerCount() }

// Close drops every listener. Later navigations are ignored and Listen
// returns ErrClosed.
func (h *BrowserHistory) Close() { h.stack.close() }

func (h *BrowserHistory) mirror(op Op, loc Location, delta int) {
	cmd := Command{Op: op, Delta: delta}
	if op != OpGo {
		cmd.URL = loc.URL()
	}
	applyDriver(h.driver, h.logger, cmd)
}

func applyDriver(d Driver, logger *slog.Logger, cmd Command) {
	if d == nil {
		return
	}
	if err := d.Apply(cmd); err != nil {
		logger.Warn("history driver failed", "op", cmd.Op, "url", cmd.URL, "error", err)
	}
}
