package history

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/vroute/pkg/routepath"
)

// HashHistory stores the route after the "#" of the address bar, leaving
// the document path untouched: "/index.html#/users/42?tab=info". Use it when
// the host serves a single document and cannot route arbitrary paths.
type HashHistory struct {
	stack   *stack
	docPath string
	driver  Driver
	logger  *slog.Logger
}

var _ History = (*HashHistory)(nil)

// NewHashHistory creates a history from the full relative URL the platform
// shows. A URL whose fragment is not a route (no fragment, or one that does
// not start with "/") is rewritten to "#/" with a replace.
func NewHashHistory(initialURL string, opts ...Option) *HashHistory {
	o := buildOptions(opts)
	docPath, fragment, _ := strings.Cut(initialURL, "#")
	if docPath == "" {
		docPath = "/"
	}

	h := &HashHistory{docPath: docPath, driver: o.driver, logger: o.logger}
	if !strings.HasPrefix(fragment, "/") {
		fragment = "/"
		applyDriver(h.driver, h.logger, Command{Op: OpReplace, URL: h.encode(ParseLocation(fragment))})
	}
	h.stack = newStack(ParseLocation(fragment), h.mirror)
	return h
}

// Location implements History. The returned location describes the route
// inside the fragment, not the document URL.
func (h *HashHistory) Location() Location { return h.stack.location() }

// Push implements History.
func (h *HashHistory) Push(path, query string) { h.PushWithState(path, query, nil) }

// PushWithState implements History.
func (h *HashHistory) PushWithState(path, query string, state any) {
	h.stack.push(memoryLocation(rooted(path), query, state))
}

// Replace implements History.
func (h *HashHistory) Replace(path, query string) { h.ReplaceWithState(path, query, nil) }

// ReplaceWithState implements History.
func (h *HashHistory) ReplaceWithState(path, query string, state any) {
	h.stack.replace(memoryLocation(rooted(path), query, state))
}

// Go implements History.
func (h *HashHistory) Go(delta int) { h.stack.move(delta) }

// Back implements History.
func (h *HashHistory) Back() { h.Go(-1) }

// Forward implements History.
func (h *HashHistory) Forward() { h.Go(1) }

// Listen implements History.
func (h *HashHistory) Listen(fn func(Location)) (Unlisten, error) {
	return h.stack.listen(fn)
}

// HandlePopState applies a platform navigation. rawURL may be the full
// address-bar URL or just the fragment starting with "#".
func (h *HashHistory) HandlePopState(rawURL string) {
	_, fragment, _ := strings.Cut(rawURL, "#")
	h.stack.pop(ParseLocation(rooted(fragment)))
}

// URL returns the address-bar URL for the current location.
func (h *HashHistory) URL() string { return h.encode(h.Location()) }

// ListenerCount returns the number of registered listeners.
func (h *HashHistory) ListenerCount() int { return h.stack.listenerCount() }

// Close drops every listener. Later navigations are ignored and Listen
// returns ErrClosed.
func (h *HashHistory) Close() { h.stack.close() }

func (h *HashHistory) encode(loc Location) string {
	return h.docPath + "#" + routepath.JoinURL(loc.Path(), loc.Query(), loc.Hash())
}

func (h *HashHistory) mirror(op Op, loc Location, delta int) {
	cmd := Command{Op: op, Delta: delta}
	if op != OpGo {
		cmd.URL = h.encode(loc)
	}
	applyDriver(h.driver, h.logger, cmd)
}

func rooted(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
