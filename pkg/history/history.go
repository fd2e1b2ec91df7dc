package history

import (
	"errors"
	"log/slog"
)

// ErrClosed is returned by Listen once the history has been closed.
var ErrClosed = errors.New("history: closed")

// History is the capability set the router needs from a navigation backend.
type History interface {
	// Location returns the most recently committed location.
	Location() Location

	// Push commits a new entry after the current one, discarding any
	// forward entries.
	Push(path, query string)

	// PushWithState is Push with an opaque state payload.
	PushWithState(path, query string, state any)

	// Replace overwrites the current entry without adding history.
	Replace(path, query string)

	// ReplaceWithState is Replace with an opaque state payload.
	ReplaceWithState(path, query string, state any)

	// Go moves delta entries through the stack. Out of range moves are
	// ignored.
	Go(delta int)

	// Back is Go(-1).
	Back()

	// Forward is Go(1).
	Forward()

	// Listen registers fn for every subsequent navigation. The returned
	// function removes the listener; calling it more than once is a no-op.
	Listen(fn func(Location)) (Unlisten, error)
}

// Unlisten removes a listener registered with History.Listen.
type Unlisten func()

// Op identifies the kind of navigation mirrored to a Driver.
type Op string

const (
	OpPush    Op = "push"
	OpReplace Op = "replace"
	OpGo      Op = "go"
)

// Command is a committed navigation that a Driver reflects onto the
// platform address bar.
type Command struct {
	Op Op

	// URL is the full address-bar URL for push and replace.
	URL string

	// Delta is the traversal distance for go.
	Delta int
}

// Driver mirrors commits to the platform that owns the real address bar.
// Apply must not block on the platform's reply; external navigations come
// back through HandlePopState.
type Driver interface {
	Apply(cmd Command) error
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(cmd Command) error

// Apply implements Driver.
func (f DriverFunc) Apply(cmd Command) error { return f(cmd) }

// Option configures a history backend.
type Option func(*options)

type options struct {
	logger *slog.Logger
	driver Driver
}

// WithLogger sets the logger used for driver failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDriver sets the platform driver. Without one the backend only keeps
// its in-process stack.
func WithDriver(d Driver) Option {
	return func(o *options) {
		o.driver = d
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
