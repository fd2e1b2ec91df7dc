package router

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/navigator"
	"github.com/vango-dev/vroute/pkg/routepath"
)

var (
	// ErrAlreadyMounted is returned by Mount on an active Router.
	ErrAlreadyMounted = errors.New("router: already mounted")

	// ErrUnmounted is returned by Mount after Unmount.
	ErrUnmounted = errors.New("router: unmounted")
)

type state int

const (
	stateUninitialized state = iota
	stateActive
	stateUnmounted
)

func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateActive:
		return "active"
	case stateUnmounted:
		return "unmounted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Router owns a history and publishes its location as a LocationContext.
type Router struct {
	history history.History
	opts    options
	cell    cell

	mu       sync.RWMutex
	state    state
	basename string
	nav      *navigator.Navigator
	unlisten history.Unlisten
}

// New creates an unmounted Router over h.
func New(h history.History, opts ...Option) *Router {
	o := buildOptions(opts)
	basename := routepath.NormalizeBasename(o.basename)
	r := &Router{
		history:  h,
		opts:     o,
		basename: basename,
		nav:      navigator.New(h, basename),
	}
	r.cell.reset(h.Location())
	return r
}

// Mount activates the Router: it moves the current path under the basename
// if needed, captures the location and starts listening to the history.
// A Router is mounted at most once.
func (r *Router) Mount() (err error) {
	span := r.startSpan(spanMount)
	defer func() { endSpan(span, err) }()

	r.mu.Lock()
	switch r.state {
	case stateActive:
		r.mu.Unlock()
		return ErrAlreadyMounted
	case stateUnmounted:
		r.mu.Unlock()
		return ErrUnmounted
	}
	nav := navigator.New(r.history, r.basename)
	r.nav = nav
	r.mu.Unlock()
	span.SetAttributes(attrBasename.String(nav.Basename()))

	// On mount the path may or may not already carry the basename, so the
	// new navigator is also used to strip it.
	r.reconcile(nav, nav)
	r.cell.reset(r.history.Location())

	unlisten, err := r.history.Listen(r.handle)
	if err != nil {
		return fmt.Errorf("router: listen: %w", err)
	}

	r.mu.Lock()
	r.unlisten = unlisten
	r.state = stateActive
	r.mu.Unlock()
	r.opts.metrics.mountedDelta(1)

	if r.opts.onMount == nil {
		return nil
	}

	mounted := false
	defer func() {
		if !mounted {
			r.release(stateUninitialized)
		}
	}()
	if err := r.opts.onMount(r); err != nil {
		return fmt.Errorf("router: mount hook: %w", err)
	}
	mounted = true
	return nil
}

// Unmount releases the history listener. It is safe to call more than once.
func (r *Router) Unmount() {
	r.release(stateUnmounted)
}

func (r *Router) release(next state) {
	r.mu.Lock()
	if r.state != stateActive {
		r.mu.Unlock()
		return
	}
	unlisten := r.unlisten
	r.unlisten = nil
	r.state = next
	r.mu.Unlock()

	unlisten()
	r.opts.metrics.mountedDelta(-1)
	r.opts.logger.Debug("router released", "state", next)
}

// SetBasename changes the basename. On an active Router the current path
// is moved from the old basename to the new one with a replace, so no
// history entry is added.
func (r *Router) SetBasename(basename string) {
	basename = routepath.NormalizeBasename(basename)

	r.mu.Lock()
	if basename == r.basename {
		r.mu.Unlock()
		return
	}
	old := r.nav
	r.basename = basename
	r.nav = navigator.New(r.history, basename)
	nav := r.nav
	active := r.state == stateActive
	r.mu.Unlock()

	if active {
		r.reconcile(old, nav)
	}
}

// reconcile rewrites the current path from old's basename to nav's.
// It reports whether the history was replaced.
func (r *Router) reconcile(old, nav *navigator.Navigator) bool {
	loc := r.history.Location()
	prefixed := nav.PrefixBasename(old.StripBasename(loc.Path()))

	span := r.startSpan(spanReconcile,
		attrPath.String(loc.Path()),
		attrBasename.String(nav.Basename()),
	)
	defer endSpan(span, nil)

	if prefixed == loc.Path() {
		span.SetAttributes(attrReplaced.Bool(false))
		return false
	}
	span.SetAttributes(attrReplaced.Bool(true))
	r.opts.logger.Debug("basename reconciled", "from", loc.Path(), "to", prefixed)
	r.history.ReplaceWithState(prefixed, loc.Query(), loc.State())
	return true
}

// handle is the history listener.
func (r *Router) handle(loc history.Location) {
	span := r.startSpan(spanNavigate,
		attrPath.String(loc.Path()),
		attrQuery.String(loc.Query()),
	)
	r.opts.metrics.recordNavigation()
	next := r.cell.advance(loc)
	span.SetAttributes(attrRevision.Int64(int64(next.Revision)))
	endSpan(span, nil)
}

// Subscribe registers fn to receive every LocationContext published after
// this call. The returned function unsubscribes; it is safe to call twice.
func (r *Router) Subscribe(fn func(LocationContext)) func() {
	unsubscribe := r.cell.subscribe(fn)
	r.opts.metrics.subscribersDelta(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			r.opts.metrics.subscribersDelta(-1)
		})
	}
}

// Context returns the latest LocationContext.
func (r *Router) Context() LocationContext { return r.cell.get() }

// Location returns the latest location.
func (r *Router) Location() history.Location { return r.cell.get().Location }

// Revision returns the number of navigations observed since mount.
func (r *Router) Revision() uint64 { return r.cell.get().Revision }

// Navigator returns the navigator for the current basename.
func (r *Router) Navigator() *navigator.Navigator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nav
}

// Basename returns the normalized basename.
func (r *Router) Basename() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.basename
}

// History returns the history the Router owns.
func (r *Router) History() history.History { return r.history }

// Mounted reports whether the Router is active.
func (r *Router) Mounted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state == stateActive
}

// Subscribers returns the number of registered subscribers.
func (r *Router) Subscribers() int { return r.cell.count() }

// Logger returns the Router's logger.
func (r *Router) Logger() *slog.Logger { return r.opts.logger }

// Pathname returns the current path relative to the basename.
func (r *Router) Pathname() string {
	return r.Navigator().StripBasename(r.Location().Path())
}
