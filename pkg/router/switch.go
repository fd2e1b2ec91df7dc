package router

import (
	"sync"

	"github.com/vango-dev/vroute/pkg/route"
)

// SwitchOption configures Switch and SwitchView.
type SwitchOption func(*switchOptions)

type switchOptions struct {
	pathname    string
	hasPathname bool
}

// WithPathname resolves pathname instead of the Router's location. The
// pathname is relative to the basename. An override that matches no route
// does not fall back to the route of the current location: the Switch
// renders the not-found route, or the zero output, and logs a warning.
func WithPathname(pathname string) SwitchOption {
	return func(o *switchOptions) {
		o.pathname = pathname
		o.hasPathname = true
	}
}

// matcher is implemented by codecs that can report the pattern they
// matched, such as *route.Table.
type matcher[R any] interface {
	Match(pathname string) (r R, pattern string, params route.Params, ok bool)
}

// CurrentRoute resolves the Router's current location through codec.
func CurrentRoute[R any](r *Router, codec route.Routable[R]) (R, bool) {
	return codec.Recognize(r.Pathname())
}

// Switch resolves the current location, or the WithPathname override,
// through codec and renders the result. An unmatched location logs a
// warning and renders codec's not-found route, or returns the zero Out if
// there is none.
func Switch[R any, Out any](r *Router, codec route.Routable[R], render func(R) Out, opts ...SwitchOption) Out {
	var o switchOptions
	for _, opt := range opts {
		opt(&o)
	}
	pathname := o.pathname
	if !o.hasPathname {
		pathname = r.Pathname()
	}

	span := r.startSpan(spanResolve, attrPath.String(pathname))
	defer endSpan(span, nil)

	if value, pattern, ok := resolve(codec, pathname); ok {
		span.SetAttributes(attrMatched.Bool(true), attrPattern.String(pattern))
		r.opts.metrics.recordResolution(pattern)
		return render(value)
	}

	span.SetAttributes(attrMatched.Bool(false))
	r.opts.metrics.recordUnmatched()
	r.opts.logger.Warn("no route matched", "path", pathname)

	if notFound, ok := codec.NotFoundRoute(); ok {
		return render(notFound)
	}
	var zero Out
	return zero
}

func resolve[R any](codec route.Routable[R], pathname string) (R, string, bool) {
	if m, ok := codec.(matcher[R]); ok {
		value, pattern, _, ok := m.Match(pathname)
		return value, pattern, ok
	}
	value, ok := codec.Recognize(pathname)
	return value, "", ok
}

// SwitchView keeps a Switch rendered: it renders once on creation and again
// for every LocationContext the Router publishes, handing each output to
// sink.
type SwitchView[R any, Out any] struct {
	router *Router
	codec  route.Routable[R]
	render func(R) Out
	sink   func(Out)
	opts   []SwitchOption

	mu       sync.Mutex
	current  Out
	revision uint64

	unsubscribe func()
	closeOnce   sync.Once
}

// NewSwitchView renders the current location into sink and subscribes to
// r. Call Close to stop.
func NewSwitchView[R any, Out any](r *Router, codec route.Routable[R], render func(R) Out, sink func(Out), opts ...SwitchOption) *SwitchView[R, Out] {
	v := &SwitchView[R, Out]{
		router: r,
		codec:  codec,
		render: render,
		sink:   sink,
		opts:   opts,
	}
	v.update(r.Context())
	v.unsubscribe = r.Subscribe(v.update)
	return v
}

func (v *SwitchView[R, Out]) update(ctx LocationContext) {
	out := Switch(v.router, v.codec, v.render, v.opts...)

	v.mu.Lock()
	v.current = out
	v.revision = ctx.Revision
	v.mu.Unlock()

	if v.sink != nil {
		v.sink(out)
	}
}

// Current returns the last rendered output and the revision it was
// rendered for.
func (v *SwitchView[R, Out]) Current() (Out, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.revision
}

// Close unsubscribes from the Router. It is safe to call more than once.
func (v *SwitchView[R, Out]) Close() {
	v.closeOnce.Do(v.unsubscribe)
}
