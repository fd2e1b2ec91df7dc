// Package navigator is the application-facing side of navigation: it
// wraps a history backend and applies the router's basename so that
// application code only ever deals with paths relative to its mount point.
package navigator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/route"
	"github.com/vango-dev/vroute/pkg/routepath"
)

// ErrUnroutable is returned when a route value has no path in its codec.
var ErrUnroutable = errors.New("navigator: route has no path")

// Navigator pushes and replaces application-relative paths on a history
// after prefixing them with the basename. A Navigator is immutable; the
// router builds a new one when the basename changes.
type Navigator struct {
	history  history.History
	basename string
}

// New creates a Navigator over h. basename is normalized: "" and "/" mean
// the application is mounted at root, and a trailing slash is dropped.
func New(h history.History, basename string) *Navigator {
	return &Navigator{history: h, basename: routepath.NormalizeBasename(basename)}
}

// Basename returns the normalized basename, "" when mounted at root.
func (n *Navigator) Basename() string { return n.basename }

// PrefixBasename maps an application-relative path to the path seen by the
// history backend.
func (n *Navigator) PrefixBasename(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if n.basename == "" {
		return path
	}
	return n.basename + path
}

// StripBasename maps a history path back to an application-relative path.
// A path outside the basename is returned unchanged.
func (n *Navigator) StripBasename(path string) string {
	switch {
	case n.basename == "":
		return path
	case path == n.basename:
		return "/"
	case strings.HasPrefix(path, n.basename+"/"):
		return path[len(n.basename):]
	default:
		return path
	}
}

// Push navigates to path, adding a history entry.
func (n *Navigator) Push(path string, opts ...Option) {
	o := buildOptions(opts)
	target, query := n.target(path, o)
	n.history.PushWithState(target, query, o.State)
}

// Replace navigates to path, replacing the current history entry.
func (n *Navigator) Replace(path string, opts ...Option) {
	o := buildOptions(opts)
	target, query := n.target(path, o)
	n.history.ReplaceWithState(target, query, o.State)
}

// Navigate pushes or replaces depending on the WithReplace option.
func (n *Navigator) Navigate(path string, opts ...Option) {
	o := buildOptions(opts)
	target, query := n.target(path, o)
	if o.Replace {
		n.history.ReplaceWithState(target, query, o.State)
		return
	}
	n.history.PushWithState(target, query, o.State)
}

// Go moves delta entries through the history.
func (n *Navigator) Go(delta int) { n.history.Go(delta) }

// Back navigates back in history.
func (n *Navigator) Back() { n.history.Back() }

// Forward navigates forward in history.
func (n *Navigator) Forward() { n.history.Forward() }

// Href returns the URL a link to path should carry, basename included.
func (n *Navigator) Href(path string, opts ...Option) string {
	path, embedded, fragment := routepath.SplitURL(path)
	query := routepath.JoinQuery(embedded, buildOptions(opts).query())
	return routepath.JoinURL(n.PrefixBasename(path), query, fragment)
}

// target splits a query off path and merges it with the option query.
// The fragment stays on the returned path for the history to split.
func (n *Navigator) target(path string, o Options) (string, string) {
	path, embedded, fragment := routepath.SplitURL(path)
	return routepath.JoinURL(n.PrefixBasename(path), "", fragment), routepath.JoinQuery(embedded, o.query())
}

// Equal reports whether both navigators drive the same history with the
// same basename.
func (n *Navigator) Equal(other *Navigator) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.history == other.history && n.basename == other.basename
}

// PushRoute navigates to the path of r under codec.
func PushRoute[R any](n *Navigator, codec route.Routable[R], r R, opts ...Option) error {
	path, err := routePath(codec, r)
	if err != nil {
		return err
	}
	n.Push(path, opts...)
	return nil
}

// ReplaceRoute replaces the current entry with the path of r under codec.
func ReplaceRoute[R any](n *Navigator, codec route.Routable[R], r R, opts ...Option) error {
	path, err := routePath(codec, r)
	if err != nil {
		return err
	}
	n.Replace(path, opts...)
	return nil
}

// RouteHref returns the link URL for r under codec.
func RouteHref[R any](n *Navigator, codec route.Routable[R], r R, opts ...Option) (string, error) {
	path, err := routePath(codec, r)
	if err != nil {
		return "", err
	}
	return n.Href(path, opts...), nil
}

func routePath[R any](codec route.Routable[R], r R) (string, error) {
	path := codec.ToPath(r)
	if path == "" {
		return "", fmt.Errorf("%w: %#v", ErrUnroutable, r)
	}
	return path, nil
}
