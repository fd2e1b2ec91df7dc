package history

import (
	"net/url"

	"github.com/vango-dev/vroute/pkg/routepath"
)

// Location is an immutable snapshot of a URL plus the opaque state that was
// attached to the navigation that produced it.
type Location struct {
	path  string
	query string
	hash  string
	state any
}

// NewLocation builds a Location. An empty path is reported as "/".
// query and hash are raw and carry no leading "?" or "#".
func NewLocation(path, query, hash string, state any) Location {
	if path == "" {
		path = "/"
	}
	return Location{path: path, query: query, hash: hash, state: state}
}

// ParseLocation builds a Location from a relative URL such as
// "/users/42?tab=info#bio".
func ParseLocation(rawURL string) Location {
	path, query, hash := routepath.SplitURL(rawURL)
	return Location{path: path, query: query, hash: hash}
}

// Path returns the URL path.
func (l Location) Path() string {
	if l.path == "" {
		return "/"
	}
	return l.path
}

// Query returns the raw query string without the leading "?".
func (l Location) Query() string { return l.query }

// Hash returns the fragment without the leading "#".
func (l Location) Hash() string { return l.hash }

// State returns the state attached by PushWithState or ReplaceWithState.
func (l Location) State() any { return l.state }

// Values parses the query string. Malformed pairs are dropped.
func (l Location) Values() url.Values {
	v, _ := url.ParseQuery(l.query)
	return v
}

// URL returns path, query and fragment joined back together.
func (l Location) URL() string {
	return routepath.JoinURL(l.Path(), l.query, l.hash)
}

// String implements fmt.Stringer.
func (l Location) String() string { return l.URL() }

// sameURL reports whether two locations point at the same URL, ignoring
// state.
func sameURL(a, b Location) bool {
	return a.Path() == b.Path() && a.query == b.query && a.hash == b.hash
}
