package navigator

import (
	"fmt"
	"net/url"
)

// Options configures a single navigation.
type Options struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query is the query string to attach.
	Query url.Values

	// Params are query parameters formatted with %v and merged into Query.
	Params map[string]any

	// State is the opaque state stored with the history entry.
	State any
}

// Option is a functional option for navigation.
type Option func(*Options)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() Option {
	return func(o *Options) {
		o.Replace = true
	}
}

// WithQuery sets the query string.
func WithQuery(q url.Values) Option {
	return func(o *Options) {
		o.Query = q
	}
}

// WithParams adds query parameters to the navigation URL.
func WithParams(params map[string]any) Option {
	return func(o *Options) {
		o.Params = params
	}
}

// WithState attaches state to the history entry.
func WithState(state any) Option {
	return func(o *Options) {
		o.State = state
	}
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// query encodes Query and Params. Keys are sorted, so the result is stable.
func (o Options) query() string {
	if len(o.Query) == 0 && len(o.Params) == 0 {
		return ""
	}
	q := url.Values{}
	for k, vs := range o.Query {
		q[k] = append([]string(nil), vs...)
	}
	for k, v := range o.Params {
		q.Set(k, fmt.Sprintf("%v", v))
	}
	return q.Encode()
}
