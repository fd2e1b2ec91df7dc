package route

import (
	"fmt"
	"reflect"
	"sort"
)

// Case declares one route case: its pattern and how to convert between
// the case's params and a route value.
type Case[R any] struct {
	// Pattern is the path template, e.g. "/users/:id".
	Pattern string

	// Build constructs the route from matched params. Returning false
	// rejects the match so the next pattern is tried.
	Build func(Params) (R, bool)

	// Params reports the params of r when r belongs to this case.
	Params func(r R) (Params, bool)

	// NotFound marks the case as the fallback returned by NotFoundRoute.
	NotFound bool

	// fields are the param names the case binds; nil means unchecked.
	fields []string
	err    error
}

// NotFoundCase marks c as the not-found fallback.
func NotFoundCase[R any](c Case[R]) Case[R] {
	c.NotFound = true
	return c
}

// Struct declares a case backed by the struct type C, which must be
// assignable to R. Fields tagged `param:"name"` are bound from the
// pattern's parameters; the tags must cover exactly the pattern's names.
// C must be a struct value type and every tagged field must be exported.
func Struct[R any, C any](pattern string) Case[R] {
	c := Case[R]{Pattern: pattern}

	var zero C
	if _, ok := any(zero).(R); !ok {
		c.err = fmt.Errorf("%w: %T is not a %s", ErrCaseType, zero, reflect.TypeOf((*R)(nil)).Elem())
		return c
	}
	fields, err := caseFields(reflect.TypeOf((*C)(nil)).Elem())
	if err != nil {
		c.err = err
		return c
	}
	c.fields = fields

	parser := NewParamParser()
	c.Build = func(params Params) (R, bool) {
		var v C
		if err := parser.Parse(params, &v); err != nil {
			var none R
			return none, false
		}
		r, ok := any(v).(R)
		return r, ok
	}
	c.Params = func(r R) (Params, bool) {
		v, ok := any(r).(C)
		if !ok {
			return nil, false
		}
		params, err := parser.Format(v)
		if err != nil {
			return nil, false
		}
		return params, true
	}
	return c
}

// caseFields returns the param names bound by the struct type t.
func caseFields(t reflect.Type) ([]string, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is a %s, not a struct", ErrCaseType, t, t.Kind())
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("param") != "" && !f.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s is tagged but unexported", ErrCaseFields, t, f.Name)
		}
	}
	names := tagNames(t)
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Static declares a parameterless case whose route is always value.
// A route belongs to the case when it is deeply equal to value.
func Static[R any](pattern string, value R) Case[R] {
	return Case[R]{
		Pattern: pattern,
		Build: func(Params) (R, bool) {
			return value, true
		},
		Params: func(r R) (Params, bool) {
			if reflect.DeepEqual(r, value) {
				return Params{}, true
			}
			return nil, false
		},
		fields: []string{},
	}
}

type tableEntry[R any] struct {
	pattern *Pattern
	c       Case[R]
}

// Table is a Routable built from an ordered list of cases.
type Table[R any] struct {
	entries   []tableEntry[R]
	byPattern map[string]int
	notFound  int
}

var _ Routable[struct{}] = (*Table[struct{}])(nil)

// Define compiles the cases into a Table. Cases are matched in the order
// given.
func Define[R any](cases ...Case[R]) (*Table[R], error) {
	t := &Table[R]{
		byPattern: make(map[string]int, len(cases)),
		notFound:  -1,
	}

	for _, c := range cases {
		if c.err != nil {
			return nil, fmt.Errorf("pattern %q: %w", c.Pattern, c.err)
		}
		if c.Build == nil || c.Params == nil {
			return nil, fmt.Errorf("%w %q: case needs Build and Params", ErrInvalidPattern, c.Pattern)
		}
		p, err := Compile(c.Pattern)
		if err != nil {
			return nil, err
		}
		if _, dup := t.byPattern[p.String()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRoute, p.String())
		}
		if c.fields != nil && !sameNames(c.fields, p.names) {
			return nil, fmt.Errorf("%w: %q binds %v", ErrCaseFields, p.String(), c.fields)
		}
		if c.NotFound {
			if t.notFound >= 0 {
				return nil, ErrMultipleNotFound
			}
			if p.HasParams() {
				return nil, fmt.Errorf("%w: %q", ErrNotFoundParams, p.String())
			}
			t.notFound = len(t.entries)
		}

		t.byPattern[p.String()] = len(t.entries)
		t.entries = append(t.entries, tableEntry[R]{pattern: p, c: c})
	}

	return t, nil
}

// MustDefine is Define that panics on error. It is meant for package level
// route declarations.
func MustDefine[R any](cases ...Case[R]) *Table[R] {
	t, err := Define(cases...)
	if err != nil {
		panic(err)
	}
	return t
}

// Recognize implements Routable.
func (t *Table[R]) Recognize(pathname string) (R, bool) {
	for _, e := range t.entries {
		params, ok := e.pattern.Match(pathname)
		if !ok {
			continue
		}
		if r, ok := e.c.Build(params); ok {
			return r, true
		}
	}
	var none R
	return none, false
}

// FromPath implements Routable.
func (t *Table[R]) FromPath(pattern string, params Params) (R, bool) {
	var none R
	i, ok := t.byPattern[pattern]
	if !ok {
		return none, false
	}
	e := t.entries[i]
	if !e.pattern.accepts(params) {
		return none, false
	}
	return e.c.Build(params)
}

// ToPath implements Routable.
func (t *Table[R]) ToPath(r R) string {
	for _, e := range t.entries {
		params, ok := e.c.Params(r)
		if !ok {
			continue
		}
		if path, err := e.pattern.Build(params); err == nil {
			return path
		}
	}
	return ""
}

// Routes implements Routable.
func (t *Table[R]) Routes() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.pattern.String()
	}
	return out
}

// NotFoundRoute implements Routable.
func (t *Table[R]) NotFoundRoute() (R, bool) {
	if t.notFound < 0 {
		var none R
		return none, false
	}
	return t.entries[t.notFound].c.Build(Params{})
}

// Pattern returns the compiled pattern for a declared pattern string.
func (t *Table[R]) Pattern(pattern string) (*Pattern, bool) {
	i, ok := t.byPattern[pattern]
	if !ok {
		return nil, false
	}
	return t.entries[i].pattern, true
}

// Match is Recognize that also reports the pattern that matched and the
// extracted params.
func (t *Table[R]) Match(pathname string) (r R, pattern string, params Params, ok bool) {
	for _, e := range t.entries {
		ps, matched := e.pattern.Match(pathname)
		if !matched {
			continue
		}
		if route, built := e.c.Build(ps); built {
			return route, e.pattern.String(), ps, true
		}
	}
	return r, "", nil, false
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
