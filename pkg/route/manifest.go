package route

import "fmt"

// Named is the route type of a Manifest: the name of the declared entry
// together with the params extracted for it.
type Named struct {
	Name    string
	Pattern string
	Params  Params
}

// ManifestEntry declares one named pattern.
type ManifestEntry struct {
	Name    string
	Pattern string
}

// NewManifest builds a Table over Named routes from entries loaded at
// runtime, for example from a configuration file. notFound names the entry
// used as the fallback and may be empty.
func NewManifest(entries []ManifestEntry, notFound string) (*Table[Named], error) {
	cases := make([]Case[Named], 0, len(entries))
	names := make(map[string]bool, len(entries))
	foundFallback := notFound == ""

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w %q: entry has no name", ErrInvalidPattern, e.Pattern)
		}
		if names[e.Name] {
			return nil, fmt.Errorf("%w: name %q declared twice", ErrDuplicateRoute, e.Name)
		}
		names[e.Name] = true

		c := namedCase(e)
		if e.Name == notFound {
			c.NotFound = true
			foundFallback = true
		}
		cases = append(cases, c)
	}

	if !foundFallback {
		return nil, fmt.Errorf("not-found route %q is not declared", notFound)
	}
	return Define(cases...)
}

func namedCase(e ManifestEntry) Case[Named] {
	return Case[Named]{
		Pattern: e.Pattern,
		Build: func(params Params) (Named, bool) {
			return Named{Name: e.Name, Pattern: e.Pattern, Params: params}, true
		},
		Params: func(r Named) (Params, bool) {
			if r.Name != e.Name {
				return nil, false
			}
			if r.Params == nil {
				return Params{}, true
			}
			return r.Params, true
		},
	}
}
