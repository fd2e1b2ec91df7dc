package route

import (
	"fmt"
	"net/url"
	"strings"
)

type segmentKind uint8

const (
	segLiteral segmentKind = iota
	segParam
	segCatchAll
)

// segment is one compiled component of a pattern.
type segment struct {
	kind      segmentKind
	value     string // literal text
	name      string // parameter name (without ':' or '*')
	paramType string // declared type for ':name:type'
}

// Pattern is a compiled route pattern.
type Pattern struct {
	raw      string
	segments []segment
	names    []string
}

// Compile parses a pattern such as "/users/:id" or "/files/*path".
func Compile(raw string) (*Pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("%w %q: must start with /", ErrInvalidPattern, raw)
	}

	p := &Pattern{raw: raw}
	seen := make(map[string]bool)
	parts := splitPattern(raw)

	for i, part := range parts {
		var seg segment
		switch {
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: %q", ErrCatchAllNotLast, raw)
			}
			seg = segment{kind: segCatchAll, name: part[1:], paramType: "string"}
		case strings.HasPrefix(part, ":"):
			name, paramType := parseParamSegment(part)
			seg = segment{kind: segParam, name: name, paramType: paramType}
		case part == "":
			return nil, fmt.Errorf("%w %q: empty segment", ErrInvalidPattern, raw)
		default:
			seg = segment{kind: segLiteral, value: part}
		}

		if seg.kind != segLiteral {
			if seg.name == "" {
				return nil, fmt.Errorf("%w %q: unnamed parameter", ErrInvalidPattern, raw)
			}
			if seen[seg.name] {
				return nil, fmt.Errorf("%w %q in %q", ErrDuplicateParam, seg.name, raw)
			}
			seen[seg.name] = true
			p.names = append(p.names, seg.name)
		}
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as declared.
func (p *Pattern) String() string { return p.raw }

// Names returns the parameter names in declaration order.
func (p *Pattern) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// HasParams reports whether the pattern declares any parameter.
func (p *Pattern) HasParams() bool { return len(p.names) > 0 }

// Match matches pathname against the pattern and extracts its parameters.
//
// Literal segments compare exactly. A ':name' segment consumes one
// non-empty segment, percent-decoded and checked against its declared type.
// A '*name' segment captures the rest of the path verbatim, which may be
// empty. A single trailing slash is tolerated.
func (p *Pattern) Match(pathname string) (Params, bool) {
	rest := strings.TrimPrefix(pathname, "/")
	params := make(Params, len(p.names))

	for _, seg := range p.segments {
		if seg.kind == segCatchAll {
			params[seg.name] = rest
			return params, true
		}
		if rest == "" {
			return nil, false
		}

		var part string
		part, rest, _ = strings.Cut(rest, "/")

		switch seg.kind {
		case segLiteral:
			if part != seg.value {
				return nil, false
			}
		case segParam:
			if part == "" {
				return nil, false
			}
			decoded, err := url.PathUnescape(part)
			if err != nil {
				return nil, false
			}
			if ValidateParam(decoded, seg.paramType) != nil {
				return nil, false
			}
			params[seg.name] = decoded
		}
	}

	if rest != "" {
		return nil, false
	}
	return params, true
}

// Build substitutes params into the pattern. Every ':name' parameter must
// be present, non-empty and valid for its declared type; a '*name'
// parameter may be empty.
func (p *Pattern) Build(params Params) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.kind {
		case segLiteral:
			b.WriteString(seg.value)
		case segParam:
			v, ok := params[seg.name]
			if !ok || v == "" {
				return "", fmt.Errorf("%w %q for %q", ErrMissingParam, seg.name, p.raw)
			}
			if err := ValidateParam(v, seg.paramType); err != nil {
				return "", fmt.Errorf("param %q: %w", seg.name, err)
			}
			b.WriteString(url.PathEscape(v))
		case segCatchAll:
			v, ok := params[seg.name]
			if !ok {
				return "", fmt.Errorf("%w %q for %q", ErrMissingParam, seg.name, p.raw)
			}
			b.WriteString(v)
		}
	}
	return b.String(), nil
}

// accepts reports whether params has exactly the pattern's names and every
// value is acceptable for its segment.
func (p *Pattern) accepts(params Params) bool {
	if len(params) != len(p.names) {
		return false
	}
	for _, seg := range p.segments {
		if seg.kind == segLiteral {
			continue
		}
		v, ok := params[seg.name]
		if !ok {
			return false
		}
		if seg.kind == segParam && (v == "" || ValidateParam(v, seg.paramType) != nil) {
			return false
		}
	}
	return true
}

// splitPattern splits a pattern into segments. The root pattern "/" has
// none; a trailing slash is ignored.
func splitPattern(raw string) []string {
	raw = strings.TrimPrefix(raw, "/")
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "/")
}

// parseParamSegment extracts name and type from a parameter segment.
// Input: ":id" or ":id:int" -> name="id", type="string" or "int"
func parseParamSegment(seg string) (name, paramType string) {
	seg = seg[1:]
	if idx := strings.Index(seg, ":"); idx != -1 {
		return seg[:idx], seg[idx+1:]
	}
	return seg, "string"
}
