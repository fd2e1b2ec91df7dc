package routepath

import (
	"errors"
	"strings"
)

// Path validation errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// SplitURL splits a relative URL into its path, raw query and fragment.
// The query is returned without the leading "?" and the fragment without
// the leading "#". An empty path is reported as "/".
func SplitURL(raw string) (path, query, fragment string) {
	raw, fragment, _ = strings.Cut(raw, "#")
	path, query, _ = strings.Cut(raw, "?")
	if path == "" {
		path = "/"
	}
	return path, query, fragment
}

// JoinURL is the inverse of SplitURL. Empty query and fragment parts are
// omitted.
func JoinURL(path, query, fragment string) string {
	var b strings.Builder
	b.Grow(len(path) + len(query) + len(fragment) + 2)
	b.WriteString(path)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	if fragment != "" {
		b.WriteByte('#')
		b.WriteString(fragment)
	}
	return b.String()
}

// JoinQuery concatenates two encoded query strings, either of which may be
// empty.
func JoinQuery(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "&" + b
	}
}

// CanonicalizePath normalizes a URL path:
//   - ensures a leading slash
//   - collapses repeated slashes
//   - drops "." segments and resolves ".." segments
//   - removes the trailing slash (except for root)
//
// Backslashes, NUL bytes, malformed percent-escapes and ".." segments that
// climb above root are rejected.
func CanonicalizePath(path string) (string, error) {
	if path == "" {
		return "/", nil
	}
	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return "", err
		}
	}

	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return "", ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/"), nil
}

// ValidateNavPath checks a navigation target reported by a client and
// returns it in canonical form with its query and fragment preserved.
//
// Only relative paths are accepted: absolute URLs ("http://", "https://")
// and protocol-relative URLs ("//host") are rejected so that a client cannot
// steer the history outside the application origin.
func ValidateNavPath(raw string) (string, error) {
	if strings.HasPrefix(raw, "http://") ||
		strings.HasPrefix(raw, "https://") ||
		strings.HasPrefix(raw, "//") ||
		!strings.HasPrefix(raw, "/") {
		return "", ErrInvalidPath
	}

	path, query, fragment := SplitURL(raw)
	path, err := CanonicalizePath(path)
	if err != nil {
		return "", err
	}
	return JoinURL(path, query, fragment), nil
}

// NormalizeBasename turns a configured basename into the form used for
// prefixing: a leading slash and no trailing slash. An empty basename or
// "/" normalizes to "", meaning the application is mounted at root.
func NormalizeBasename(basename string) string {
	basename = strings.TrimRight(strings.TrimSpace(basename), "/")
	if basename == "" {
		return ""
	}
	if !strings.HasPrefix(basename, "/") {
		basename = "/" + basename
	}
	return basename
}

// validatePercentEscapes checks that every '%' starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
