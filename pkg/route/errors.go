package route

import "errors"

// Declaration errors returned by Compile and Define.
var (
	ErrInvalidPattern   = errors.New("route: invalid pattern")
	ErrDuplicateParam   = errors.New("route: duplicate parameter name")
	ErrCatchAllNotLast  = errors.New("route: catch-all must be the last segment")
	ErrDuplicateRoute   = errors.New("route: duplicate pattern")
	ErrNotFoundParams   = errors.New("route: not-found route cannot take parameters")
	ErrMultipleNotFound = errors.New("route: more than one not-found route")
	ErrCaseType         = errors.New("route: case type does not implement route type")
	ErrCaseFields       = errors.New("route: case fields do not match pattern parameters")
	ErrMissingParam     = errors.New("route: missing parameter")
)
