package route

// Routable is the codec between paths and the route type R. An application
// implements it once, normally by building a Table.
type Routable[R any] interface {
	// Recognize matches pathname against the declared patterns in order and
	// returns the route of the first one that matches.
	Recognize(pathname string) (R, bool)

	// FromPath builds the route declared for pattern from already
	// extracted params. It fails when a parameter is missing, unexpected or
	// not acceptable for the route case.
	FromPath(pattern string, params Params) (R, bool)

	// ToPath serializes a route back to a path. It returns "" for a route
	// that no declared case claims.
	ToPath(route R) string

	// Routes lists the declared patterns in match priority order.
	Routes() []string

	// NotFoundRoute returns the designated fallback route, if any.
	NotFoundRoute() (R, bool)
}
