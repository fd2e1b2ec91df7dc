package route

// AnyRoute accepts every path. Use it with a Router or Navigator when the
// application's route type is not known.
type AnyRoute struct {
	path string
}

// NewAnyRoute creates an AnyRoute for pathname.
func NewAnyRoute(pathname string) AnyRoute {
	return AnyRoute{path: pathname}
}

// Path returns the route's path.
func (r AnyRoute) Path() string { return r.path }

// Any is the codec for AnyRoute.
var Any Routable[AnyRoute] = anyCodec{}

type anyCodec struct{}

func (anyCodec) Recognize(pathname string) (AnyRoute, bool) {
	return AnyRoute{path: pathname}, true
}

// FromPath only accepts an empty parameter set; the path is taken as is.
func (anyCodec) FromPath(path string, params Params) (AnyRoute, bool) {
	if len(params) != 0 {
		return AnyRoute{}, false
	}
	return AnyRoute{path: path}, true
}

func (anyCodec) ToPath(r AnyRoute) string { return r.path }

func (anyCodec) Routes() []string { return []string{"/*path"} }

func (anyCodec) NotFoundRoute() (AnyRoute, bool) {
	return AnyRoute{path: "/404"}, true
}
