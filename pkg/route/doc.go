// Package route maps URL paths to typed application routes and back.
//
// An application declares its route type as a closed set of cases, usually
// one struct per page, and builds a Table from an ordered list of patterns:
//
//	type Route interface{ isRoute() }
//
//	type Home struct{}
//	type User struct {
//	    ID int `param:"id"`
//	}
//	type Files struct {
//	    Path []string `param:"path"`
//	}
//	type NotFound struct{}
//
//	var Routes = route.MustDefine[Route](
//	    route.Struct[Route, Home]("/"),
//	    route.Struct[Route, User]("/users/:id:int"),
//	    route.Struct[Route, Files]("/files/*path"),
//	    route.NotFoundCase(route.Struct[Route, NotFound]("/404")),
//	)
//
// # Patterns
//
//	/about          literal segments match exactly
//	/users/:id      one non-empty segment, percent-decoded
//	/users/:id:int  typed segment (int, uint, uuid, string)
//	/files/*path    trailing catch-all, zero or more segments kept verbatim
//
// Patterns are tried in declaration order and the first one that matches
// and builds a route wins. A pattern whose parameters do not parse (a typed
// segment that is not a number, a struct field that rejects the value) is
// treated as not matching and the next pattern is tried.
package route
