// Package router keeps a reactive view of the current location in sync with
// a history backend and dispatches rendering to the matching route.
//
// A Router owns one history. Mounting it reconciles the basename, captures
// the current location and registers a single history listener; every
// navigation afterwards publishes a new LocationContext whose revision is
// one greater than the last. Contexts compare by revision, so two
// navigations to the same URL are still two distinct updates.
//
//	h := history.NewBrowserHistory("/app/users/7", history.WithDriver(drv))
//	r := router.New(h, router.WithBasename("/app"))
//	if err := r.Mount(); err != nil {
//	    return err
//	}
//	defer r.Unmount()
//
//	out := router.Switch(r, routes, func(p Page) string {
//	    switch p := p.(type) {
//	    case UserPage:
//	        return "user " + strconv.Itoa(p.ID)
//	    default:
//	        return "home"
//	    }
//	})
//
// # Unmatched Locations
//
// When the location does not match any route, Switch logs a warning and
// renders the codec's not-found route if it declares one, or returns the
// zero value of the render output otherwise. The URL is left as is.
//
// # Concurrency
//
// History listeners run to completion one at a time, so subscribers observe
// revisions in commit order. Subscribers may navigate; the resulting
// notification is delivered after the current one finishes.
package router
