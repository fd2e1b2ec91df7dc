// Package history provides the navigation backends observed and driven by
// the router.
//
// A History holds a stack of committed Locations and notifies listeners of
// every navigation, whether it was issued by the application (Push, Replace,
// Go) or reported by the platform (back/forward through HandlePopState).
//
// Three backends are provided:
//
//	MemoryHistory   in-process stack, no platform
//	BrowserHistory  mirrors the stack to a real address bar through a Driver
//	HashHistory     encodes path and query after "#" for hosts where the
//	                address-bar path cannot be controlled
//
// # Delivery
//
// Listeners are never invoked during Listen. Every later commit is delivered
// to every listener that was registered when it was committed, in commit
// order. Delivery is not reentrant: a navigation issued from inside a
// listener is queued and delivered once the current round returns.
//
//	unlisten, err := h.Listen(func(loc history.Location) {
//	    log.Println("now at", loc.Path())
//	})
//	if err != nil {
//	    return err
//	}
//	defer unlisten()
package history
