// Package bridge connects a server-side history to a real browser address
// bar over a WebSocket.
//
// The browser runs ClientScript. On connect it reports its URL with an
// "init" message; the server creates a BrowserHistory or HashHistory for
// that tab whose Driver is the connection itself. From then on every push,
// replace and go committed on the server is sent to the tab, and every
// back/forward the user performs comes back as a "popstate" message.
//
//	srv := bridge.NewServer(
//	    bridge.WithMode(bridge.ModeBrowser),
//	    bridge.WithOnSession(func(s *bridge.Session) (func(), error) {
//	        r := router.New(s.History(), router.WithBasename("/app"))
//	        if err := r.Mount(); err != nil {
//	            return nil, err
//	        }
//	        return r.Unmount, nil
//	    }),
//	)
//	mux.Handle("/_vroute/history", srv)
//
// Client-reported URLs must be relative to the origin. Absolute and
// protocol-relative URLs, backslashes, NUL bytes and paths climbing above
// root are rejected.
package bridge
