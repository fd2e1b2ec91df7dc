// Package routepath holds the URL helpers shared by the history backends,
// the navigator and the websocket bridge.
//
// It splits raw URLs into path, query and fragment, canonicalizes and
// validates paths that arrive from an untrusted client, and normalizes
// basenames so that prefixing and stripping are exact inverses.
package routepath
