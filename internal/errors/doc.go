// Package errors provides structured, actionable errors for vroute tools.
//
// Each error has a code (e.g. "V001") that maps to a category, a short
// message and a longer explanation. Errors that come from a configuration
// file carry its location so the offending line can be shown.
//
// # Categories
//
//   - config: configuration file errors
//   - route: route table errors (bad patterns, unknown routes)
//   - runtime: router and history failures
//   - protocol: bridge errors
//   - cli: command line errors
//
// # Usage
//
//	err := errors.New("V001").
//	    WithLocation("vroute.yaml", 7, 14).
//	    WithSuggestion(`Put the catch-all last: "/files/*path"`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR V001: Invalid route pattern
//	//
//	//   vroute.yaml:7:14
//	//
//	//      5 │ routes:
//	//      6 │   - name: files
//	//   →  7 │     pattern: /files/*path/raw
//	//        │              ^
//	//      8 │   - name: home
//	//      9 │     pattern: /
//	//
//	//   Hint: Put the catch-all last: "/files/*path"
package errors
