// Package config loads vroute project configuration.
//
// The configuration lives in vroute.json, vroute.yaml or vroute.yml at the
// project root and is found by walking up from the working directory.
//
// # Configuration File Structure
//
//	basename: /app
//	history: browser        # browser, hash or memory
//	routes:                 # in match priority order
//	  - name: user
//	    pattern: /users/:id:int
//	  - name: files
//	    pattern: /files/*path
//	  - name: home
//	    pattern: /
//	  - name: missing
//	    pattern: /404
//	not_found: missing
//	server:
//	  address: localhost:3000
//	log:
//	  level: info           # debug, info, warn or error
//	  format: text          # text or json
//
// Errors are *errors.Error values; YAML route errors point at the line of
// the offending pattern.
package config
