package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Route errors (V001-V019)

	"V001": {
		Category: CategoryRoute,
		Message:  "Invalid route pattern",
		Detail:   "Patterns start with '/' and use ':name' for one segment and '*name' for the rest of the path. A catch-all must be the last segment and parameter names must be unique.",
	},
	"V002": {
		Category: CategoryRoute,
		Message:  "Duplicate route",
		Detail:   "Two routes share a name or a pattern. Each route must be declared once.",
	},
	"V003": {
		Category: CategoryRoute,
		Message:  "Unknown not-found route",
		Detail:   "The not_found setting must name one of the declared routes, and that route must not have parameters.",
	},
	"V004": {
		Category: CategoryRoute,
		Message:  "No route matched",
		Detail:   "The path does not match any declared pattern and no not-found route is configured.",
	},
	"V005": {
		Category: CategoryRoute,
		Message:  "Invalid navigation path",
		Detail:   "Navigation targets must be paths relative to the application origin, such as /users/42?tab=info.",
	},

	// Config errors (V020-V039)

	"V020": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No vroute.json, vroute.yaml or vroute.yml was found in this directory or any parent.",
	},
	"V021": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
	},
	"V022": {
		Category: CategoryConfig,
		Message:  "Unknown history mode",
		Detail:   "history must be one of browser, hash or memory.",
	},
	"V023": {
		Category: CategoryConfig,
		Message:  "Invalid log settings",
		Detail:   "log.level must be debug, info, warn or error, and log.format must be text or json.",
	},
	"V024": {
		Category: CategoryConfig,
		Message:  "Invalid basename",
		Detail:   "The basename is a path prefix such as /app. It cannot contain a query, a fragment or '..' segments.",
	},

	// Runtime errors (V040-V059)

	"V040": {
		Category: CategoryRuntime,
		Message:  "Router mount failed",
		Detail:   "The router could not subscribe to its history.",
	},

	// Protocol errors (V060-V079)

	"V060": {
		Category: CategoryProtocol,
		Message:  "Bridge connection rejected",
		Detail:   "The browser did not open the session with a valid init message.",
	},

	// CLI errors (V080-V099)

	"V080": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
	"V081": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was called with missing or malformed arguments.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
