package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Protocol Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryProtocol,
		Message:  "Malformed envelope",
		Detail:   "The frame could not be decoded into an event envelope. Frames carry an event name and a payload.",
	},
	"E102": {
		Category: CategoryProtocol,
		Message:  "Unknown event",
		Detail:   "The envelope names an event this side of the connection does not handle.",
	},
	"E103": {
		Category: CategoryProtocol,
		Message:  "Invalid payload",
		Detail:   "The payload does not match the shape expected for the event.",
	},
	"E104": {
		Category: CategoryProtocol,
		Message:  "Unsupported codec",
		Detail:   "The requested wire codec is not one of arena.json or arena.msgpack.",
	},

	// ============================================
	// Config Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is outside its allowed range.",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "The configuration file exists but could not be read or parsed as YAML.",
	},
	"E203": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "An ARENA_* environment variable could not be parsed.",
	},

	// ============================================
	// Client Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryClient,
		Message:  "Could not connect to server",
		Detail:   "The websocket dial to the game server failed.",
	},
	"E302": {
		Category: CategoryClient,
		Message:  "Connection lost",
		Detail:   "The game channel closed. Sessions are not resumable; join again for a new identity.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
