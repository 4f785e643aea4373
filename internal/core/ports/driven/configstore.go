package driven

// ConfigStore provides read access to application configuration.
// Implementations handle parsing (e.g., TOML files) and type conversion.
// Nested tables are exposed as dot-notation keys ("graph.base_url").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat retrieves a numeric configuration value as float64.
	// Returns 0 if key doesn't exist or isn't numeric.
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// GetStringMap collects every string value under prefix into a map keyed
	// by the remainder of the key. Returns nil if nothing matches.
	GetStringMap(prefix string) map[string]string

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
