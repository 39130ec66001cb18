package conf

// DefaultConfig is a flat map of default config values, keyed by
// delimiter-separated config path.
type DefaultConfig = map[string]any
