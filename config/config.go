package config

import (
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/gohome-dev/warden/internal/launch"
	"github.com/gohome-dev/warden/util/conf"
)

const (
	// DefaultBinary is the path of the supervised binary inside
	// the gohome container image.
	DefaultBinary = "/usr/local/bin/gohome"

	// DefaultGracePeriod is the fallback shutdown grace period.
	DefaultGracePeriod = 5 * time.Second

	// DefaultChildLogLevel is the RUST_LOG level forwarded to the
	// child when the environment does not provide one.
	DefaultChildLogLevel = "info"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// ShutdownGracePeriod is the raw value of SHUTDOWN_GRACE_PERIOD.
	// It is kept as a string so that malformed values fall back to
	// the default instead of failing config parsing.
	ShutdownGracePeriod string `conf:"shutdown_grace_period"`

	// RustLog is the log level forwarded to the child process via
	// RUST_LOG. It is not interpreted by the supervisor.
	RustLog string `conf:"rust_log"`

	// Launch is the configuration for the launch command
	Launch launch.Config `conf:"launch"`
}

// DefaultConfig holds the config defaults, keyed by koanf path.
var DefaultConfig = defaults()

func defaults() conf.DefaultConfig {
	d := conf.DefaultConfig{
		"rust_log": DefaultChildLogLevel,
	}

	maps.Copy(d, conf.MergeDefaults("launch", launch.DefaultConfig))

	return d
}

// GracePeriod returns the shutdown grace period configured via
// SHUTDOWN_GRACE_PERIOD.
func (c Config) GracePeriod() time.Duration {
	return ParseGracePeriod(c.ShutdownGracePeriod)
}

// ParseGracePeriod interprets a raw grace period value as a number
// of seconds. Absent, malformed or negative values fall back to
// the default.
func ParseGracePeriod(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultGracePeriod
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return DefaultGracePeriod
	}

	return time.Duration(seconds) * time.Second
}
