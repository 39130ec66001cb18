package launch

const (
	// DefaultImage is the container image reference to run.
	DefaultImage = "ghcr.io/gohome-dev/gohome:latest"

	// DefaultDomain is the short-link domain served by gohome.
	DefaultDomain = "go"

	// DefaultBind is the host:port gohome binds to inside the container.
	DefaultBind = "0.0.0.0:8080"

	// DefaultPort is the published container port.
	DefaultPort = 8080

	// DefaultLogLevel is the RUST_LOG level passed to the container.
	DefaultLogLevel = "debug"

	// ContainerHome is the path the working directory is mounted to.
	ContainerHome = "/home/nonroot"
)

// Config describes how the gohome container is built and run.
type Config struct {
	// Image is the container image reference to run
	Image string `conf:"image"`

	// Domain is the short-link domain passed to gohome
	Domain string `conf:"domain"`

	// Bind is the host:port gohome binds to inside the container
	Bind string `conf:"bind"`

	// Port is the container port published on the host
	Port int `conf:"port"`

	// LogLevel is the RUST_LOG level passed to the container
	LogLevel string `conf:"log_level"`
}

// DefaultConfig holds the launch config defaults, keyed by koanf path.
var DefaultConfig = map[string]any{
	"image":     DefaultImage,
	"domain":    DefaultDomain,
	"bind":      DefaultBind,
	"port":      DefaultPort,
	"log_level": DefaultLogLevel,
}

// Options are the per-invocation launch options.
type Options struct {
	// Build enables the snapshot release build, and with it the
	// toolchain preflight, before the container is run.
	Build bool
}
