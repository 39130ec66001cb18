package launch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// Launcher builds and runs the gohome container. Both the build and
// the run are foreground subprocesses: the launcher awaits each one
// to completion and propagates its exit status.
type Launcher struct {
	config Config

	// lookPath and runCommand are indirections over os/exec,
	// replaced in tests
	lookPath   func(file string) (string, error)
	runCommand func(ctx context.Context, name string, args ...string) error

	out io.Writer
	log *zap.Logger
}

func New(config Config, log *zap.Logger) *Launcher {
	return &Launcher{
		config:     config,
		lookPath:   exec.LookPath,
		runCommand: runCommand,
		out:        os.Stderr,
		log:        log,
	}
}

// Launch optionally builds a snapshot release and then runs the
// container. The build phase is guarded by the toolchain preflight;
// the run phase happens regardless of whether a build was requested.
func (l *Launcher) Launch(ctx context.Context, opts Options) error {
	if opts.Build {
		if err := l.Preflight(); err != nil {
			return err
		}

		if err := l.Build(ctx); err != nil {
			return err
		}
	}

	return l.Run(ctx)
}

// Build produces an untagged snapshot release, removing prior build
// artifacts first. A build failure aborts the launch.
func (l *Launcher) Build(ctx context.Context) error {
	l.log.Info("building snapshot release")

	return l.runCommand(ctx, "goreleaser", BuildArgs()...)
}

// Run starts the gohome container in the foreground, with the working
// directory mounted into the container home.
func (l *Launcher) Run(ctx context.Context) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	l.log.Info("running container",
		zap.String("image", l.config.Image),
		zap.Int("port", l.config.Port),
	)

	return l.runCommand(ctx, "docker", RunArgs(l.config, cwd)...)
}

// BuildArgs returns the goreleaser argument vector for a snapshot
// build: no version tag is produced and prior artifacts are removed.
func BuildArgs() []string {
	return []string{"release", "--snapshot", "--clean"}
}

// RunArgs returns the docker argument vector for running the gohome
// container: the given directory is mounted read-write into the
// container home, the http port is published, and the application
// flags select the short-link domain and the bind address.
func RunArgs(config Config, dir string) []string {
	return []string{
		"run", "--rm",
		"-v", fmt.Sprintf("%s:%s", dir, ContainerHome),
		"-p", fmt.Sprintf("%d:%d", config.Port, config.Port),
		"-e", "RUST_LOG=" + config.LogLevel,
		config.Image,
		"--domain", config.Domain,
		"--host", config.Bind,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
