package supervisor

import (
	"fmt"
	"time"
)

var (
	ErrAlreadyStarted = fmt.Errorf("supervisor already started")
)

// Config describes the child process and its shutdown contract.
type Config struct {
	// Cmd is the path or name of the binary to supervise
	Cmd string `conf:"cmd"`

	// Args is the list of arguments forwarded to the binary verbatim
	Args []string `conf:"args"`

	// GracePeriod is the fixed duration the supervisor waits after
	// requesting cooperative shutdown before exiting itself. The
	// wait is not shortened if the child exits earlier.
	GracePeriod time.Duration `conf:"grace_period"`

	// ChildLog is the log level forwarded to the child via RUST_LOG.
	// It is opaque to the supervisor.
	ChildLog string `conf:"child_log"`
}

// StartConfig describes how to spawn the child process.
type StartConfig struct {
	// Cmd is the path or name of the binary to execute
	Cmd string

	// Args is the list of arguments to pass to the command
	Args []string

	// Env is the full environment of the child process
	Env []string
}

// ExitEvent describes how the child process exited.
type ExitEvent struct {
	// Code is the exit code of the process
	Code *int

	// Signal is the signal that caused the process to exit
	Signal *int
}

// ExitCode maps the exit event to a process exit status, using the
// shell convention of 128+signo for signal deaths.
func (e ExitEvent) ExitCode() int {
	if e.Code != nil {
		return *e.Code
	}

	if e.Signal != nil {
		return 128 + *e.Signal
	}

	return 1
}
