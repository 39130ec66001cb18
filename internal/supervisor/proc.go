package supervisor

import (
	"os"
	"os/exec"
	"syscall"

	"go.uber.org/zap"
)

// proc is a handle to a spawned child process. Unlike a worker that is
// driven over stdin/stdout, the supervised binary is opaque: it inherits
// the supervisor's stdio and only its pid and exit status are observed.
type proc struct {
	pid     int
	done    chan struct{}
	waitErr error

	log *zap.Logger
}

func startProc(config StartConfig, log *zap.Logger) (*proc, error) {
	cmd := exec.Command(config.Cmd, config.Args...)

	cmd.Env = config.Env

	// the child owns the console output
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// run the child in its own process group, so that signals sent to
	// the supervisor are not delivered to the child by the terminal,
	// and so that the whole tree can be signalled at once
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	log = log.Named("proc").With(zap.Int("pid", cmd.Process.Pid))

	process := &proc{
		pid:  cmd.Process.Pid,
		done: make(chan struct{}),
		log:  log,
	}

	go func() {
		// block until the process exits. waitErr is written before
		// done is closed, so readers observing done see the error.
		process.waitErr = cmd.Wait()

		close(process.done)
	}()

	return process, nil
}

// Pid returns the process identifier of the child.
func (p *proc) Pid() int {
	return p.pid
}

// Done returns a channel that is closed once the child has exited.
func (p *proc) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the child exits and returns its exit event.
func (p *proc) Wait() ExitEvent {
	<-p.done

	return getExitEvent(p.waitErr)
}

// Interrupt asks the child to shut down cooperatively by sending
// SIGINT to its process group. It does not wait for the child to
// exit, and it is a no-op if the child has already exited.
func (p *proc) Interrupt() {
	select {
	case <-p.done:
		p.log.Debug("process already terminated")
		return
	default:
		// continue
	}

	p.log.Info("sending signal", zap.Stringer("signal", syscall.SIGINT))

	// best effort, the shutdown sequence proceeds regardless
	if err := p.signal(syscall.SIGINT); err != nil {
		p.log.Error("signal failed", zap.Error(err))
	}
}

func (p *proc) signal(signal syscall.Signal) error {
	if pgid, err := syscall.Getpgid(p.pid); err == nil {
		// Negative pid sends signal to all in process group
		return syscall.Kill(-pgid, signal)
	} else {
		return syscall.Kill(p.pid, signal)
	}
}

func getExitEvent(err error) ExitEvent {
	var cell int
	var exitStatus *int
	var signo *int

	if err == nil {
		// the process exited successfully, set the exit code to 0
		exitStatus = &cell
	} else if exitError, ok := err.(*exec.ExitError); ok {
		// the process exited with an error
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			if code := status.ExitStatus(); code >= 0 {
				// the process exited with an exit code
				cell = code
				exitStatus = &cell
			} else {
				// the process was terminated by a signal
				cell = int(status.Signal())
				signo = &cell
			}
		}
	}

	if signo == nil && exitStatus == nil {
		// could not determine the exit status or signal,
		// set exit status to 1
		cell = 1
		exitStatus = &cell
	}

	return ExitEvent{
		Code:   exitStatus,
		Signal: signo,
	}
}
