package supervisor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gohome-dev/warden/util/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Supervisor owns the lifecycle of a single child process: it spawns
// the configured binary, waits for it to exit on its own, and turns a
// termination request into a bounded graceful shutdown. The shutdown
// contract is ask once, wait once: the child is sent SIGINT, the
// supervisor sleeps for the full grace period, and then exits without
// escalating to SIGKILL.
type Supervisor struct {
	config     Config
	shutdowner fx.Shutdowner

	processLock sync.Mutex
	process     *proc

	childExited  atomic.Bool
	shutdownOnce sync.Once

	log *zap.Logger
}

type Params struct {
	fx.In

	Config     Config
	Shutdowner fx.Shutdowner
	Logger     *zap.Logger
}

func New(params Params) *Supervisor {
	return &Supervisor{
		config:     params.Config,
		shutdowner: params.Shutdowner,
		log:        params.Logger,
	}
}

func NewLifecycleSupervisor(params Params, lc fx.Lifecycle) *Supervisor {
	s := New(params)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
	return s
}

func Module(config Config) fx.Option {
	return fx.Module("supervisor",
		// rename logger after the supervised binary
		logging.DecorateLogger(DisplayName(config.Cmd)),
		// provide config
		fx.Supply(config),
		// provide supervisor
		fx.Provide(NewLifecycleSupervisor),
		// invoke supervisor
		fx.Invoke(func(*Supervisor) {}),
	)
}

// Start spawns the child process. A spawn failure is fatal to the
// supervisor: the error is returned and no wait phase is entered.
func (s *Supervisor) Start(ctx context.Context) error {
	s.processLock.Lock()
	defer s.processLock.Unlock()

	if s.process != nil {
		return ErrAlreadyStarted
	}

	process, err := startProc(StartConfig{
		Cmd:  s.config.Cmd,
		Args: s.config.Args,
		Env:  childEnv(os.Environ(), s.config.ChildLog),
	}, s.log)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", s.config.Cmd, err)
	}

	// the pid is published exactly once, under the process lock
	s.process = process

	s.log.Info("child process started",
		zap.Int("pid", process.Pid()),
		zap.String("command", s.config.Cmd),
		zap.Strings("args", s.config.Args),
	)

	go s.reap(process)

	return nil
}

// Shutdown runs the graceful shutdown sequence. The sequence executes
// at most once per supervisor; later calls return immediately. It is
// invoked both on a termination request and after a natural child
// exit, and only the former relays a signal to the child.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.shutdown)
	return nil
}

func (s *Supervisor) shutdown() {
	if s.childExited.Load() {
		// the child exited on its own, there is nothing to relay
		s.log.Info("program has exited")
		return
	}

	s.log.Info("received termination, shutting down")

	if process := s.acquireProcess(); process != nil {
		s.log.Info("shutdown grace period",
			zap.Duration("grace_period", s.config.GracePeriod),
		)

		process.Interrupt()

		// a fixed wait, not a poll: the full grace period elapses
		// even if the child exits earlier
		time.Sleep(s.config.GracePeriod)

		s.log.Info("child shut down gracefully")
	}

	s.log.Info("program has exited")
}

// reap blocks until the child exits on its own and reports the child's
// exit code to the shell via the fx shutdowner.
func (s *Supervisor) reap(process *proc) {
	event := process.Wait()

	s.childExited.Store(true)

	code := event.ExitCode()

	s.log.Info("child process exited",
		zap.Int("code", code),
	)

	if err := s.shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
		s.log.Error("error shutting down", zap.Error(err))
	}
}

// acquireProcess returns the child process handle. The method is
// thread-safe; it returns nil if the child has not been spawned.
func (s *Supervisor) acquireProcess() *proc {
	s.processLock.Lock()
	defer s.processLock.Unlock()

	return s.process
}
