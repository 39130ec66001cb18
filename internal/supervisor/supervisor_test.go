package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/gohome-dev/warden/util"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type fakeShutdowner struct {
	done chan struct{}
}

func newFakeShutdowner() *fakeShutdowner {
	return &fakeShutdowner{done: make(chan struct{}, 1)}
}

func (s *fakeShutdowner) Shutdown(opts ...fx.ShutdownOption) error {
	select {
	case s.done <- struct{}{}:
	default:
	}
	return nil
}

func createSupervisor(config Config) (*Supervisor, *fakeShutdowner) {
	shutdowner := newFakeShutdowner()

	s := New(Params{
		Config:     config,
		Shutdowner: shutdowner,
		Logger:     zap.NewNop(),
	})

	return s, shutdowner
}

func TestSupervisor_Start_SpawnFailure_IsFatal(t *testing.T) {
	s, shutdowner := createSupervisor(Config{Cmd: "/nonexistent/binary"})

	err := s.Start(context.Background())
	assert.Error(t, err)

	select {
	case <-shutdowner.done:
		t.Fatal("shutdown requested after spawn failure")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSupervisor_Start_Twice_Fails(t *testing.T) {
	s, _ := createSupervisor(Config{Cmd: "sleep", Args: []string{"30"}})

	err := s.Start(context.Background())
	assert.NoError(t, err)

	defer s.Shutdown(context.Background())

	err = s.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestSupervisor_NaturalExit_RequestsShutdown(t *testing.T) {
	s, shutdowner := createSupervisor(Config{
		Cmd:  "sh",
		Args: []string{"-c", "exit 3"},
	})

	err := s.Start(context.Background())
	assert.NoError(t, err)

	select {
	case <-shutdowner.done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown not requested after child exit")
	}
}

func TestSupervisor_Shutdown_BeforeStart_IsSafe(t *testing.T) {
	s, _ := createSupervisor(Config{Cmd: "sleep", Args: []string{"30"}})

	// no child pid has been recorded yet
	err := s.Shutdown(context.Background())
	assert.NoError(t, err)
}

func TestSupervisor_Shutdown_SignalsChildAndWaitsFullGrace(t *testing.T) {
	grace := 300 * time.Millisecond

	s, _ := createSupervisor(Config{
		Cmd:         "sleep",
		Args:        []string{"30"},
		GracePeriod: grace,
	})

	err := s.Start(context.Background())
	assert.NoError(t, err)

	pid := s.acquireProcess().Pid()

	start := time.Now()
	err = s.Shutdown(context.Background())
	assert.NoError(t, err)

	// the full grace period elapses even though the child dies
	// to the interrupt almost immediately
	assert.GreaterOrEqual(t, time.Since(start), grace)
	assert.Equal(t, false, util.IsProcessAlive(pid))
}

func TestSupervisor_Shutdown_IsOneShot(t *testing.T) {
	grace := 300 * time.Millisecond

	s, _ := createSupervisor(Config{
		Cmd:         "sleep",
		Args:        []string{"30"},
		GracePeriod: grace,
	})

	err := s.Start(context.Background())
	assert.NoError(t, err)

	err = s.Shutdown(context.Background())
	assert.NoError(t, err)

	// a second termination request has no observable effect
	start := time.Now()
	err = s.Shutdown(context.Background())
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), grace)
}

func TestSupervisor_Shutdown_AfterChildExit_SkipsGraceWait(t *testing.T) {
	grace := 300 * time.Millisecond

	s, shutdowner := createSupervisor(Config{
		Cmd:         "true",
		GracePeriod: grace,
	})

	err := s.Start(context.Background())
	assert.NoError(t, err)

	select {
	case <-shutdowner.done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown not requested after child exit")
	}

	// the child is gone, there is no signal to relay and no wait
	start := time.Now()
	err = s.Shutdown(context.Background())
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), grace)
}
