package supervisor

import (
	"testing"
	"time"

	"github.com/gohome-dev/warden/util"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProc_Start_IsAlive(t *testing.T) {
	p, err := startProc(StartConfig{Cmd: "sleep", Args: []string{"30"}}, zap.NewNop())
	assert.NoError(t, err)

	defer p.Interrupt()

	// the process should be started
	assert.Equal(t, true, util.IsProcessAlive(p.Pid()))
}

func TestProc_Start_MissingBinary_Fails(t *testing.T) {
	_, err := startProc(StartConfig{Cmd: "/nonexistent/binary"}, zap.NewNop())
	assert.Error(t, err)
}

func TestProc_Wait_CleanExit(t *testing.T) {
	p, err := startProc(StartConfig{Cmd: "true"}, zap.NewNop())
	assert.NoError(t, err)

	event := p.Wait()

	assert.Equal(t, 0, event.ExitCode())
	assert.Equal(t, false, util.IsProcessAlive(p.Pid()))
}

func TestProc_Wait_PropagatesExitCode(t *testing.T) {
	p, err := startProc(StartConfig{
		Cmd:  "sh",
		Args: []string{"-c", "exit 7"},
	}, zap.NewNop())
	assert.NoError(t, err)

	event := p.Wait()

	assert.NotNil(t, event.Code)
	assert.Equal(t, 7, event.ExitCode())
}

func TestProc_Interrupt_SignalsProcess(t *testing.T) {
	p, err := startProc(StartConfig{Cmd: "sleep", Args: []string{"30"}}, zap.NewNop())
	assert.NoError(t, err)

	p.Interrupt()

	event := p.Wait()

	// sleep dies to SIGINT
	assert.NotNil(t, event.Signal)
	assert.Equal(t, 2, *event.Signal)
	assert.Equal(t, false, util.IsProcessAlive(p.Pid()))
}

func TestProc_Interrupt_AfterExit_IsNoop(t *testing.T) {
	p, err := startProc(StartConfig{Cmd: "true"}, zap.NewNop())
	assert.NoError(t, err)

	p.Wait()

	// must not panic or signal a reused pid
	p.Interrupt()
}

func TestProc_Done_ClosedAfterExit(t *testing.T) {
	p, err := startProc(StartConfig{Cmd: "true"}, zap.NewNop())
	assert.NoError(t, err)

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}
}

func TestExitEvent_ExitCode(t *testing.T) {
	code := 3
	signo := 15

	tests := []struct {
		name     string
		event    ExitEvent
		expected int
	}{
		{name: "code", event: ExitEvent{Code: &code}, expected: 3},
		{name: "signal", event: ExitEvent{Signal: &signo}, expected: 143},
		{name: "unknown", event: ExitEvent{}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.ExitCode())
		})
	}
}
