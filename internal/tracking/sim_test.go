package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSim_StartStop(t *testing.T) {
	s := NewSim()
	require.False(t, s.Running())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Running())

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.Running())
}

func TestSim_FailNextStart(t *testing.T) {
	s := NewSim()
	boom := errors.New("camera permission denied")
	s.FailNextStart(boom)

	err := s.Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, s.Running())

	// The failure is one-shot; a retry succeeds.
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Running())
}

func TestSim_StartHonorsContext(t *testing.T) {
	s := NewSim()
	s.SetStartDelay(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Start(ctx)
	require.Error(t, err)
	assert.False(t, s.Running())
}

func TestSim_EmitRequiresRunning(t *testing.T) {
	s := NewSim()
	require.ErrorIs(t, s.EmitFound(), ErrNotRunning)
	require.ErrorIs(t, s.EmitLost(), ErrNotRunning)
}

func TestSim_EventsReachSubscribers(t *testing.T) {
	s := NewSim()
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Events().Subscribe(ctx)

	require.NoError(t, s.EmitFound())
	require.NoError(t, s.EmitLost())

	kinds := []TargetEventKind{}
	for len(kinds) < 2 {
		select {
		case ev := <-ch:
			kinds = append(kinds, ev.Payload.Kind)
		case <-time.After(200 * time.Millisecond):
			t.Fatal("timeout waiting for target events")
		}
	}
	assert.Equal(t, []TargetEventKind{TargetFound, TargetLost}, kinds)
}
