package compositor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardlens/internal/retrier"
)

type fakeLayer struct {
	mu      sync.Mutex
	applied []Stacking
}

func (l *fakeLayer) ApplyStacking(s Stacking) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.applied = append(l.applied, s)
}

func (l *fakeLayer) last() (Stacking, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.applied) == 0 {
		return Stacking{}, false
	}
	return l.applied[len(l.applied)-1], true
}

type fakeSurfaces struct {
	mu     sync.Mutex
	camera *fakeLayer
	render *fakeLayer
}

func (s *fakeSurfaces) CameraLayer() (Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.camera == nil {
		return nil, false
	}
	return s.camera, true
}

func (s *fakeSurfaces) RenderLayer() (Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.render == nil {
		return nil, false
	}
	return s.render, true
}

func TestCorrectivePass_AppliesStackingToBothLayers(t *testing.T) {
	surfaces := &fakeSurfaces{camera: &fakeLayer{}, render: &fakeLayer{}}
	c := New(surfaces, true)

	err := c.CorrectivePass(context.Background(), retrier.Policy{MaxAttempts: 3, Interval: time.Millisecond})
	require.NoError(t, err)

	cam, ok := surfaces.camera.last()
	require.True(t, ok, "camera layer should get stacking applied")
	assert.True(t, cam.FullViewportFixed)
	assert.True(t, cam.PromoteLayer)
	assert.InDelta(t, 0.999, cam.Opacity, 1e-9)

	out, ok := surfaces.render.last()
	require.True(t, ok, "render layer should get stacking applied")
	assert.Greater(t, out.ZIndex, cam.ZIndex, "render output must stack above the camera feed")
	assert.True(t, out.PromoteLayer)
}

func TestCorrectivePass_WaitsForSurfacesToAppear(t *testing.T) {
	surfaces := &fakeSurfaces{}
	c := New(surfaces, true)

	// Surfaces show up partway through the budget, as they do when start()
	// recreates them.
	go func() {
		time.Sleep(10 * time.Millisecond)
		surfaces.mu.Lock()
		surfaces.camera = &fakeLayer{}
		surfaces.render = &fakeLayer{}
		surfaces.mu.Unlock()
	}()

	err := c.CorrectivePass(context.Background(), retrier.Policy{MaxAttempts: 40, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	_, ok := surfaces.camera.last()
	assert.True(t, ok)
}

func TestCorrectivePass_BudgetExhaustedIsBestEffort(t *testing.T) {
	c := New(&fakeSurfaces{}, true)

	err := c.CorrectivePass(context.Background(), retrier.Policy{MaxAttempts: 2, Interval: time.Millisecond})
	assert.ErrorIs(t, err, retrier.ErrBudgetExhausted)
}

func TestCorrectivePass_DisabledIsNoop(t *testing.T) {
	surfaces := &fakeSurfaces{camera: &fakeLayer{}, render: &fakeLayer{}}
	c := New(surfaces, false)

	err := c.CorrectivePass(context.Background(), retrier.Policy{MaxAttempts: 1, Interval: time.Millisecond})
	require.NoError(t, err)

	_, ok := surfaces.camera.last()
	assert.False(t, ok, "disabled compositor must not touch layers")
}
