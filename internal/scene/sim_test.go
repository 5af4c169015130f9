package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardlens/internal/compositor"
)

func TestTextRenderer_SurfacesRecreatedOnShow(t *testing.T) {
	r := NewTextRenderer()

	_, ok := r.CameraLayer()
	assert.False(t, ok, "no camera surface before first ShowOutput")

	r.ShowOutput()
	cam1, ok := r.CameraLayer()
	require.True(t, ok)
	cam1.ApplyStacking(compositor.Stacking{PromoteLayer: true})

	// A second ShowOutput recreates the surfaces; stacking state is gone.
	r.ShowOutput()
	cam2, ok := r.CameraLayer()
	require.True(t, ok)
	_, stacked := cam2.(*SimLayer).Stacking()
	assert.False(t, stacked, "recreated surface must not keep old stacking")
}

func TestTextRenderer_HideOutputHidesSurfaces(t *testing.T) {
	r := NewTextRenderer()
	r.ShowOutput()
	r.HideOutput()

	assert.False(t, r.OutputShown())
	_, ok := r.RenderLayer()
	assert.False(t, ok, "hidden output exposes no render surface")
}

func TestTextRenderer_RenderOnceCountsBlankFrames(t *testing.T) {
	r := NewTextRenderer()
	r.RenderOnce()
	r.RenderOnce()
	assert.Equal(t, 2, r.BlankFrames())
}

func TestTextRenderer_View(t *testing.T) {
	r := NewTextRenderer()

	anchor := NewNode(KindGroup, "anchor")
	anchor.Visible = false
	plane := NewNode(KindPlane, "logo")
	plane.Visible = true
	anchor.Attach(plane)

	out := r.View(anchor)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "○ group anchor")
	assert.Contains(t, lines[1], "● plane logo")
}

func TestTextRenderer_ViewNilRoot(t *testing.T) {
	r := NewTextRenderer()
	assert.Empty(t, r.View(nil))
}
