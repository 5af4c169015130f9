package scene

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"cardlens/internal/compositor"
)

// SimLayer is a simulated composited surface. It records the stacking state
// the corrective pass applies so the viewer and tests can observe it.
type SimLayer struct {
	mu       sync.Mutex
	name     string
	stacking compositor.Stacking
	stacked  bool
}

// ApplyStacking implements compositor.Layer.
func (l *SimLayer) ApplyStacking(s compositor.Stacking) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stacking = s
	l.stacked = true
}

// Stacking returns the last applied stacking state, if any.
func (l *SimLayer) Stacking() (compositor.Stacking, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stacking, l.stacked
}

// TextRenderer is a headless renderer for the TUI viewer and tests. It keeps
// simulated camera/output surfaces, recreating both on every ShowOutput the
// way the real platform recreates its DOM nodes, and renders the scene graph
// as text.
type TextRenderer struct {
	mu          sync.Mutex
	outputShown bool
	camera      *SimLayer
	output      *SimLayer
	blankFrames int
	started     time.Time
	applied     *Node
}

// NewTextRenderer creates a renderer with no surfaces yet; they appear on the
// first ShowOutput.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{started: time.Now()}
}

// ShowOutput implements scene.Renderer. Surfaces are recreated, dropping any
// stacking state a previous corrective pass applied.
func (r *TextRenderer) ShowOutput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputShown = true
	r.camera = &SimLayer{name: "camera"}
	r.output = &SimLayer{name: "output"}
}

// HideOutput implements scene.Renderer.
func (r *TextRenderer) HideOutput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputShown = false
}

// RenderOnce implements scene.Renderer; the sim just counts blank frames.
func (r *TextRenderer) RenderOnce() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blankFrames++
}

// Apply implements scene.Renderer.
func (r *TextRenderer) Apply(root *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = root
}

// OutputShown reports whether the output surface is revealed.
func (r *TextRenderer) OutputShown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outputShown
}

// BlankFrames returns how many forced single frames were rendered.
func (r *TextRenderer) BlankFrames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blankFrames
}

// Elapsed returns render-clock time since the renderer was created.
func (r *TextRenderer) Elapsed() time.Duration {
	return time.Since(r.started)
}

// CameraLayer implements compositor.Surfaces.
func (r *TextRenderer) CameraLayer() (compositor.Layer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.outputShown || r.camera == nil {
		return nil, false
	}
	return r.camera, true
}

// RenderLayer implements compositor.Surfaces.
func (r *TextRenderer) RenderLayer() (compositor.Layer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.outputShown || r.output == nil {
		return nil, false
	}
	return r.output, true
}

// View renders the tree rooted at root as indented text lines. Hidden nodes
// render with a hollow marker so the viewer shows the full spawned set.
func (r *TextRenderer) View(root *Node) string {
	if root == nil {
		return ""
	}
	elapsed := r.Elapsed()

	var b strings.Builder
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		marker := "○"
		if n.Visible {
			marker = "●"
		}
		pos := n.Pos
		if n.Float != nil {
			pos[1] += n.Float.OffsetAt(elapsed)
		}
		fmt.Fprintf(&b, "%s%s %s %s pos=(%.2f,%.2f,%.2f) scale=(%.2f,%.2f,%.2f)",
			strings.Repeat("  ", depth), marker, n.Kind, n.Name,
			pos[0], pos[1], pos[2], n.Scale[0], n.Scale[1], n.Scale[2])
		if n.Kind == KindModel && n.AnimationsEnabled {
			fmt.Fprintf(&b, " anim=%d", len(n.Animations))
		}
		b.WriteString("\n")
		for _, c := range n.Children() {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return b.String()
}

var _ Renderer = (*TextRenderer)(nil)
var _ compositor.Surfaces = (*TextRenderer)(nil)
var _ compositor.Layer = (*SimLayer)(nil)
