// Package scene holds the renderer-agnostic scene graph: typed nodes,
// materials and animation parameters that the lifecycle controller mutates
// and a renderer collaborator applies. Visibility and layering live here as
// declarative state; nothing in this package touches platform style
// properties directly.
package scene

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Vec3 is a position or scale triple.
type Vec3 [3]float64

// Kind discriminates renderable node variants.
type Kind int

const (
	KindGroup Kind = iota
	KindPlane
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindModel:
		return "model"
	default:
		return "group"
	}
}

// Material is the typed render state for a node's geometry. Overlay content
// uses OnTop: depth test and write disabled and transparency on, so overlays
// always draw above the scene regardless of depth.
type Material struct {
	DoubleSided bool
	Transparent bool
	DepthTest   bool
	DepthWrite  bool
	Opacity     float64
}

// OnTop returns the always-on-top material policy shared by all overlay
// variants.
func OnTop() Material {
	return Material{
		DoubleSided: true,
		Transparent: true,
		DepthTest:   false,
		DepthWrite:  false,
		Opacity:     1.0,
	}
}

// FloatAnim is a continuous vertical bob. The offset is a sine of elapsed
// render time at a fixed 2.0 rad/s, so it is driven by the render clock and
// immune to wall-clock drift.
type FloatAnim struct {
	Amplitude float64
}

const floatAngularFrequency = 2.0 // rad per simulated second

// OffsetAt returns the vertical offset after the given elapsed render time.
func (a FloatAnim) OffsetAt(elapsed time.Duration) float64 {
	return a.Amplitude * math.Sin(floatAngularFrequency*elapsed.Seconds())
}

// Node is one element of the scene graph.
type Node struct {
	ID      string
	Name    string
	Kind    Kind
	Visible bool

	Pos   Vec3
	Scale Vec3

	Material Material
	Float    *FloatAnim

	// Texture is the resolved (cache-busted) source URL for plane nodes.
	Texture string
	// VideoKey links a video-backed plane to its shared resource.
	VideoKey string

	// Animations are the clip names a model asset declares; playback is
	// enabled only when the asset declares at least one.
	Animations        []string
	AnimationsEnabled bool

	children []*Node
}

// NewNode creates a node with a fresh ID and unit scale.
func NewNode(kind Kind, name string) *Node {
	return &Node{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    kind,
		Visible: true,
		Scale:   Vec3{1, 1, 1},
	}
}

// Attach adds a child; insertion order is render order.
func (n *Node) Attach(child *Node) {
	n.children = append(n.children, child)
}

// Clear removes all children.
func (n *Node) Clear() {
	n.children = nil
}

// Children returns the node's children in render order.
func (n *Node) Children() []*Node {
	return n.children
}

// Walk visits the node and every descendant depth-first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy of the node and all descendants. Renderers draw
// from clones, so a paint in progress never reads a tree a lifecycle
// transition is mutating.
func (n *Node) Clone() *Node {
	out := *n
	if n.Float != nil {
		f := *n.Float
		out.Float = &f
	}
	if n.Animations != nil {
		out.Animations = append([]string(nil), n.Animations...)
	}
	if n.children != nil {
		out.children = make([]*Node, len(n.children))
		for i, c := range n.children {
			out.children[i] = c.Clone()
		}
	}
	return &out
}

// ApplyOnTop reapplies the always-on-top material policy to the node and all
// descendants. Asynchronously loaded sub-resources (model meshes) reset their
// material state on load, so this runs again whenever such a load completes.
func (n *Node) ApplyOnTop() {
	n.Walk(func(d *Node) {
		d.Material = OnTop()
	})
}
