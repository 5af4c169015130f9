package overlay

import "cardlens/internal/scene"

// ModelAsset is the result of loading a 3-D asset: the node subtree and
// whatever animation clips the asset declares.
type ModelAsset struct {
	Root       *scene.Node
	Animations []string
}

// ModelLoader loads 3-D assets asynchronously. GLTF parsing is a collaborator
// concern; done is invoked on the event loop whenever the load settles, which
// can be well after the overlay was spawned.
type ModelLoader interface {
	Load(src string, done func(ModelAsset, error))
}

// StubLoader is the loader used by the sim viewer and tests. Loads either
// complete immediately or are held until Complete is called, so tests can
// exercise the reapply-on-load material policy.
type StubLoader struct {
	// Asset is handed to every load. A nil Root still completes the load.
	Asset ModelAsset
	// Err, when set, fails every load.
	Err error
	// Hold defers completion until Complete is called.
	Hold bool

	pending []func(ModelAsset, error)
}

// Load implements ModelLoader.
func (l *StubLoader) Load(src string, done func(ModelAsset, error)) {
	if l.Hold {
		l.pending = append(l.pending, done)
		return
	}
	done(l.Asset, l.Err)
}

// Complete settles all held loads.
func (l *StubLoader) Complete() {
	for _, done := range l.pending {
		done(l.Asset, l.Err)
	}
	l.pending = nil
}

var _ ModelLoader = (*StubLoader)(nil)
