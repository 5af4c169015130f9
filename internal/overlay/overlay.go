// Package overlay builds renderable overlay nodes from layer specs: flat
// textured planes for images, gifs and videos, and loaded asset nodes for
// models. Every variant is tagged always-on-top so overlays draw above the
// scene regardless of depth.
package overlay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardlens/internal/card"
	"cardlens/internal/log"
	"cardlens/internal/media"
	"cardlens/internal/scene"
)

// ErrInvalidSpec means a layer spec is missing type or src. Such specs are
// skipped entirely, so callers log this at debug level and move on.
var ErrInvalidSpec = errors.New("overlay: layer spec missing type or src")

// Spawned is one runtime overlay instance produced from a layer spec. It is
// owned exclusively by the lifecycle controller's spawned set and destroyed
// when the anchor is cleared on the next card load.
type Spawned struct {
	ID   string
	Spec card.LayerSpec
	Node *scene.Node

	// Video is the shared resource backing a video overlay, nil otherwise.
	// The resource itself outlives the overlay: it belongs to the registry.
	Video *media.Video
}

// SetVisible flips the overlay's visibility flag.
func (s *Spawned) SetVisible(v bool) {
	s.Node.Visible = v
}

// Visible reports the overlay's visibility flag.
func (s *Spawned) Visible() bool {
	return s.Node.Visible
}

// Options configures environment-specific factory defaults.
type Options struct {
	// DefaultPos places layers that carry no pos of their own, e.g. slightly
	// in front of the marker plane.
	DefaultPos scene.Vec3
}

var defaultScale = scene.Vec3{0.2, 0.2, 0.2}

// Factory builds spawned overlays, sharing video resources through the
// registry and delegating model loads to the loader collaborator.
type Factory struct {
	registry *media.Registry
	loader   ModelLoader
	opts     Options
	now      func() time.Time
}

// NewFactory creates a factory.
func NewFactory(registry *media.Registry, loader ModelLoader, opts Options) *Factory {
	return &Factory{
		registry: registry,
		loader:   loader,
		opts:     opts,
		now:      time.Now,
	}
}

// Build produces exactly one spawned overlay for a valid layer spec. The
// overlay starts hidden; visibility belongs to the lifecycle controller.
func (f *Factory) Build(spec card.LayerSpec) (*Spawned, error) {
	if !spec.Valid() {
		return nil, ErrInvalidSpec
	}

	spawned := &Spawned{ID: uuid.NewString(), Spec: spec}

	switch spec.Type {
	case card.LayerImage, card.LayerGif:
		node := scene.NewNode(scene.KindPlane, string(spec.Type))
		// Cache-bust per load so a stale texture is never reused.
		node.Texture = cacheBust(spec.Src, f.now())
		spawned.Node = node

	case card.LayerVideo:
		node := scene.NewNode(scene.KindPlane, string(spec.Type))
		node.VideoKey = media.Key(spec.Src)
		spawned.Node = node
		spawned.Video = f.registry.Ensure(spec.Src)

	case card.LayerModel:
		node := scene.NewNode(scene.KindModel, string(spec.Type))
		spawned.Node = node
		f.loader.Load(spec.Src, func(asset ModelAsset, err error) {
			if err != nil {
				log.ErrorErr(log.CatOverlay, "model load failed", err, "src", spec.Src)
				return
			}
			if asset.Root != nil {
				node.Attach(asset.Root)
			}
			node.Animations = asset.Animations
			node.AnimationsEnabled = len(asset.Animations) > 0
			// The finished load reset material state on the new meshes.
			node.ApplyOnTop()
			log.Debug(log.CatOverlay, "model loaded", "src", spec.Src, "animations", len(asset.Animations))
		})

	default:
		return nil, fmt.Errorf("overlay: unsupported layer type %q", spec.Type)
	}

	f.place(spawned.Node, spec)
	spawned.Node.ApplyOnTop()
	spawned.Node.Visible = false

	log.Debug(log.CatOverlay, "overlay built", "type", spec.Type, "src", spec.Src)
	return spawned, nil
}

func (f *Factory) place(node *scene.Node, spec card.LayerSpec) {
	if spec.Pos != nil {
		node.Pos = scene.Vec3(*spec.Pos)
	} else {
		node.Pos = f.opts.DefaultPos
	}

	if spec.Scale != nil {
		node.Scale = scene.Vec3(*spec.Scale)
	} else {
		node.Scale = defaultScale
	}

	if spec.Anim != nil {
		if spec.Anim.Float > 0 {
			node.Float = &scene.FloatAnim{Amplitude: spec.Anim.Float}
		}
		// spec.Anim.SpinY is intentionally ignored: rotational spin is
		// disabled at this layer regardless of the configured value.
	}
}

func cacheBust(src string, now time.Time) string {
	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	return src + sep + "t=" + strconv.FormatInt(now.UnixMilli(), 10)
}
