// Package compositor forces correct visual stacking between the live camera
// feed and the rendered overlay output. On the affected mobile browser the
// platform compositor paints the camera feed above WebGL content unless both
// layers carry explicit layering hints, and both start() and targetFound can
// recreate the underlying surfaces, so the corrective pass is retried on a
// short polling schedule rather than applied once.
package compositor

import (
	"context"

	"cardlens/internal/log"
	"cardlens/internal/retrier"
)

// Stacking is the declarative layering state applied to a surface. Opacity
// just under 1.0 plus the promotion hint push the surface into its own
// composited layer; that is the whole trick.
type Stacking struct {
	FullViewportFixed bool
	ZIndex            int
	Opacity           float64
	PromoteLayer      bool
}

// Layer is one composited surface the pass can re-stack.
type Layer interface {
	ApplyStacking(Stacking)
}

// Surfaces locates the two surfaces the pass cares about. Either lookup may
// fail while the surfaces are being (re)created; the pass polls until both
// resolve or the budget runs out.
type Surfaces interface {
	CameraLayer() (Layer, bool)
	RenderLayer() (Layer, bool)
}

// Layering constants: camera pinned full-viewport beneath the render output,
// both nudged into their own composited layers.
var (
	cameraStacking = Stacking{FullViewportFixed: true, ZIndex: 0, Opacity: 0.999, PromoteLayer: true}
	renderStacking = Stacking{ZIndex: 1, Opacity: 0.999, PromoteLayer: true}
)

// Compositor runs corrective stacking passes against a Surfaces collaborator.
type Compositor struct {
	surfaces Surfaces
	enabled  bool
}

// New creates a compositor. When enabled is false every pass is a no-op,
// for platforms that stack the camera feed correctly on their own.
func New(surfaces Surfaces, enabled bool) *Compositor {
	return &Compositor{surfaces: surfaces, enabled: enabled}
}

// CorrectivePass polls until both surfaces exist, then applies the stacking
// hints to each. Exhausting the budget is best-effort: logged, no error
// surfaced to the user, presentation degrades to whatever the platform does.
func (c *Compositor) CorrectivePass(ctx context.Context, policy retrier.Policy) error {
	if c == nil || !c.enabled {
		return nil
	}

	err := retrier.Poll(ctx, policy,
		func() bool {
			_, camOK := c.surfaces.CameraLayer()
			_, outOK := c.surfaces.RenderLayer()
			return camOK && outOK
		},
		func() {
			if cam, ok := c.surfaces.CameraLayer(); ok {
				cam.ApplyStacking(cameraStacking)
			}
			if out, ok := c.surfaces.RenderLayer(); ok {
				out.ApplyStacking(renderStacking)
			}
			log.Debug(log.CatCompositor, "stacking corrected")
		},
	)
	if err != nil {
		log.Warn(log.CatCompositor, "corrective pass gave up", "reason", err)
	}
	return err
}
