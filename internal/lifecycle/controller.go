// Package lifecycle owns the overlay lifecycle state machine: the spawned
// overlay set, the anchor's visibility, and the transitions driven by user
// start/stop commands and tracking events. All spawned state is owned by the
// Controller instance; there is no package-level shared anything.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cardlens/internal/card"
	"cardlens/internal/compositor"
	"cardlens/internal/log"
	"cardlens/internal/overlay"
	"cardlens/internal/pubsub"
	"cardlens/internal/retrier"
	"cardlens/internal/scene"
	"cardlens/internal/tracking"
)

// State is the tracking session state.
type State int

const (
	// StateIdle means AR is not started.
	StateIdle State = iota
	// StateScanning means the camera is running but no marker is recognized.
	StateScanning
	// StateTracking means the marker is recognized and overlays are visible.
	StateTracking
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateTracking:
		return "tracking"
	default:
		return "idle"
	}
}

// ErrTrackerNotReady is returned by Start when no tracking engine is
// attached yet. Transient: the user retries once the engine initializes.
var ErrTrackerNotReady = errors.New("lifecycle: tracking engine not ready")

// Trailing delays for the stop-time repeated hide; the platform can repaint
// the output after the first hide, so the hide is reapplied twice.
var stopRehideDelays = []time.Duration{50 * time.Millisecond, 250 * time.Millisecond}

// Delay for the second corrective pass after targetFound, where the platform
// re-stacks the surfaces shortly after the transition.
const foundPassDelay = 150 * time.Millisecond

// Corrective pass budgets. Start recreates surfaces slowly (camera spin-up),
// so it gets the bigger budget.
var (
	startPassPolicy = retrier.Policy{MaxAttempts: 40, Interval: 100 * time.Millisecond}
	foundPassPolicy = retrier.Policy{MaxAttempts: 15, Interval: 150 * time.Millisecond}
)

// Config wires the controller's collaborators.
type Config struct {
	Factory    *overlay.Factory
	Renderer   scene.Renderer
	Compositor *compositor.Compositor
	// Scheduler defaults to TimerScheduler when nil.
	Scheduler Scheduler
}

// Controller is the overlay lifecycle controller.
type Controller struct {
	mu      sync.Mutex
	state   State
	anchor  *scene.Node
	spawned []*overlay.Spawned
	tracker tracking.Engine

	factory  *overlay.Factory
	renderer scene.Renderer
	comp     *compositor.Compositor
	sched    Scheduler

	status *pubsub.Broker[Status]
	tracer trace.Tracer
	ctx    context.Context
	cancel context.CancelFunc

	pending  map[int]func()
	nextTask int
}

// New creates a controller in Idle with an empty, hidden anchor.
func New(cfg Config) *Controller {
	sched := cfg.Scheduler
	if sched == nil {
		sched = TimerScheduler{}
	}

	anchor := scene.NewNode(scene.KindGroup, "anchor")
	anchor.Visible = false

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		state:    StateIdle,
		anchor:   anchor,
		factory:  cfg.Factory,
		renderer: cfg.Renderer,
		comp:     cfg.Compositor,
		sched:    sched,
		status:   pubsub.NewBroker[Status](),
		tracer:   otel.Tracer("cardlens/lifecycle"),
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[int]func()),
	}
}

// AttachTracker installs the tracking engine once it has initialized.
func (c *Controller) AttachTracker(engine tracking.Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracker = engine
}

// TrackerAttached reports whether a tracking engine is available.
func (c *Controller) TrackerAttached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker != nil
}

// Status is the broker carrying status readout updates.
func (c *Controller) Status() *pubsub.Broker[Status] {
	return c.status
}

// State returns the current tracking state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a deep copy of the overlay scene tree, taken under the
// controller lock. Renderers draw from snapshots; the live tree is mutated
// only by lifecycle transitions, some of which run on timer goroutines.
func (c *Controller) Snapshot() *scene.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anchor.Clone()
}

// Spawned returns the current spawned overlay set.
func (c *Controller) Spawned() []*overlay.Spawned {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*overlay.Spawned, len(c.spawned))
	copy(out, c.spawned)
	return out
}

// HasVideo reports whether any spawned overlay is video-backed.
func (c *Controller) HasVideo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.spawned {
		if s.Video != nil {
			return true
		}
	}
	return false
}

// LoadCard clears the anchor, destroys the current spawned set and rebuilds
// it from the given layer specs: the first card.MaxLayers entries, skipping
// any missing type or src. The anchor and every overlay are left hidden, the
// state returns to Idle and the renderer output stays hidden.
func (c *Controller) LoadCard(ctx context.Context, layers []card.LayerSpec) {
	_, span := c.tracer.Start(ctx, "lifecycle.load_card")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelPendingLocked()
	c.anchor.Clear()
	c.spawned = nil

	if len(layers) > card.MaxLayers {
		layers = layers[:card.MaxLayers]
	}
	for _, spec := range layers {
		spawned, err := c.factory.Build(spec)
		if err != nil {
			// Invalid and unsupported specs are skipped entirely, not errors.
			log.Debug(log.CatLifecycle, "layer skipped", "reason", err)
			continue
		}
		c.anchor.Attach(spawned.Node)
		c.spawned = append(c.spawned, spawned)
	}

	c.anchor.Visible = false
	c.state = StateIdle
	c.renderer.HideOutput()
	c.renderer.Apply(c.anchor)

	span.SetAttributes(attribute.Int("overlays", len(c.spawned)))
	log.Info(log.CatLifecycle, "card loaded", "overlays", len(c.spawned))
	c.publish(StatusInfo, fmt.Sprintf("Card loaded: %d layer(s). Tap Start to begin.", len(c.spawned)))
}

// Start begins the tracking session: Idle -> Scanning. Without an attached
// engine it reports not-ready and changes nothing; the user retries. An
// engine rejection is caught and surfaced as a non-fatal status message.
// Calling Start outside Idle is a no-op.
func (c *Controller) Start(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "lifecycle.start")
	defer span.End()

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	tracker := c.tracker
	c.mu.Unlock()

	if tracker == nil {
		log.Warn(log.CatLifecycle, "start requested before tracking engine ready")
		c.publish(StatusNotice, "AR engine still starting up, try again in a moment.")
		return ErrTrackerNotReady
	}

	if err := tracker.Start(ctx); err != nil {
		log.ErrorErr(log.CatLifecycle, "tracking engine rejected start", err)
		c.publish(StatusError, fmt.Sprintf("Could not start AR: %v", err))
		return fmt.Errorf("starting tracking engine: %w", err)
	}

	c.mu.Lock()
	c.renderer.ShowOutput()
	// Defensive: tracking has not found a target yet, nothing may show.
	c.hideOverlaysLocked()
	c.state = StateScanning
	c.renderer.Apply(c.anchor)
	c.mu.Unlock()

	c.runCorrectivePass(startPassPolicy)
	log.Info(log.CatLifecycle, "AR started, scanning")
	c.publish(StatusInfo, "Scanning for your card...")
	return nil
}

// Stop ends the tracking session from Scanning or Tracking. Overlays and the
// anchor are force-hidden, the engine is stopped, a blank frame is flushed
// and the output hidden — then the hide is reapplied at two trailing delays
// to defeat a platform repaint race. Calling Stop in Idle is a no-op.
func (c *Controller) Stop(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "lifecycle.stop")
	defer span.End()

	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return nil
	}
	tracker := c.tracker
	c.hideAllLocked()
	for _, s := range c.spawned {
		if s.Video != nil {
			s.Video.ResetForLoss()
		}
	}
	c.state = StateIdle
	c.mu.Unlock()

	if tracker != nil {
		if err := tracker.Stop(ctx); err != nil {
			// Surfaced, not fatal: the local state is already stopped.
			log.ErrorErr(log.CatLifecycle, "tracking engine stop failed", err)
			c.publish(StatusError, fmt.Sprintf("AR engine stop reported: %v", err))
		}
	}

	c.mu.Lock()
	// Flush a blank frame so the last tracked frame does not linger, then
	// hide the output.
	c.renderer.RenderOnce()
	c.renderer.HideOutput()
	c.renderer.Apply(c.anchor)
	for _, d := range stopRehideDelays {
		c.scheduleLocked(d, c.rehide)
	}
	c.mu.Unlock()

	log.Info(log.CatLifecycle, "AR stopped")
	c.publish(StatusInfo, "AR stopped.")
	return nil
}

// rehide reapplies the stop-time hide. The platform may repaint the output
// after the first hide; reapplying after a delay wins that race. Skipped if
// the session was restarted in the meantime.
func (c *Controller) rehide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return
	}
	c.hideAllLocked()
	c.renderer.HideOutput()
	c.renderer.Apply(c.anchor)
}

// OnTargetFound handles the tracking engine recognizing the marker:
// Scanning -> Tracking, anchor and all overlays revealed, corrective pass now
// and again shortly after for the re-stacking race specific to this
// transition. Ignored outside Scanning.
func (c *Controller) OnTargetFound() {
	c.mu.Lock()
	if c.state != StateScanning {
		c.mu.Unlock()
		return
	}
	c.state = StateTracking
	c.anchor.Visible = true
	for _, s := range c.spawned {
		s.SetVisible(true)
	}
	c.renderer.Apply(c.anchor)
	c.scheduleLocked(foundPassDelay, func() {
		c.runCorrectivePass(foundPassPolicy)
	})
	c.mu.Unlock()

	c.runCorrectivePass(foundPassPolicy)
	log.Info(log.CatLifecycle, "target found")
	c.publish(StatusInfo, "Card found!")
}

// OnTargetLost handles losing the marker: Tracking -> Scanning, everything
// hidden, and every video-backed overlay paused, rewound and re-muted so no
// audio leaks and the next find starts from a consistent frame. Ignored
// outside Tracking.
func (c *Controller) OnTargetLost() {
	c.mu.Lock()
	if c.state != StateTracking {
		c.mu.Unlock()
		return
	}
	c.state = StateScanning
	c.hideAllLocked()
	for _, s := range c.spawned {
		if s.Video != nil {
			s.Video.ResetForLoss()
		}
	}
	c.renderer.Apply(c.anchor)
	c.mu.Unlock()

	log.Info(log.CatLifecycle, "target lost")
	c.publish(StatusInfo, "Card lost, keep scanning...")
}

// UnmuteAndPlayVideos is the user-gesture path for sound: unmutes and plays
// every video-backed overlay.
func (c *Controller) UnmuteAndPlayVideos() {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, s := range c.spawned {
		if s.Video != nil {
			s.Video.UnmuteAndPlay()
			count++
		}
	}
	if count > 0 {
		log.Info(log.CatLifecycle, "videos unmuted", "count", count)
		c.publish(StatusInfo, "Sound on.")
	}
}

// Close tears the controller down, cancelling pending corrective work.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.mu.Unlock()
	c.cancel()
	c.status.Close()
}

func (c *Controller) hideOverlaysLocked() {
	for _, s := range c.spawned {
		s.SetVisible(false)
	}
}

func (c *Controller) hideAllLocked() {
	c.anchor.Visible = false
	c.hideOverlaysLocked()
}

// scheduleLocked registers a one-shot task that removes its own cancel entry
// once it fires, so long start/stop/found sessions do not accumulate spent
// cancel funcs.
func (c *Controller) scheduleLocked(d time.Duration, fn func()) {
	id := c.nextTask
	c.nextTask++
	c.pending[id] = c.sched.After(d, func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		fn()
	})
}

func (c *Controller) cancelPendingLocked() {
	for id, cancel := range c.pending {
		cancel()
		delete(c.pending, id)
	}
}

// runCorrectivePass kicks off a compositor pass off the caller's goroutine;
// the pass polls for surfaces and cancels with the controller.
func (c *Controller) runCorrectivePass(policy retrier.Policy) {
	if c.comp == nil {
		return
	}
	go func() { _ = c.comp.CorrectivePass(c.ctx, policy) }()
}

func (c *Controller) publish(kind StatusKind, msg string) {
	c.status.Publish(Status{Kind: kind, Message: msg})
}
