// Package media manages shared playable resources. One video element exists
// per source URL regardless of how many overlays reference it; the registry
// lives for the whole session and is never cleared by a card reload.
package media

import (
	"errors"
	"sync"
)

// ErrAutoplayBlocked is the platform autoplay policy saying no: unmuted
// playback needs a user gesture. Best-effort failure, logged only.
var ErrAutoplayBlocked = errors.New("media: unmuted autoplay blocked by platform policy")

// Video is a shared playable resource. All mutations take the resource lock,
// so a pause can never tear a play call in half no matter who calls from
// where.
type Video struct {
	mu          sync.Mutex
	src         string
	position    float64 // seconds
	playing     bool
	muted       bool
	looping     bool
	hidden      bool
	crossOrigin bool
}

// newVideo creates a resource in the autoplay-policy-compliant default state:
// hidden, looping, muted, cross-origin enabled.
func newVideo(src string) *Video {
	return &Video{
		src:         src,
		muted:       true,
		looping:     true,
		hidden:      true,
		crossOrigin: true,
	}
}

// Play starts muted playback. Unmuted playback without a user gesture is
// rejected with ErrAutoplayBlocked.
func (v *Video) Play() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.muted {
		return ErrAutoplayBlocked
	}
	v.playing = true
	return nil
}

// UnmuteAndPlay is the user-gesture path: unmutes and starts playback.
func (v *Video) UnmuteAndPlay() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.muted = false
	v.playing = true
}

// Pause stops playback, keeping the current position.
func (v *Video) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
}

// Rewind seeks back to the start.
func (v *Video) Rewind() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.position = 0
}

// Mute silences the resource without touching playback state.
func (v *Video) Mute() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.muted = true
}

// ResetForLoss applies the reset-on-loss policy in one locked step: pause,
// rewind to the start and re-mute, so audio never leaks while the target is
// lost and the next find starts from a consistent frame.
func (v *Video) ResetForLoss() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
	v.position = 0
	v.muted = true
}

// Advance moves the playhead forward while playing. The sim playback clock
// calls this; a real backend reports position itself.
func (v *Video) Advance(seconds float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playing {
		v.position += seconds
	}
}

// Src returns the source URL.
func (v *Video) Src() string { return v.src }

// Playing reports playback state.
func (v *Video) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

// Muted reports mute state.
func (v *Video) Muted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.muted
}

// Position returns the playhead in seconds.
func (v *Video) Position() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.position
}

// Looping reports whether the resource loops.
func (v *Video) Looping() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.looping
}

// Hidden reports whether the raw element stays hidden (it is only ever shown
// through an overlay texture).
func (v *Video) Hidden() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hidden
}

// CrossOrigin reports whether cross-origin access is enabled.
func (v *Video) CrossOrigin() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.crossOrigin
}
