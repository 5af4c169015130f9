// Package tracking defines the marker-tracking collaborator contract. Pose
// estimation and marker recognition are externals; this package only carries
// the start/stop surface and the target found/lost event stream the
// lifecycle controller reacts to.
package tracking

import (
	"context"

	"cardlens/internal/pubsub"
)

// TargetEventKind discriminates detection events for the physical marker.
type TargetEventKind int

const (
	// TargetFound means the marker was recognized.
	TargetFound TargetEventKind = iota
	// TargetLost means recognition dropped.
	TargetLost
)

func (k TargetEventKind) String() string {
	if k == TargetFound {
		return "targetFound"
	}
	return "targetLost"
}

// TargetEvent is one detection state change.
type TargetEvent struct {
	Kind TargetEventKind
}

// Engine is the tracking engine contract. Start and Stop are asynchronous in
// spirit and may fail; failures are surfaced as non-fatal status messages by
// the caller, never propagated as panics.
type Engine interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Events is the broker emitting targetFound/targetLost for the anchor.
	Events() *pubsub.Broker[TargetEvent]
}
