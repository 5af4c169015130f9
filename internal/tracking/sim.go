package tracking

import (
	"context"
	"errors"
	"sync"
	"time"

	"cardlens/internal/log"
	"cardlens/internal/pubsub"
)

// ErrNotRunning is returned when a target event is forced while the engine
// is stopped.
var ErrNotRunning = errors.New("tracking: engine not running")

// Sim is a keyboard/test-driven tracking engine. The viewer uses it to drive
// the lifecycle without a camera; tests use it as the engine double.
type Sim struct {
	mu         sync.Mutex
	running    bool
	startDelay time.Duration
	nextErr    error
	events     *pubsub.Broker[TargetEvent]
}

// NewSim creates a stopped simulated engine.
func NewSim() *Sim {
	return &Sim{events: pubsub.NewBroker[TargetEvent]()}
}

// SetStartDelay makes Start take a while, like a real camera pipeline.
func (s *Sim) SetStartDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startDelay = d
}

// FailNextStart makes the next Start reject with err, then clears.
func (s *Sim) FailNextStart(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextErr = err
}

// Start implements Engine.
func (s *Sim) Start(ctx context.Context) error {
	s.mu.Lock()
	delay := s.startDelay
	err := s.nextErr
	s.nextErr = nil
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	log.Info(log.CatTracking, "sim engine started")
	return nil
}

// Stop implements Engine.
func (s *Sim) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	log.Info(log.CatTracking, "sim engine stopped")
	return nil
}

// Events implements Engine.
func (s *Sim) Events() *pubsub.Broker[TargetEvent] {
	return s.events
}

// Running reports whether the sim camera is up.
func (s *Sim) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// EmitFound publishes a targetFound event; no-op unless running.
func (s *Sim) EmitFound() error {
	return s.emit(TargetFound)
}

// EmitLost publishes a targetLost event; no-op unless running.
func (s *Sim) EmitLost() error {
	return s.emit(TargetLost)
}

func (s *Sim) emit(kind TargetEventKind) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return ErrNotRunning
	}
	log.Debug(log.CatTracking, "sim target event", "kind", kind)
	s.events.Publish(TargetEvent{Kind: kind})
	return nil
}

var _ Engine = (*Sim)(nil)
