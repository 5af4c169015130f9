package lifecycle

import "time"

// Scheduler runs a function after a delay. The controller's trailing
// corrective work (repeated hides, delayed compositor passes) goes through
// this so tests can drive time by hand.
type Scheduler interface {
	// After schedules fn and returns a cancel function. Cancel after the
	// function has run is a no-op.
	After(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler is the production scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// After implements Scheduler.
func (TimerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
