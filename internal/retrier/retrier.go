// Package retrier provides a bounded fixed-interval polling loop.
// Corrective passes that wait for presentation surfaces to (re)appear use it
// instead of hand-rolled setInterval-style loops: the pass self-terminates as
// soon as its predicate holds, after the attempt budget runs out, or when the
// owning context is cancelled, whichever comes first.
package retrier

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrBudgetExhausted is returned when the predicate never became true within
// the attempt budget. Callers treat this as a best-effort failure: log it,
// change nothing.
var ErrBudgetExhausted = errors.New("retrier: attempt budget exhausted")

var errNotReady = errors.New("retrier: not ready")

// Policy bounds a polling loop.
type Policy struct {
	// MaxAttempts is the total number of predicate checks, including the
	// immediate first one. Zero or negative falls back to a single attempt.
	MaxAttempts int

	// Interval is the fixed delay between attempts.
	Interval time.Duration
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Interval <= 0 {
		p.Interval = 100 * time.Millisecond
	}
	return p
}

// Poll repeatedly evaluates ready until it returns true, then runs apply once
// and returns nil. The first check happens immediately; subsequent checks are
// spaced by p.Interval. Returns ErrBudgetExhausted when the budget runs out,
// or ctx.Err() when cancelled.
func Poll(ctx context.Context, p Policy, ready func() bool, apply func()) error {
	p = p.normalized()

	op := func() (struct{}, error) {
		if ready() {
			apply()
			return struct{}{}, nil
		}
		return struct{}{}, errNotReady
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(p.Interval)),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errNotReady):
		return ErrBudgetExhausted
	default:
		return err
	}
}
