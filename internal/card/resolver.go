package card

import (
	"fmt"
	"strings"

	"cardlens/internal/log"
)

// ErrDefaultCardMissing means the configuration has no entry for the default
// card id. Nothing can be shown in that case, so startup halts.
type ErrDefaultCardMissing struct {
	DefaultID string
}

func (e ErrDefaultCardMissing) Error() string {
	return fmt.Sprintf("card config has no entry for default card %q", e.DefaultID)
}

// Resolution is the outcome of resolving a requested card id.
type Resolution struct {
	// ID is the card id actually used.
	ID string
	// Definition is the resolved card content.
	Definition Definition
	// Fallback is set when the requested id was unknown and the default was
	// substituted; callers surface this as a non-fatal notice exactly once.
	Fallback bool
	// Requested is the (trimmed) id that was asked for.
	Requested string
}

// Resolver resolves requested ids against a loaded configuration.
type Resolver struct {
	cfg       Config
	defaultID string
}

// NewResolver validates that the default card exists and returns a resolver.
func NewResolver(cfg Config, defaultID string) (*Resolver, error) {
	if _, ok := cfg[defaultID]; !ok {
		return nil, ErrDefaultCardMissing{DefaultID: defaultID}
	}
	return &Resolver{cfg: cfg, defaultID: defaultID}, nil
}

// DefaultID returns the configured default card id.
func (r *Resolver) DefaultID() string {
	return r.defaultID
}

// Resolve maps a requested id to a card definition. The id is trimmed;
// empty or missing falls back to the default id silently, while an unknown
// non-empty id falls back with Fallback set.
func (r *Resolver) Resolve(requested string) Resolution {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		requested = r.defaultID
	}

	if def, ok := r.cfg[requested]; ok {
		return Resolution{ID: requested, Definition: def, Requested: requested}
	}

	log.Warn(log.CatCard, "unknown card id, falling back to default",
		"requested", requested, "default", r.defaultID)
	return Resolution{
		ID:         r.defaultID,
		Definition: r.cfg[r.defaultID],
		Fallback:   true,
		Requested:  requested,
	}
}
