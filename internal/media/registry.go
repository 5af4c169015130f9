package media

import (
	"encoding/base64"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"cardlens/internal/log"
)

// Key returns the deterministic cache key for a source URL.
func Key(src string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(src))
}

// Registry deduplicates shared video resources by source URL. Entries are
// session-scoped: nothing expires and nothing is evicted, a fresh card load
// only resets playback state, never the registry.
type Registry struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	// No expiration and no janitor: the cache lives as long as the session.
	return &Registry{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Ensure returns the shared resource for src, creating it on first use.
// Idempotent: every call with the same URL returns the same handle.
func (r *Registry) Ensure(src string) *Video {
	key := Key(src)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, found := r.cache.Get(key); found {
		if v, ok := cached.(*Video); ok {
			log.Debug(log.CatMedia, "video resource reused", "src", src)
			return v
		}
		log.Error(log.CatMedia, "wrong type in media registry", "key", key)
	}

	v := newVideo(src)
	r.cache.Set(key, v, gocache.NoExpiration)
	log.Info(log.CatMedia, "video resource created", "src", src)
	return v
}

// Len returns the number of distinct resources in the registry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.ItemCount()
}
