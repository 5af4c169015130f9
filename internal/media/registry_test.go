package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRegistry_EnsureIsIdempotent(t *testing.T) {
	r := NewRegistry()

	a := r.Ensure("clip.mp4")
	b := r.Ensure("clip.mp4")

	assert.Same(t, a, b, "same URL must return the same handle")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DistinctURLsDistinctResources(t *testing.T) {
	r := NewRegistry()

	a := r.Ensure("a.mp4")
	b := r.Ensure("b.mp4")

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())
}

// Property: for any sequence of Ensure calls, the registry holds exactly one
// resource per distinct URL and repeated calls return the first handle.
func TestRegistry_IdempotenceLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry()
		seen := map[string]*Video{}

		urls := rapid.SliceOfN(rapid.SampledFrom([]string{
			"a.mp4", "b.mp4", "clip.mp4", "https://cdn.example/video.mp4",
		}), 1, 20).Draw(t, "urls")

		for _, u := range urls {
			got := r.Ensure(u)
			if prev, ok := seen[u]; ok {
				if prev != got {
					t.Fatalf("Ensure(%q) returned a new handle", u)
				}
			} else {
				seen[u] = got
			}
		}

		if r.Len() != len(seen) {
			t.Fatalf("registry holds %d resources, want %d", r.Len(), len(seen))
		}
	})
}

func TestRegistry_NewResourceDefaults(t *testing.T) {
	v := NewRegistry().Ensure("clip.mp4")

	assert.True(t, v.Hidden(), "new resources start hidden")
	assert.True(t, v.Looping(), "new resources loop")
	assert.True(t, v.Muted(), "new resources are muted for autoplay compliance")
	assert.True(t, v.CrossOrigin(), "cross-origin access is enabled")
	assert.False(t, v.Playing())
}

func TestKey_DeterministicAndDistinct(t *testing.T) {
	require.Equal(t, Key("clip.mp4"), Key("clip.mp4"))
	require.NotEqual(t, Key("a.mp4"), Key("b.mp4"))
}
