package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		"card_001": {Layers: []LayerSpec{{Type: LayerImage, Src: "a.png"}}},
		"card_002": {Layers: []LayerSpec{{Type: LayerVideo, Src: "clip.mp4"}}},
	}
}

func TestNewResolver_DefaultMissingIsFatal(t *testing.T) {
	_, err := NewResolver(testConfig(), "card_999")
	require.Error(t, err)
	assert.ErrorContains(t, err, "card_999")

	var missing ErrDefaultCardMissing
	assert.ErrorAs(t, err, &missing)
}

func TestResolve_KnownID(t *testing.T) {
	r, err := NewResolver(testConfig(), "card_001")
	require.NoError(t, err)

	res := r.Resolve("card_002")
	assert.Equal(t, "card_002", res.ID)
	assert.False(t, res.Fallback)
	assert.Equal(t, LayerVideo, res.Definition.Layers[0].Type)
}

func TestResolve_EmptyIDUsesDefaultSilently(t *testing.T) {
	r, err := NewResolver(testConfig(), "card_001")
	require.NoError(t, err)

	for _, requested := range []string{"", "   ", "\t"} {
		res := r.Resolve(requested)
		assert.Equal(t, "card_001", res.ID)
		assert.False(t, res.Fallback, "blank id is a silent default, not an unknown-id notice")
	}
}

func TestResolve_UnknownIDFallsBackWithNotice(t *testing.T) {
	r, err := NewResolver(testConfig(), "card_001")
	require.NoError(t, err)

	res := r.Resolve("card_999")
	assert.Equal(t, "card_001", res.ID)
	assert.True(t, res.Fallback)
	assert.Equal(t, "card_999", res.Requested)
	assert.Equal(t, "a.png", res.Definition.Layers[0].Src)
}

func TestResolve_TrimsRequestedID(t *testing.T) {
	r, err := NewResolver(testConfig(), "card_001")
	require.NoError(t, err)

	res := r.Resolve("  card_002  ")
	assert.Equal(t, "card_002", res.ID)
	assert.False(t, res.Fallback)
}
