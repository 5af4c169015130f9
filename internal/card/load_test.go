package card

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "card_001": {
    "instagramUrl": "https://instagram.com/studio",
    "layers": [
      {"type": "image", "src": "a.png", "scale": [0.3, 0.3, 0.3]},
      {"type": "video", "src": "clip.mp4", "anim": {"float": 0.05, "spinY": 45}}
    ]
  }
}`

func TestLoad_FromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleConfig))
	}))
	defer srv.Close()

	cfg, err := Load(context.Background(), srv.URL)
	require.NoError(t, err)

	def, ok := cfg["card_001"]
	require.True(t, ok)
	assert.Equal(t, "https://instagram.com/studio", def.InstagramURL)
	require.Len(t, def.Layers, 2)
	assert.Equal(t, LayerImage, def.Layers[0].Type)
	require.NotNil(t, def.Layers[0].Scale)
	assert.Equal(t, [3]float64{0.3, 0.3, 0.3}, *def.Layers[0].Scale)
	require.NotNil(t, def.Layers[1].Anim)
	assert.InDelta(t, 0.05, def.Layers[1].Anim.Float, 1e-9)
	assert.InDelta(t, 45, def.Layers[1].Anim.SpinY, 1e-9)
}

func TestLoad_HTTPErrorStatusIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoad_TransportErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := Load(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, cfg, "card_001")
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoad_MalformedJSONIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"card_001": `), 0o644))

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding card config")
}
