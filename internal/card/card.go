// Package card defines the card configuration schema and resolves a requested
// card identifier to a validated layer list.
package card

// MaxLayers caps how many layer specs are processed per card; any excess is
// silently dropped.
const MaxLayers = 5

// LayerType enumerates the overlay variants a layer can configure.
type LayerType string

const (
	LayerImage LayerType = "image"
	LayerGif   LayerType = "gif"
	LayerVideo LayerType = "video"
	LayerModel LayerType = "model"
)

// AnimSpec holds the optional per-layer animation parameters.
type AnimSpec struct {
	// Float is the vertical bob amplitude; zero disables the bob.
	Float float64 `json:"float"`
	// SpinY is accepted for config compatibility but intentionally has no
	// effect: rotational spin is disabled at the factory regardless of value.
	SpinY float64 `json:"spinY"`
}

// LayerSpec describes one configured piece of AR content.
type LayerSpec struct {
	Type  LayerType   `json:"type"`
	Src   string      `json:"src"`
	Pos   *[3]float64 `json:"pos,omitempty"`
	Scale *[3]float64 `json:"scale,omitempty"`
	Anim  *AnimSpec   `json:"anim,omitempty"`
}

// Valid reports whether the spec carries both required fields. Invalid specs
// are skipped entirely, never treated as errors.
func (s LayerSpec) Valid() bool {
	return s.Type != "" && s.Src != ""
}

// DefaultInstagramURL is shown when a card carries no instagramUrl of its own.
const DefaultInstagramURL = "https://instagram.com/cardlens.ar"

// Definition is one card's content: an optional Instagram handle link and an
// ordered layer list (insertion order is render order).
type Definition struct {
	InstagramURL string      `json:"instagramUrl,omitempty"`
	Layers       []LayerSpec `json:"layers"`
}

// Instagram returns the card's Instagram link, or the default when absent.
func (d Definition) Instagram() string {
	if d.InstagramURL == "" {
		return DefaultInstagramURL
	}
	return d.InstagramURL
}

// ActiveLayers returns the layer specs that will actually be spawned: the
// first MaxLayers entries, minus any missing type or src.
func (d Definition) ActiveLayers() []LayerSpec {
	specs := d.Layers
	if len(specs) > MaxLayers {
		specs = specs[:MaxLayers]
	}
	out := make([]LayerSpec, 0, len(specs))
	for _, s := range specs {
		if s.Valid() {
			out = append(out, s)
		}
	}
	return out
}

// HasVideo reports whether any active layer is video-backed. The viewer uses
// it to decide whether the unmute control is shown at all.
func (d Definition) HasVideo() bool {
	for _, s := range d.ActiveLayers() {
		if s.Type == LayerVideo {
			return true
		}
	}
	return false
}

// Config maps card identifiers to their definitions. It is decoded once per
// session and treated as immutable afterwards.
type Config map[string]Definition
