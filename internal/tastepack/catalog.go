// Package tastepack encodes learned preference dimensions into a
// portable, versioned bundle and applies imported bundles back onto the
// ledger with merge or replace semantics.
package tastepack

// Dimension is one entry of the fixed dimension catalog. Fixed-vocabulary
// dimensions only accept values from their vocabulary; free-form
// dimensions (frequent keywords) accept any keyword.
type Dimension struct {
	ID         string
	Label      string
	Vocabulary []string
	FreeForm   bool
}

// Catalog dimension IDs.
const (
	DimVisualStyle      = "visual_style"
	DimColorPalette     = "color_palette"
	DimLighting         = "lighting"
	DimAudioGenre       = "audio_genre"
	DimMood             = "mood"
	DimFrequentKeywords = "frequent_keywords"
)

// catalog is the fixed dimension catalog. Order matters: exports list
// dimensions in this order so packs diff cleanly.
var catalog = []Dimension{
	{
		ID:    DimVisualStyle,
		Label: "Visual Style",
		Vocabulary: []string{
			"anime", "realistic", "photorealistic", "cinematic", "watercolor",
			"minimalist", "surreal", "abstract", "vintage", "cyberpunk",
			"steampunk", "pixel-art", "sketch", "low-poly", "isometric",
		},
	},
	{
		ID:    DimColorPalette,
		Label: "Color Palette",
		Vocabulary: []string{
			"neon", "pastel", "monochrome", "vibrant", "muted", "warm",
			"cool", "earthy", "sepia", "saturated", "desaturated",
		},
	},
	{
		ID:    DimLighting,
		Label: "Lighting",
		Vocabulary: []string{
			"dramatic", "soft", "golden-hour", "backlit", "moody", "natural",
			"studio", "ambient", "harsh", "diffused", "volumetric",
		},
	},
	{
		ID:    DimAudioGenre,
		Label: "Audio Genre",
		Vocabulary: []string{
			"ambient", "synthwave", "lofi", "orchestral", "electronic",
			"jazz", "acoustic", "cinematic-score", "chiptune",
		},
	},
	{
		ID:    DimMood,
		Label: "Mood",
		Vocabulary: []string{
			"dark", "cheerful", "melancholic", "epic", "serene", "tense",
			"whimsical", "nostalgic", "mysterious", "uplifting",
		},
	},
	{
		ID:       DimFrequentKeywords,
		Label:    "Frequent Keywords",
		FreeForm: true,
	},
}

// Catalog returns the fixed dimension catalog.
func Catalog() []Dimension {
	out := make([]Dimension, len(catalog))
	copy(out, catalog)
	return out
}

// DimensionByID looks up a catalog dimension.
func DimensionByID(id string) (Dimension, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}

// Accepts reports whether the dimension accepts the given value.
func (d Dimension) Accepts(value string) bool {
	if d.FreeForm {
		return value != ""
	}
	for _, v := range d.Vocabulary {
		if v == value {
			return true
		}
	}
	return false
}
