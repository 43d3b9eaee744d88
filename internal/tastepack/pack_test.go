package tastepack

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPack() *TastePack {
	return &TastePack{
		FormatVersion: FormatVersion,
		Name:          "cyberpunk nights",
		Description:   "neon city aesthetics",
		Tags:          []string{"visual", "dark"},
		CreatedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Dimensions: []DimensionValue{
			{DimensionID: DimVisualStyle, Value: "cyberpunk", Weight: 4},
			{DimensionID: DimColorPalette, Value: "neon", Weight: 3},
			{DimensionID: DimFrequentKeywords, Value: "rain-slicked", Weight: 2},
		},
	}
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validPack().Validate())
}

func TestValidateRejectsBadVersion(t *testing.T) {
	p := validPack()
	p.FormatVersion = 99
	assert.ErrorIs(t, p.Validate(), ErrInvalidFormat)
}

func TestValidateRejectsMissingName(t *testing.T) {
	p := validPack()
	p.Name = ""
	assert.ErrorIs(t, p.Validate(), ErrInvalidFormat)
}

func TestValidateRejectsUnknownDimension(t *testing.T) {
	p := validPack()
	p.Dimensions = append(p.Dimensions, DimensionValue{DimensionID: "shoe_size", Value: "42"})
	assert.ErrorIs(t, p.Validate(), ErrDimensionNotFound)
}

func TestValidateRejectsValueOutsideVocabulary(t *testing.T) {
	p := validPack()
	p.Dimensions = append(p.Dimensions, DimensionValue{DimensionID: DimMood, Value: "grumpy"})
	assert.ErrorIs(t, p.Validate(), ErrInvalidFormat)
}

func TestValidateRejectsEmptyValue(t *testing.T) {
	p := validPack()
	p.Dimensions = append(p.Dimensions, DimensionValue{DimensionID: DimMood})
	assert.ErrorIs(t, p.Validate(), ErrInvalidFormat)
}

func TestJSONRoundTrip(t *testing.T) {
	p := validPack()

	data, err := p.EncodeJSON()
	require.NoError(t, err)

	decoded, err := DecodeJSON(data)
	require.NoError(t, err)

	if diff := cmp.Diff(p, decoded); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	p := validPack()

	data, err := p.EncodeYAML()
	require.NoError(t, err)

	decoded, err := DecodeYAML(data)
	require.NoError(t, err)

	if diff := cmp.Diff(p, decoded); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	_, err := DecodeJSON([]byte("{not json"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodeJSONRejectsInvalidPack(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"format_version": 7, "name": "x"}`))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("merge")
	require.NoError(t, err)
	assert.Equal(t, ImportMerge, m)

	m, err = ParseMode("replace")
	require.NoError(t, err)
	assert.Equal(t, ImportReplace, m)

	_, err = ParseMode("overwrite")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCatalogLookup(t *testing.T) {
	dim, ok := DimensionByID(DimVisualStyle)
	require.True(t, ok)
	assert.True(t, dim.Accepts("anime"))
	assert.False(t, dim.Accepts("polkadot"))

	free, ok := DimensionByID(DimFrequentKeywords)
	require.True(t, ok)
	assert.True(t, free.Accepts("anything-goes"))
	assert.False(t, free.Accepts(""))

	_, ok = DimensionByID("nope")
	assert.False(t, ok)
}
