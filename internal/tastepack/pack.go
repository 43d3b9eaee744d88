package tastepack

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// FormatVersion is the current taste pack format version. Imports with
// an unrecognized version are rejected before any state is touched.
const FormatVersion = 1

var (
	// ErrInvalidFormat marks a malformed taste pack: unrecognized format
	// version or missing required fields.
	ErrInvalidFormat = errors.New("invalid taste pack format")

	// ErrDimensionNotFound marks a pack referencing a dimension ID absent
	// from the fixed catalog.
	ErrDimensionNotFound = errors.New("dimension not found")
)

// ImportMode controls how an imported pack combines with existing state.
type ImportMode string

const (
	// ImportMerge applies pack values additively; existing evidence is
	// never overwritten, only reinforced.
	ImportMerge ImportMode = "merge"

	// ImportReplace discards prior dimension values entirely before
	// applying the pack's values.
	ImportReplace ImportMode = "replace"
)

// DimensionValue is one exported value: a catalog dimension ID, the
// value itself, and the learned weight it carried at export time.
type DimensionValue struct {
	DimensionID string `json:"dimension_id" yaml:"dimension_id"`
	Value       string `json:"value" yaml:"value"`
	Weight      int    `json:"weight" yaml:"weight"`
}

// TastePack is a portable, versioned export of learned preference
// dimensions. Ephemeral: constructed on export, consumed on import.
type TastePack struct {
	FormatVersion int              `json:"format_version" yaml:"format_version"`
	Name          string           `json:"name" yaml:"name"`
	Description   string           `json:"description,omitempty" yaml:"description,omitempty"`
	Tags          []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt     time.Time        `json:"created_at" yaml:"created_at"`
	Dimensions    []DimensionValue `json:"dimensions" yaml:"dimensions"`
}

// Validate checks the pack against the format and the fixed catalog.
// Import callers must not apply any part of a pack that fails here.
func (p *TastePack) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil pack", ErrInvalidFormat)
	}
	if p.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", ErrInvalidFormat, p.FormatVersion)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidFormat)
	}

	for i, dv := range p.Dimensions {
		dim, ok := DimensionByID(dv.DimensionID)
		if !ok {
			return fmt.Errorf("dimension %q at index %d: %w", dv.DimensionID, i, ErrDimensionNotFound)
		}
		if dv.Value == "" {
			return fmt.Errorf("%w: empty value for dimension %q", ErrInvalidFormat, dv.DimensionID)
		}
		if !dim.Accepts(dv.Value) {
			return fmt.Errorf("%w: value %q not in vocabulary of dimension %q",
				ErrInvalidFormat, dv.Value, dv.DimensionID)
		}
	}

	return nil
}

// ParseMode validates an import mode string.
func ParseMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case ImportMerge:
		return ImportMerge, nil
	case ImportReplace:
		return ImportReplace, nil
	default:
		return "", fmt.Errorf("%w: unknown import mode %q", ErrInvalidFormat, s)
	}
}

// EncodeJSON serializes the pack as indented JSON.
func (p *TastePack) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// DecodeJSON parses and validates a JSON pack. All-or-nothing: a pack
// that fails validation is never returned.
func DecodeJSON(data []byte) (*TastePack, error) {
	var p TastePack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeYAML serializes the pack as YAML, for hand-authored packs.
func (p *TastePack) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(p)
}

// DecodeYAML parses and validates a YAML pack.
func DecodeYAML(data []byte) (*TastePack, error) {
	var p TastePack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
