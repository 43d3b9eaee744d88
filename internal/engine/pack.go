package engine

import (
	"fmt"

	"promptpilot/internal/feedback"
	"promptpilot/internal/logging"
	"promptpilot/internal/store"
	"promptpilot/internal/tastepack"
)

// pointsPerPackImport is awarded when a pack is applied successfully.
const pointsPerPackImport = 10

// ExportTastePack bundles the currently-liked dimension values into a
// portable versioned pack. Each liked keyword is exported exactly once:
// under the first catalog dimension whose vocabulary contains it, or
// under frequent_keywords otherwise.
func (e *Engine) ExportTastePack(name, description string, tags []string) (*tastepack.TastePack, error) {
	timer := logging.StartTimer(logging.CategoryEngine, "ExportTastePack")
	defer timer.Stop()

	if name == "" {
		return nil, fmt.Errorf("%w: missing name", tastepack.ErrInvalidFormat)
	}

	liked, err := e.store.LikedKeywords(store.LikedThreshold)
	if err != nil {
		return nil, err
	}

	pack := &tastepack.TastePack{
		FormatVersion: tastepack.FormatVersion,
		Name:          name,
		Description:   description,
		Tags:          tags,
		CreatedAt:     e.clock(),
	}

	for _, ks := range liked {
		dimID := dimensionFor(ks.Keyword)
		if dimID == "" {
			dimID = tastepack.DimFrequentKeywords
		}
		pack.Dimensions = append(pack.Dimensions, tastepack.DimensionValue{
			DimensionID: dimID,
			Value:       ks.Keyword,
			Weight:      ks.Score,
		})
	}

	logging.AuditLog(logging.AuditEvent{
		EventType: logging.AuditPackExport,
		Target:    name,
		Success:   true,
		Fields:    map[string]interface{}{"dimensions": len(pack.Dimensions)},
	})
	logging.Pack("Exported taste pack %q with %d dimension values", name, len(pack.Dimensions))
	return pack, nil
}

// ImportTastePack validates the pack and applies its values to the
// ledger, all-or-nothing. Replace discards every prior score first;
// merge adds imported weights onto existing scores so higher-confidence
// accumulated evidence is reinforced, never clobbered. A malformed pack
// is rejected before any state is touched.
func (e *Engine) ImportTastePack(pack *tastepack.TastePack, mode tastepack.ImportMode) error {
	timer := logging.StartTimer(logging.CategoryEngine, "ImportTastePack")
	defer timer.Stop()

	if err := pack.Validate(); err != nil {
		logging.AuditError(logging.AuditPackImport, packName(pack), err)
		return err
	}
	if mode != tastepack.ImportMerge && mode != tastepack.ImportReplace {
		return fmt.Errorf("%w: unknown import mode %q", tastepack.ErrInvalidFormat, mode)
	}

	values := map[string]map[string]int{
		feedback.CategoryGeneral: {},
	}
	for _, dv := range pack.Dimensions {
		values[feedback.CategoryGeneral][dv.Value] += dv.Weight
	}

	if err := e.store.ImportScores(values, mode == tastepack.ImportReplace, e.clock()); err != nil {
		logging.AuditError(logging.AuditPackImport, pack.Name, err)
		return err
	}

	if err := e.store.IncrementCounter(store.CounterPoints, pointsPerPackImport); err != nil {
		logging.Get(logging.CategoryEngine).Warn("Failed to award import points: %v", err)
	}

	logging.AuditLog(logging.AuditEvent{
		EventType: logging.AuditPackImport,
		Target:    pack.Name,
		Success:   true,
		Fields:    map[string]interface{}{"mode": string(mode), "dimensions": len(pack.Dimensions)},
	})
	logging.Pack("Imported taste pack %q (%s)", pack.Name, mode)
	return nil
}

func packName(p *tastepack.TastePack) string {
	if p == nil {
		return ""
	}
	return p.Name
}
