package store

import (
	"fmt"
	"time"

	"promptpilot/internal/logging"
)

// ImportScores applies an imported set of category -> keyword -> weight
// values, all-or-nothing. With replace set, every prior score is
// discarded first and imported weights become the new scores; otherwise
// weights are added to existing scores, so an import can reinforce but
// never clobber accumulated evidence.
func (s *LocalStore) ImportScores(values map[string]map[string]int, replace bool, now time.Time) error {
	timer := logging.StartTimer(logging.CategoryStore, "ImportScores")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.Exec(`DELETE FROM preference_scores`); err != nil {
			return fmt.Errorf("%w: clear scores: %v", ErrStorage, err)
		}
	}

	for category, keywords := range values {
		for kw, weight := range keywords {
			if _, err := tx.Exec(`
				INSERT INTO preference_scores (category, keyword, score, last_updated)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(category, keyword) DO UPDATE SET
					score = score + excluded.score,
					last_updated = excluded.last_updated
			`, category, kw, weight, now.UnixMilli()); err != nil {
				return fmt.Errorf("%w: import %s/%s: %v", ErrStorage, category, kw, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStorage, err)
	}

	mode := "merge"
	if replace {
		mode = "replace"
	}
	logging.Ledger("Imported scores (%s): %d categories", mode, len(values))
	return nil
}
