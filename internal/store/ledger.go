package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"promptpilot/internal/feedback"
	"promptpilot/internal/logging"
)

// Fixed thresholds consumed by callers building preference context for
// the rewrite request.
const (
	LikedThreshold = 2
	AvoidThreshold = -2
)

// Counter names tracked in the counters table.
const (
	CounterLikes         = "total_likes"
	CounterDislikes      = "total_dislikes"
	CounterDeletes       = "total_deletes"
	CounterContributions = "total_contributions"
	CounterPoints        = "total_points"
)

// KeywordScore is one ledger entry. Scores are never deleted, only
// decayed toward zero.
type KeywordScore struct {
	Keyword     string    `json:"keyword"`
	Score       int       `json:"score"`
	LastUpdated time.Time `json:"last_updated"`
}

// Counters are the ledger's aggregate totals.
type Counters struct {
	TotalLikes         int64 `json:"total_likes"`
	TotalDislikes      int64 `json:"total_dislikes"`
	TotalDeletes       int64 `json:"total_deletes"`
	TotalContributions int64 `json:"total_contributions"`
	TotalPoints        int64 `json:"total_points"`
}

// ApplyClassification applies a classified feedback event to the ledger:
// keyword deltas, reason count, and aggregate counters, all in one
// transaction. Deltas accumulate additively, so concurrent feedback
// commutes and none is silently dropped.
func (s *LocalStore) ApplyClassification(c feedback.Classification, now time.Time) error {
	timer := logging.StartTimer(logging.CategoryStore, "ApplyClassification")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	for _, d := range c.Deltas {
		if _, err := tx.Exec(`
			INSERT INTO preference_scores (category, keyword, score, last_updated)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(category, keyword) DO UPDATE SET
				score = score + excluded.score,
				last_updated = excluded.last_updated
		`, d.Category, d.Keyword, d.Delta, now.UnixMilli()); err != nil {
			return fmt.Errorf("%w: apply delta %s/%s: %v", ErrStorage, d.Category, d.Keyword, err)
		}
	}

	if c.Reason != "" {
		if _, err := tx.Exec(`
			INSERT INTO feedback_reasons (reason, count) VALUES (?, 1)
			ON CONFLICT(reason) DO UPDATE SET count = count + 1
		`, c.Reason); err != nil {
			return fmt.Errorf("%w: record reason %q: %v", ErrStorage, c.Reason, err)
		}
	}

	counters := map[string]int{
		CounterLikes:    c.Likes,
		CounterDislikes: c.Dislikes,
		CounterDeletes:  c.Deletes,
		CounterPoints:   c.Points,
	}
	// A zero-point classification came from an unrecognized event and
	// does not count as a contribution.
	if c.Points > 0 {
		counters[CounterContributions] = 1
	}
	for name, inc := range counters {
		if inc == 0 {
			continue
		}
		if err := incrementCounterTx(tx, name, inc); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStorage, err)
	}

	logging.LedgerDebug("Applied classification: %d deltas, reason=%q", len(c.Deltas), c.Reason)
	return nil
}

// ApplyDelta adjusts a single keyword score. Accumulates, by design.
func (s *LocalStore) ApplyDelta(category, keyword string, delta int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO preference_scores (category, keyword, score, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category, keyword) DO UPDATE SET
			score = score + excluded.score,
			last_updated = excluded.last_updated
	`, category, keyword, delta, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: apply delta: %v", ErrStorage, err)
	}
	return nil
}

// Decay reduces every score's magnitude by one point per full interval
// elapsed since last_updated, toward zero. A score never overshoots zero
// and never flips sign. last_updated advances by the consumed intervals
// so the residual elapsed time still counts toward the next step.
// Computed in Go rather than SQL so the arithmetic stays in one place.
func (s *LocalStore) Decay(now time.Time, interval time.Duration) (int, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Decay")
	defer timer.Stop()

	if interval <= 0 {
		return 0, fmt.Errorf("decay interval must be positive, got %v", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT category, keyword, score, last_updated FROM preference_scores WHERE score != 0`)
	if err != nil {
		return 0, fmt.Errorf("%w: query scores: %v", ErrStorage, err)
	}

	type decayUpdate struct {
		category, keyword string
		score             int
		lastUpdated       int64
	}
	var updates []decayUpdate

	for rows.Next() {
		var category, keyword string
		var score int
		var lastUpdated int64
		if err := rows.Scan(&category, &keyword, &score, &lastUpdated); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: scan score: %v", ErrStorage, err)
		}

		elapsed := now.UnixMilli() - lastUpdated
		steps := int(elapsed / interval.Milliseconds())
		if steps <= 0 {
			continue
		}

		magnitude := score
		if magnitude < 0 {
			magnitude = -magnitude
		}
		if steps > magnitude {
			steps = magnitude
		}

		decayed := score
		if decayed > 0 {
			decayed -= steps
		} else {
			decayed += steps
		}

		updates = append(updates, decayUpdate{
			category:    category,
			keyword:     keyword,
			score:       decayed,
			lastUpdated: lastUpdated + int64(steps)*interval.Milliseconds(),
		})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("%w: iterate scores: %v", ErrStorage, err)
	}
	rows.Close()

	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		if _, err := tx.Exec(`
			UPDATE preference_scores SET score = ?, last_updated = ?
			WHERE category = ? AND keyword = ?
		`, u.score, u.lastUpdated, u.category, u.keyword); err != nil {
			return 0, fmt.Errorf("%w: decay update: %v", ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrStorage, err)
	}

	logging.Ledger("Decayed %d keyword scores", len(updates))
	return len(updates), nil
}

// LikedKeywords returns keywords whose summed score across categories
// meets the threshold, highest first.
func (s *LocalStore) LikedKeywords(threshold int) ([]KeywordScore, error) {
	return s.keywordsAtThreshold(threshold, true)
}

// AvoidKeywords returns keywords whose summed score across categories is
// at or below the threshold, lowest first.
func (s *LocalStore) AvoidKeywords(threshold int) ([]KeywordScore, error) {
	return s.keywordsAtThreshold(threshold, false)
}

func (s *LocalStore) keywordsAtThreshold(threshold int, liked bool) ([]KeywordScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT keyword, SUM(score) AS total, MAX(last_updated)
		FROM preference_scores
		GROUP BY keyword
		HAVING total >= ?
		ORDER BY total DESC, keyword ASC
	`
	if !liked {
		query = `
		SELECT keyword, SUM(score) AS total, MAX(last_updated)
		FROM preference_scores
		GROUP BY keyword
		HAVING total <= ?
		ORDER BY total ASC, keyword ASC
	`
	}

	rows, err := s.db.Query(query, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: query keywords: %v", ErrStorage, err)
	}
	defer rows.Close()

	var result []KeywordScore
	for rows.Next() {
		var ks KeywordScore
		var lastUpdated int64
		if err := rows.Scan(&ks.Keyword, &ks.Score, &lastUpdated); err != nil {
			return nil, fmt.Errorf("%w: scan keyword: %v", ErrStorage, err)
		}
		ks.LastUpdated = time.UnixMilli(lastUpdated)
		result = append(result, ks)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate keywords: %v", ErrStorage, err)
	}
	return result, nil
}

// Scores returns the full ledger: category -> keyword -> score.
func (s *LocalStore) Scores() (map[string]map[string]KeywordScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT category, keyword, score, last_updated FROM preference_scores`)
	if err != nil {
		return nil, fmt.Errorf("%w: query scores: %v", ErrStorage, err)
	}
	defer rows.Close()

	scores := make(map[string]map[string]KeywordScore)
	for rows.Next() {
		var category string
		var ks KeywordScore
		var lastUpdated int64
		if err := rows.Scan(&category, &ks.Keyword, &ks.Score, &lastUpdated); err != nil {
			return nil, fmt.Errorf("%w: scan score: %v", ErrStorage, err)
		}
		ks.LastUpdated = time.UnixMilli(lastUpdated)
		if scores[category] == nil {
			scores[category] = make(map[string]KeywordScore)
		}
		scores[category][ks.Keyword] = ks
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate scores: %v", ErrStorage, err)
	}
	return scores, nil
}

// ReasonCounts returns occurrence counts per reason label.
func (s *LocalStore) ReasonCounts() (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT reason, count FROM feedback_reasons`)
	if err != nil {
		return nil, fmt.Errorf("%w: query reasons: %v", ErrStorage, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var reason string
		var count int
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, fmt.Errorf("%w: scan reason: %v", ErrStorage, err)
		}
		counts[reason] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate reasons: %v", ErrStorage, err)
	}
	return counts, nil
}

// TopReasons returns the n most frequent reason labels, most frequent
// first. Ties break alphabetically so the order is stable.
func (s *LocalStore) TopReasons(n int) ([]string, error) {
	counts, err := s.ReasonCounts()
	if err != nil {
		return nil, err
	}

	reasons := make([]string, 0, len(counts))
	for r := range counts {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if counts[reasons[i]] != counts[reasons[j]] {
			return counts[reasons[i]] > counts[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})

	if n > 0 && len(reasons) > n {
		reasons = reasons[:n]
	}
	return reasons, nil
}

// Counters returns the aggregate totals.
func (s *LocalStore) Counters() (Counters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT name, value FROM counters`)
	if err != nil {
		return Counters{}, fmt.Errorf("%w: query counters: %v", ErrStorage, err)
	}
	defer rows.Close()

	var c Counters
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return Counters{}, fmt.Errorf("%w: scan counter: %v", ErrStorage, err)
		}
		switch name {
		case CounterLikes:
			c.TotalLikes = value
		case CounterDislikes:
			c.TotalDislikes = value
		case CounterDeletes:
			c.TotalDeletes = value
		case CounterContributions:
			c.TotalContributions = value
		case CounterPoints:
			c.TotalPoints = value
		}
	}
	if err := rows.Err(); err != nil {
		return Counters{}, fmt.Errorf("%w: iterate counters: %v", ErrStorage, err)
	}
	return c, nil
}

// IncrementCounter adds to a named counter.
func (s *LocalStore) IncrementCounter(name string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	if err := incrementCounterTx(tx, name, delta); err != nil {
		return err
	}
	return tx.Commit()
}

func incrementCounterTx(tx *sql.Tx, name string, delta int) error {
	_, err := tx.Exec(`
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = value + excluded.value
	`, name, delta)
	if err != nil {
		return fmt.Errorf("%w: increment counter %q: %v", ErrStorage, name, err)
	}
	return nil
}
