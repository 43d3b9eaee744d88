// Package engine is the facade the extension host talks to: it wires
// the feedback classifier to the preference ledger, maintains the
// lineage graph, derives contributor stats, and runs the background
// sweep that retries failed persists and applies time decay.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"promptpilot/internal/config"
	"promptpilot/internal/feedback"
	"promptpilot/internal/keyword"
	"promptpilot/internal/logging"
	"promptpilot/internal/store"
)

// pointsPerLineageInsert is awarded for every accepted optimization.
const pointsPerLineageInsert = 5

// pendingMutation is a classified feedback event that failed to persist
// and is waiting for the sweep to retry it.
type pendingMutation struct {
	classification feedback.Classification
	at             time.Time
	attempts       int
}

// Engine composes the core components around an injected store handle
// and clock. The host controls its lifecycle: construct, optionally
// StartSweep, Close on shutdown.
type Engine struct {
	cfg   *config.Config
	user  *config.UserConfig
	store *store.LocalStore
	clock func() time.Time

	pendingMu sync.Mutex
	pending   []pendingMutation

	sweepMu      sync.Mutex
	sweepRunning bool
	closed       bool
	stopSweep    chan struct{}
	sweepDone    chan struct{}
}

// New creates an engine over an injected store handle. A nil clock
// defaults to time.Now; a nil user config defaults to empty.
func New(cfg *config.Config, st *store.LocalStore, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		cfg:       cfg,
		user:      &config.UserConfig{},
		store:     st,
		clock:     clock,
		stopSweep: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
}

// WithUserConfig attaches the user config (consent flag, expertise tags).
func (e *Engine) WithUserConfig(user *config.UserConfig) *Engine {
	if user != nil {
		e.user = user
	}
	return e
}

// RecordFeedback classifies a feedback event and applies it to the
// ledger in one transaction. On a storage failure the mutation is
// queued for the sweep to retry and the error is surfaced to the
// caller as a failed action.
func (e *Engine) RecordFeedback(ev feedback.Event) error {
	timer := logging.StartTimer(logging.CategoryEngine, "RecordFeedback")
	defer timer.Stop()

	if ev == nil {
		logging.EngineDebug("Ignoring nil feedback event")
		return nil
	}

	c := feedback.Classify(ev)
	now := e.clock()

	if err := e.store.ApplyClassification(c, now); err != nil {
		if errors.Is(err, store.ErrStorage) {
			e.enqueuePending(c, now)
			logging.AuditError(logging.AuditErrorStorage, string(ev.Kind()), err)
		}
		return fmt.Errorf("record feedback: %w", err)
	}

	logging.AuditFeedback(auditTypeFor(ev.Kind()), string(ev.Kind()), len(c.Deltas))
	return nil
}

// AddLineageNode appends an accepted optimization to the lineage forest
// and awards contribution points. Fails with store.ErrNotFound when the
// parent does not resolve, leaving the graph unchanged.
func (e *Engine) AddLineageNode(content, platform, parentID, mode string) (*store.LineageNode, error) {
	node, err := e.store.AddLineageNode(content, platform, parentID, mode, e.clock())
	if err != nil {
		return nil, err
	}

	// Points are best-effort bookkeeping; the insert itself stands.
	if err := e.store.IncrementCounter(store.CounterPoints, pointsPerLineageInsert); err != nil {
		logging.Get(logging.CategoryEngine).Warn("Failed to award lineage points: %v", err)
	}

	logging.AuditLog(logging.AuditEvent{
		EventType: logging.AuditLineageInsert,
		Target:    node.ID,
		Success:   true,
		Fields:    map[string]interface{}{"platform": platform, "mode": mode, "parent": parentID},
	})
	return node, nil
}

// GetLineage returns the ancestor chain from the root to the given
// node, inclusive.
func (e *Engine) GetLineage(nodeID string) ([]store.LineageNode, error) {
	return e.store.AncestorChain(nodeID)
}

// GetChildren returns a node's direct children.
func (e *Engine) GetChildren(nodeID string) ([]store.LineageNode, error) {
	return e.store.Children(nodeID)
}

// SimilarTo scores candidates by keyword similarity to content,
// returning those with a Jaccard index at or above minSimilarity.
func (e *Engine) SimilarTo(content string, candidates []string, minSimilarity float64) []string {
	var similar []string
	for _, c := range candidates {
		if keyword.Similarity(content, c) >= minSimilarity {
			similar = append(similar, c)
		}
	}
	return similar
}

// enqueuePending stores a failed mutation for retry.
func (e *Engine) enqueuePending(c feedback.Classification, at time.Time) {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	e.pending = append(e.pending, pendingMutation{classification: c, at: at})
	logging.Sweep("Queued failed mutation for retry (%d pending)", len(e.pending))
}

// PendingCount reports how many failed mutations await retry.
func (e *Engine) PendingCount() int {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	return len(e.pending)
}

func auditTypeFor(kind feedback.EventKind) logging.AuditEventType {
	switch kind {
	case feedback.KindRating:
		return logging.AuditFeedbackRating
	case feedback.KindReaction:
		return logging.AuditFeedbackReaction
	case feedback.KindRejection:
		return logging.AuditFeedbackReject
	case feedback.KindTrash:
		return logging.AuditFeedbackTrash
	default:
		return logging.AuditFeedbackCustom
	}
}
