package engine

import (
	"time"

	"promptpilot/internal/logging"
)

// StartSweep launches the background sweep: on every tick it retries
// queued failed mutations and applies time decay to the ledger.
// Independent of user action, per the fire-and-forget durability
// contract. Idempotent; Close stops it.
func (e *Engine) StartSweep() {
	e.sweepMu.Lock()
	defer e.sweepMu.Unlock()
	if e.sweepRunning || e.closed {
		return
	}
	e.sweepRunning = true
	go e.sweepLoop()
}

func (e *Engine) sweepLoop() {
	defer close(e.sweepDone)

	interval := e.cfg.GetSweepInterval()
	logging.Sweep("Sweep started (interval=%v)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopSweep:
			logging.Sweep("Sweep stopped")
			return
		case <-ticker.C:
			e.RunSweepOnce()
		}
	}
}

// RunSweepOnce performs one sweep pass synchronously: retry pending
// mutations, then decay. Exposed so hosts without a long-lived process
// (or tests) can drive the sweep themselves.
func (e *Engine) RunSweepOnce() {
	e.retryPending()

	if _, err := e.store.Decay(e.clock(), e.cfg.GetDecayInterval()); err != nil {
		logging.Get(logging.CategorySweep).Error("Decay failed: %v", err)
	}
}

// retryPending re-applies queued mutations. Successes drop off the
// queue; repeated failures are abandoned after max_retries and surfaced
// in the audit log as permanently failed.
func (e *Engine) retryPending() {
	e.pendingMu.Lock()
	pending := e.pending
	e.pending = nil
	e.pendingMu.Unlock()

	if len(pending) == 0 {
		return
	}

	logging.Sweep("Retrying %d pending mutations", len(pending))

	var remaining []pendingMutation
	for _, m := range pending {
		if err := e.store.ApplyClassification(m.classification, m.at); err != nil {
			m.attempts++
			if m.attempts >= e.cfg.Sweep.MaxRetries {
				logging.AuditError(logging.AuditErrorStorage, "pending mutation abandoned", err)
				logging.Get(logging.CategorySweep).Error(
					"Abandoning mutation after %d attempts: %v", m.attempts, err)
				continue
			}
			remaining = append(remaining, m)
			continue
		}
		logging.AuditLog(logging.AuditEvent{EventType: logging.AuditSweepRetry, Success: true})
	}

	if len(remaining) > 0 {
		e.pendingMu.Lock()
		e.pending = append(remaining, e.pending...)
		e.pendingMu.Unlock()
	}
}

// Close stops the sweep goroutine if it was started and waits for it to
// exit. The injected store handle stays open; its lifecycle belongs to
// the host. Idempotent.
func (e *Engine) Close() error {
	e.sweepMu.Lock()
	if e.closed {
		e.sweepMu.Unlock()
		return nil
	}
	e.closed = true
	running := e.sweepRunning
	e.sweepMu.Unlock()

	if running {
		close(e.stopSweep)
		<-e.sweepDone
	}
	return nil
}
