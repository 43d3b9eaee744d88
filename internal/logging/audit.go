// Package logging: audit logging for feedback and lineage events.
// Audit entries are structured JSON lines so the dashboard can explain
// why a keyword score moved or where a prompt version came from.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Feedback events
	AuditFeedbackRating   AuditEventType = "feedback_rating"
	AuditFeedbackReaction AuditEventType = "feedback_reaction"
	AuditFeedbackReject   AuditEventType = "feedback_reject"
	AuditFeedbackTrash    AuditEventType = "feedback_trash"
	AuditFeedbackCustom   AuditEventType = "feedback_custom"

	// Ledger events
	AuditLedgerDelta AuditEventType = "ledger_delta"
	AuditLedgerDecay AuditEventType = "ledger_decay"

	// Lineage events
	AuditLineageInsert AuditEventType = "lineage_insert"

	// Taste pack events
	AuditPackExport AuditEventType = "pack_export"
	AuditPackImport AuditEventType = "pack_import"

	// Sweep events
	AuditSweepRetry AuditEventType = "sweep_retry"

	// Error events
	AuditErrorStorage AuditEventType = "error_storage"
)

// AuditEvent represents a structured audit log entry.
type AuditEvent struct {
	Timestamp int64                  `json:"ts"`    // Unix milliseconds
	EventType AuditEventType         `json:"event"` // Event type
	Target    string                 `json:"target,omitempty"`
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
	Message   string                 `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// InitAudit initializes the audit logging system
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil // Already initialized
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file

	header := fmt.Sprintf("# Audit log started at %s\n", time.Now().Format(time.RFC3339))
	auditFile.WriteString(header)

	return nil
}

// CloseAudit closes the audit log file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// AuditLog writes an audit event. No-op when debug mode is off.
func AuditLog(event AuditEvent) {
	if !IsDebugMode() {
		return
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	auditFile.Write(data)
	auditFile.WriteString("\n")
}

// AuditFeedback records a classified feedback event and the deltas it produced.
func AuditFeedback(eventType AuditEventType, target string, deltaCount int) {
	AuditLog(AuditEvent{
		EventType: eventType,
		Target:    target,
		Success:   true,
		Fields:    map[string]interface{}{"deltas": deltaCount},
	})
}

// AuditError records a failed operation.
func AuditError(eventType AuditEventType, target string, err error) {
	AuditLog(AuditEvent{
		EventType: eventType,
		Target:    target,
		Success:   false,
		Error:     err.Error(),
	})
}
