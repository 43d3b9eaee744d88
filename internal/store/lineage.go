package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"promptpilot/internal/logging"
)

// LineageNode is one immutable version of a prompt in its edit history.
// A node with an empty ParentID is a root. Edits produce new nodes,
// never mutate existing ones.
type LineageNode struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Platform  string    `json:"platform"`
	ParentID  string    `json:"parent_id,omitempty"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// AddLineageNode inserts a new prompt version under parentID. Pass an
// empty parentID to start a new root. Fails with ErrNotFound if a
// non-empty parentID does not resolve, leaving the graph unchanged.
// The parent check and the insert share one transaction, so a parent
// cannot disappear between them and cycles are impossible by
// construction: a parent reference is set exactly once, at creation,
// and only to a previously-created node.
func (s *LocalStore) AddLineageNode(content, platform, parentID, mode string, now time.Time) (*LineageNode, error) {
	timer := logging.StartTimer(logging.CategoryStore, "AddLineageNode")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	if parentID != "" {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM lineage_nodes WHERE id = ?`, parentID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lineage parent %s: %w", parentID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parent lookup: %v", ErrStorage, err)
		}
	}

	node := &LineageNode{
		ID:        uuid.NewString(),
		Content:   content,
		Platform:  platform,
		ParentID:  parentID,
		Mode:      mode,
		CreatedAt: now,
	}

	_, err = tx.Exec(`
		INSERT INTO lineage_nodes (id, content, platform, parent_id, mode, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, node.ID, node.Content, node.Platform, nullable(node.ParentID), node.Mode, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("%w: insert node: %v", ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrStorage, err)
	}

	logging.LineageDebug("Inserted lineage node %s (parent=%q, platform=%s, mode=%s)",
		node.ID, parentID, platform, mode)
	return node, nil
}

// LineageNodeByID retrieves a single node.
func (s *LocalStore) LineageNodeByID(id string) (*LineageNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lineageNodeLocked(id)
}

// lineageNodeLocked assumes the caller holds at least s.mu.RLock().
func (s *LocalStore) lineageNodeLocked(id string) (*LineageNode, error) {
	var node LineageNode
	var parentID sql.NullString
	var createdAt int64

	err := s.db.QueryRow(`
		SELECT id, content, platform, parent_id, mode, created_at
		FROM lineage_nodes WHERE id = ?
	`, id).Scan(&node.ID, &node.Content, &node.Platform, &parentID, &node.Mode, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lineage node %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: node lookup: %v", ErrStorage, err)
	}

	node.ParentID = parentID.String
	node.CreatedAt = time.UnixMilli(createdAt)
	return &node, nil
}

// AncestorChain returns the path from the root to the given node,
// inclusive. O(depth): each hop is one primary-key lookup on the
// parent back-reference. Terminates because parent references only
// point to previously-created nodes.
func (s *LocalStore) AncestorChain(id string) ([]LineageNode, error) {
	timer := logging.StartTimer(logging.CategoryStore, "AncestorChain")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []LineageNode
	current := id
	for current != "" {
		node, err := s.lineageNodeLocked(current)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *node)
		current = node.ParentID
	}

	// Built leaf-first; reverse to root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	logging.LineageDebug("Ancestor chain for %s: depth %d", id, len(chain))
	return chain, nil
}

// Children returns the direct children of a node, oldest first.
// Fails with ErrNotFound if the node does not exist.
func (s *LocalStore) Children(id string) ([]LineageNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.lineageNodeLocked(id); err != nil {
		return nil, err
	}

	return s.queryLineageLocked(`
		SELECT id, content, platform, parent_id, mode, created_at
		FROM lineage_nodes WHERE parent_id = ? ORDER BY created_at ASC, id ASC
	`, id)
}

// BranchCount returns the number of direct children of a node.
func (s *LocalStore) BranchCount(id string) (int, error) {
	children, err := s.Children(id)
	if err != nil {
		return 0, err
	}
	return len(children), nil
}

// ListRoots returns all root nodes, oldest first.
func (s *LocalStore) ListRoots() ([]LineageNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryLineageLocked(`
		SELECT id, content, platform, parent_id, mode, created_at
		FROM lineage_nodes WHERE parent_id IS NULL ORDER BY created_at ASC, id ASC
	`)
}

// queryLineageLocked assumes the caller holds at least s.mu.RLock().
func (s *LocalStore) queryLineageLocked(query string, args ...interface{}) ([]LineageNode, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: lineage query: %v", ErrStorage, err)
	}
	defer rows.Close()

	var nodes []LineageNode
	for rows.Next() {
		var node LineageNode
		var parentID sql.NullString
		var createdAt int64
		if err := rows.Scan(&node.ID, &node.Content, &node.Platform, &parentID, &node.Mode, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan lineage row: %v", ErrStorage, err)
		}
		node.ParentID = parentID.String
		node.CreatedAt = time.UnixMilli(createdAt)
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate lineage rows: %v", ErrStorage, err)
	}
	return nodes, nil
}

// nullable maps an empty string to SQL NULL so roots are stored with a
// NULL parent rather than an empty-string ghost reference.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
