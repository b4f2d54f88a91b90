// Package commitstore defines the persistence contract the versioning core
// consumes — reading commits and branch tips, and appending new commits —
// plus a PostgreSQL-backed implementation and an in-memory one for tests.
package commitstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/playbook-graph/versioning-core/internal/graph"
)

// Commit is an immutable snapshot on a branch. Graph and PlaybookJSON are
// embedded structured documents, not foreign keys to mutable rows.
type Commit struct {
	ID                   uuid.UUID    `json:"id" db:"id"`
	PlaybookID           uuid.UUID    `json:"playbookId" db:"playbook_id"`
	OrgID                uuid.UUID    `json:"orgId" db:"org_id"`
	BranchID             uuid.UUID    `json:"branchId" db:"branch_id"`
	Version              int          `json:"version" db:"version"`
	Graph                graph.Graph  `json:"graph" db:"graph"`
	PlaybookJSON         []graph.Step `json:"playbookJson" db:"playbook_json"`
	Message              string       `json:"message" db:"message"`
	ParentCommitID       *uuid.UUID   `json:"parentCommitId,omitempty" db:"parent_commit_id"`
	MergeParentCommitID  *uuid.UUID   `json:"mergeParentCommitId,omitempty" db:"merge_parent_commit_id"`
	CreatedBy            string       `json:"createdBy" db:"created_by"`
	CreatedAt            time.Time    `json:"createdAt" db:"created_at"`
}

// Branch is a named pointer into a playbook's commit history. The core only
// needs the latest commit on a branch; id/playbookId/orgId identify it.
type Branch struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PlaybookID uuid.UUID `json:"playbookId" db:"playbook_id"`
	OrgID      uuid.UUID `json:"orgId" db:"org_id"`
	Name       string    `json:"name" db:"name"`
}

// AppendInput is what a caller supplies to append a new commit; the store
// assigns ID, Version, and ParentCommitID.
type AppendInput struct {
	BranchID            uuid.UUID
	Graph               graph.Graph
	PlaybookJSON        []graph.Step
	Message             string
	CreatedBy           string
	MergeParentCommitID *uuid.UUID
}
