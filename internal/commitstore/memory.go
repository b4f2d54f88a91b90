package commitstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by the ancestor, orchestrator and HTTP
// transport tests, avoiding a live database. Appends are
// serialized by mu, mirroring the per-branch append ordering the Postgres
// adapter enforces with a row lock.
type Memory struct {
	mu       sync.Mutex
	commits  map[uuid.UUID]Commit
	branches map[uuid.UUID]Branch
	tips     map[uuid.UUID]uuid.UUID // branchID -> latest commit id
}

func NewMemory() *Memory {
	return &Memory{
		commits:  make(map[uuid.UUID]Commit),
		branches: make(map[uuid.UUID]Branch),
		tips:     make(map[uuid.UUID]uuid.UUID),
	}
}

// PutBranch registers a branch so AppendCommit/GetBranch can find it. Tests
// set up branches this way instead of going through a schema migration.
func (m *Memory) PutBranch(b Branch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches[b.ID] = b
}

// ForkBranch points branchID's tip at an existing commit, the in-memory
// equivalent of creating a branch from another branch's current position.
// Real branch creation happens above this package, at the service layer
// that owns branches (SPEC_FULL.md §3 "Lifecycles"); this exists purely so
// orchestrator tests can construct two branches with a genuine shared
// ancestor instead of two look-alike root commits.
func (m *Memory) ForkBranch(branchID, atCommit uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tips[branchID] = atCommit
}

func (m *Memory) GetCommit(_ context.Context, id uuid.UUID) (Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.commits[id]
	if !ok {
		return Commit{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) GetLatestCommit(_ context.Context, branchID uuid.UUID) (Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tip, ok := m.tips[branchID]
	if !ok {
		return Commit{}, ErrNotFound
	}
	return m.commits[tip], nil
}

func (m *Memory) GetBranch(_ context.Context, id uuid.UUID) (Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.branches[id]
	if !ok {
		return Branch{}, ErrNotFound
	}
	return b, nil
}

func (m *Memory) AppendCommit(_ context.Context, in AppendInput) (Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	branch, ok := m.branches[in.BranchID]
	if !ok {
		return Commit{}, ErrNotFound
	}

	version := 1
	var parent *uuid.UUID
	if tip, ok := m.tips[in.BranchID]; ok {
		prev := m.commits[tip]
		version = prev.Version + 1
		p := prev.ID
		parent = &p
	}

	c := Commit{
		ID:                  uuid.New(),
		PlaybookID:          branch.PlaybookID,
		OrgID:               branch.OrgID,
		BranchID:            in.BranchID,
		Version:             version,
		Graph:               in.Graph,
		PlaybookJSON:        in.PlaybookJSON,
		Message:             in.Message,
		ParentCommitID:      parent,
		MergeParentCommitID: in.MergeParentCommitID,
		CreatedBy:           in.CreatedBy,
		CreatedAt:           time.Now(),
	}
	m.commits[c.ID] = c
	m.tips[in.BranchID] = c.ID
	return c, nil
}
