package commitstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/playbook-graph/versioning-core/internal/graph"
)

func TestMemory_AppendAndLatest(t *testing.T) {
	m := NewMemory()
	branch := Branch{ID: uuid.New(), PlaybookID: uuid.New(), OrgID: uuid.New(), Name: "main"}
	m.PutBranch(branch)

	ctx := context.Background()
	first, err := m.AppendCommit(ctx, AppendInput{
		BranchID: branch.ID,
		Graph:    graph.Graph{Nodes: []graph.Node{{ID: "a", Type: graph.NodeAgent}}},
		Message:  "init",
	})
	if err != nil {
		t.Fatalf("AppendCommit: %v", err)
	}
	if first.Version != 1 || first.ParentCommitID != nil {
		t.Fatalf("expected version 1 with no parent, got %+v", first)
	}

	second, err := m.AppendCommit(ctx, AppendInput{BranchID: branch.ID, Message: "second"})
	if err != nil {
		t.Fatalf("AppendCommit: %v", err)
	}
	if second.Version != 2 || second.ParentCommitID == nil || *second.ParentCommitID != first.ID {
		t.Fatalf("expected version 2 parented on first commit, got %+v", second)
	}

	tip, err := m.GetLatestCommit(ctx, branch.ID)
	if err != nil {
		t.Fatalf("GetLatestCommit: %v", err)
	}
	if tip.ID != second.ID {
		t.Errorf("expected tip to be second commit, got %+v", tip)
	}
}

func TestMemory_UnknownBranch(t *testing.T) {
	m := NewMemory()
	_, err := m.GetLatestCommit(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	_, err = m.AppendCommit(context.Background(), AppendInput{BranchID: uuid.New()})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound appending to unknown branch, got %v", err)
	}
}
