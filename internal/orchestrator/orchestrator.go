// Package orchestrator implements mergeBranches, the one stateful operation
// of the versioning core: fetch two branch tips, resolve their common
// ancestor, run the pure three-way merge, and append the result as a new
// commit on the target branch (SPEC_FULL.md §4.6, §9 "Orchestration as a
// pipeline").
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/playbook-graph/versioning-core/internal/ancestor"
	"github.com/playbook-graph/versioning-core/internal/commitstore"
	"github.com/playbook-graph/versioning-core/internal/graph"
	"github.com/playbook-graph/versioning-core/internal/merge"
)

// Sentinel precondition errors (SPEC_FULL.md §7 item 5), comparable with
// errors.Is the way the reference store adapter distinguishes pgx.ErrNoRows
// from other failures.
var (
	ErrSourceBranchMissing = errors.New("orchestrator: source branch has no commits")
	ErrTargetBranchMissing = errors.New("orchestrator: target branch has no commits")
	ErrUnrelatedBranches   = errors.New("orchestrator: branches share no common ancestor")
	ErrAncestorMissing     = errors.New("orchestrator: common ancestor commit missing from store")
)

// MergeResult mirrors merge.Result plus the commit that was appended on
// success.
type MergeResult struct {
	Success       bool             `json:"success"`
	Conflicts     []merge.Conflict `json:"conflicts"`
	MergedGraph   *graph.Graph     `json:"mergedGraph,omitempty"`
	MergeCommitID *uuid.UUID       `json:"mergeCommitId,omitempty"`
}

// Orchestrator wires the pure Core (ancestor resolution, three-way merge)
// to a commitstore.Store.
type Orchestrator struct {
	Store  commitstore.Store
	Logger *slog.Logger
}

func New(store commitstore.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{Store: store, Logger: logger}
}

// MergeBranches fetches the two branch tips concurrently, resolves their
// common ancestor, runs the pure merge, and appends a merge commit to the
// target branch on success. Cancellation via ctx aborts outstanding store
// calls and returns without any partial commit.
func (o *Orchestrator) MergeBranches(
	ctx context.Context,
	sourceBranchID, targetBranchID uuid.UUID,
	userID, message string,
	resolutions []merge.Resolution,
) (MergeResult, error) {
	var sourceTip, targetTip commitstore.Commit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := o.Store.GetLatestCommit(gctx, sourceBranchID)
		if err != nil {
			if errors.Is(err, commitstore.ErrNotFound) {
				return ErrSourceBranchMissing
			}
			return fmt.Errorf("fetch source tip: %w", err)
		}
		sourceTip = c
		return nil
	})
	g.Go(func() error {
		c, err := o.Store.GetLatestCommit(gctx, targetBranchID)
		if err != nil {
			if errors.Is(err, commitstore.ErrNotFound) {
				return ErrTargetBranchMissing
			}
			return fmt.Errorf("fetch target tip: %w", err)
		}
		targetTip = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return MergeResult{}, err
	}

	ancestorID, found, err := ancestor.FindCommonAncestor(ctx, o.Store, sourceTip.ID, targetTip.ID)
	if err != nil {
		return MergeResult{}, fmt.Errorf("resolve common ancestor: %w", err)
	}
	if !found {
		return MergeResult{}, ErrUnrelatedBranches
	}

	baseCommit, err := o.Store.GetCommit(ctx, ancestorID)
	if err != nil {
		if errors.Is(err, commitstore.ErrNotFound) {
			return MergeResult{}, ErrAncestorMissing
		}
		return MergeResult{}, fmt.Errorf("load ancestor commit: %w", err)
	}

	result := merge.Merge(baseCommit.Graph, targetTip.Graph, sourceTip.Graph, resolutions)
	if !result.Success {
		o.Logger.DebugContext(ctx, "merge produced unresolved conflicts",
			"sourceBranchId", sourceBranchID, "targetBranchId", targetBranchID,
			"conflictCount", len(result.Conflicts))
		return MergeResult{Success: false, Conflicts: result.Conflicts}, nil
	}

	normalized := graph.Normalize(*result.MergedGraph)
	playbook := graph.GraphToLinear(normalized)

	mergeParent := sourceTip.ID
	commit, err := o.Store.AppendCommit(ctx, commitstore.AppendInput{
		BranchID:            targetBranchID,
		Graph:               normalized,
		PlaybookJSON:        playbook,
		Message:             message,
		CreatedBy:           userID,
		MergeParentCommitID: &mergeParent,
	})
	if err != nil {
		return MergeResult{}, fmt.Errorf("append merge commit: %w", err)
	}

	o.Logger.InfoContext(ctx, "merged branches",
		"sourceBranchId", sourceBranchID, "targetBranchId", targetBranchID,
		"mergeCommitId", commit.ID)

	return MergeResult{
		Success:       true,
		MergedGraph:   &normalized,
		MergeCommitID: &commit.ID,
	}, nil
}
