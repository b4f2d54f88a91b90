// Package ancestor walks first-parent commit chains to find the lowest
// common ancestor of two commits, per SPEC_FULL.md §4.4.
package ancestor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/playbook-graph/versioning-core/internal/commitstore"
)

// maxChainDepth bounds the walk defensively. Commits form a DAG by
// construction (the store assigns parentCommitId monotonically), but the
// walk guards against a corrupted store introducing a cycle.
const maxChainDepth = 10000

// reader is the slice of commitstore.Store the resolver needs; it never
// appends.
type reader interface {
	GetCommit(ctx context.Context, id uuid.UUID) (commitstore.Commit, error)
}

// FindCommonAncestor returns the first commit id in a's first-parent chain
// that also appears in b's first-parent chain, or false if the two commits
// share no ancestor. The merge-parent pointer is never followed: a merge
// commit's source-side lineage is a tag, not a re-walkable edge.
func FindCommonAncestor(ctx context.Context, store reader, a, b uuid.UUID) (uuid.UUID, bool, error) {
	var chainA, chainB []uuid.UUID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chainA, err = chain(gctx, store, a)
		if err != nil {
			return fmt.Errorf("ancestor: walk chain for %s: %w", a, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		chainB, err = chain(gctx, store, b)
		if err != nil {
			return fmt.Errorf("ancestor: walk chain for %s: %w", b, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return uuid.Nil, false, err
	}

	inB := make(map[uuid.UUID]bool, len(chainB))
	for _, id := range chainB {
		inB[id] = true
	}
	for _, id := range chainA {
		if inB[id] {
			return id, true, nil
		}
	}
	return uuid.Nil, false, nil
}

// chain returns [id, parent(id), parent(parent(id)), ...], following only
// ParentCommitID.
func chain(ctx context.Context, store reader, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	cur := id
	for i := 0; ; i++ {
		if i >= maxChainDepth {
			return nil, fmt.Errorf("exceeded max chain depth %d starting at %s", maxChainDepth, id)
		}
		c, err := store.GetCommit(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("load commit %s: %w", cur, err)
		}
		ids = append(ids, c.ID)
		if c.ParentCommitID == nil {
			return ids, nil
		}
		cur = *c.ParentCommitID
	}
}
