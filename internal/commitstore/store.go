package commitstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by GetCommit/GetLatestCommit/GetBranch when the
// requested row does not exist, mirroring how the reference adapter
// distinguishes pgx.ErrNoRows from other storage failures (SPEC_FULL.md §7).
var ErrNotFound = errors.New("commitstore: not found")

// Store is the contract the versioning core requires of persistent storage:
// read a commit by id, read the latest commit on a branch, and append a new
// commit. Appends are serialized per branch by the implementation; the core
// does not arbitrate concurrent writers.
type Store interface {
	GetCommit(ctx context.Context, id uuid.UUID) (Commit, error)
	GetLatestCommit(ctx context.Context, branchID uuid.UUID) (Commit, error)
	GetBranch(ctx context.Context, id uuid.UUID) (Branch, error)
	AppendCommit(ctx context.Context, in AppendInput) (Commit, error)
}
