package commitstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pool operations the Postgres store uses. Satisfied by
// *pgxpool.Pool in production and pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Postgres implements Store against a commits/branches schema using jsonb
// columns for the embedded graph and playbook snapshots (SPEC_FULL.md §6).
type Postgres struct {
	db DB
}

func NewPostgres(db DB) (*Postgres, error) {
	if db == nil {
		return nil, fmt.Errorf("commitstore: db connection cannot be nil")
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) GetCommit(ctx context.Context, id uuid.UUID) (Commit, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return scanCommit(p.db.QueryRow(timeoutCtx, selectCommitByID, id))
}

func (p *Postgres) GetLatestCommit(ctx context.Context, branchID uuid.UUID) (Commit, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return scanCommit(p.db.QueryRow(timeoutCtx, selectLatestCommit, branchID))
}

func (p *Postgres) GetBranch(ctx context.Context, id uuid.UUID) (Branch, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b Branch
	err := p.db.QueryRow(timeoutCtx, `
        SELECT id, playbook_id, org_id, name
        FROM branches
        WHERE id = $1`, id).Scan(&b.ID, &b.PlaybookID, &b.OrgID, &b.Name)
	if err != nil {
		return Branch{}, wrapNoRows(err)
	}
	return b, nil
}

// AppendCommit runs under pgx.ReadCommitted, matching the teacher's write
// transactions: it reads the branch's current tip, computes the next
// version, and inserts the new commit row, all inside one transaction. The
// branch row is locked FOR UPDATE, so a concurrent appender to the same
// branch waits until this transaction ends and then reads the new tip.
func (p *Postgres) AppendCommit(ctx context.Context, in AppendInput) (Commit, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(timeoutCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return Commit{}, fmt.Errorf("commitstore: begin append transaction: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	var playbookID, orgID uuid.UUID
	err = tx.QueryRow(timeoutCtx, `
        SELECT playbook_id, org_id FROM branches WHERE id = $1 FOR UPDATE`,
		in.BranchID).Scan(&playbookID, &orgID)
	if err != nil {
		return Commit{}, wrapNoRows(err)
	}

	var parentID *uuid.UUID
	var prevVersion int
	err = tx.QueryRow(timeoutCtx, `
        SELECT id, version FROM commits
        WHERE branch_id = $1
        ORDER BY version DESC
        LIMIT 1`, in.BranchID).Scan(&parentID, &prevVersion)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		prevVersion = 0
	case err != nil:
		return Commit{}, fmt.Errorf("commitstore: read branch tip: %w", err)
	}

	graphJSON, err := json.Marshal(in.Graph)
	if err != nil {
		return Commit{}, fmt.Errorf("commitstore: marshal graph: %w", err)
	}
	playbookJSON, err := json.Marshal(in.PlaybookJSON)
	if err != nil {
		return Commit{}, fmt.Errorf("commitstore: marshal playbook: %w", err)
	}

	c := Commit{
		ID:                  uuid.New(),
		PlaybookID:          playbookID,
		OrgID:               orgID,
		BranchID:            in.BranchID,
		Version:             prevVersion + 1,
		Graph:               in.Graph,
		PlaybookJSON:        in.PlaybookJSON,
		Message:             in.Message,
		ParentCommitID:      parentID,
		MergeParentCommitID: in.MergeParentCommitID,
		CreatedBy:           in.CreatedBy,
	}

	err = tx.QueryRow(timeoutCtx, `
        INSERT INTO commits (
            id, playbook_id, org_id, branch_id, version, graph, playbook_json,
            message, parent_commit_id, merge_parent_commit_id, created_by, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
        RETURNING created_at`,
		c.ID, c.PlaybookID, c.OrgID, c.BranchID, c.Version, graphJSON, playbookJSON,
		c.Message, c.ParentCommitID, c.MergeParentCommitID, c.CreatedBy,
	).Scan(&c.CreatedAt)
	if err != nil {
		return Commit{}, fmt.Errorf("commitstore: insert commit: %w", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Commit{}, fmt.Errorf("commitstore: commit append transaction: %w", err)
	}
	return c, nil
}

const baseCommitColumns = `
    id, playbook_id, org_id, branch_id, version, graph, playbook_json,
    message, parent_commit_id, merge_parent_commit_id, created_by, created_at`

const selectCommitByID = `SELECT` + baseCommitColumns + ` FROM commits WHERE id = $1`

const selectLatestCommit = `SELECT` + baseCommitColumns + `
        FROM commits WHERE branch_id = $1
        ORDER BY version DESC LIMIT 1`

func scanCommit(row pgx.Row) (Commit, error) {
	var c Commit
	var graphJSON, playbookJSON []byte
	err := row.Scan(
		&c.ID, &c.PlaybookID, &c.OrgID, &c.BranchID, &c.Version,
		&graphJSON, &playbookJSON, &c.Message,
		&c.ParentCommitID, &c.MergeParentCommitID, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		return Commit{}, wrapNoRows(err)
	}
	if err := json.Unmarshal(graphJSON, &c.Graph); err != nil {
		return Commit{}, fmt.Errorf("commitstore: unmarshal graph column: %w", err)
	}
	if err := json.Unmarshal(playbookJSON, &c.PlaybookJSON); err != nil {
		return Commit{}, fmt.Errorf("commitstore: unmarshal playbook_json column: %w", err)
	}
	return c, nil
}

func wrapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
