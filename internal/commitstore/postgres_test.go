package commitstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

var (
	testCommitID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testBranchID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testNow      = time.Now()
)

func TestPostgres_GetCommit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs(testCommitID).
		WillReturnRows(
			pgxmock.NewRows([]string{
				"id", "playbook_id", "org_id", "branch_id", "version", "graph", "playbook_json",
				"message", "parent_commit_id", "merge_parent_commit_id", "created_by", "created_at",
			}).AddRow(
				testCommitID, uuid.New(), uuid.New(), testBranchID, 1,
				[]byte(`{"nodes":[],"edges":[]}`), []byte(`[]`),
				"initial commit", nil, nil, "alice", testNow,
			),
		)

	store, err := NewPostgres(mock)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}

	c, err := store.GetCommit(context.Background(), testCommitID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != testCommitID || c.Version != 1 || c.Message != "initial commit" {
		t.Errorf("unexpected commit: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}

func TestPostgres_GetCommit_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs(testCommitID).
		WillReturnError(pgx.ErrNoRows)

	store, _ := NewPostgres(mock)
	_, err = store.GetCommit(context.Background(), testCommitID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_AppendCommit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	playbookID, orgID := uuid.New(), uuid.New()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT playbook_id, org_id FROM branches").
		WithArgs(testBranchID).
		WillReturnRows(pgxmock.NewRows([]string{"playbook_id", "org_id"}).AddRow(playbookID, orgID))
	mock.ExpectQuery("SELECT id, version FROM commits").
		WithArgs(testBranchID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO commits").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(testNow))
	mock.ExpectCommit()

	store, _ := NewPostgres(mock)
	c, err := store.AppendCommit(context.Background(), AppendInput{
		BranchID:  testBranchID,
		Message:   "first",
		CreatedBy: "bob",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Version != 1 || c.ParentCommitID != nil {
		t.Errorf("expected first commit at version 1 with no parent, got %+v", c)
	}
	if c.PlaybookID != playbookID || c.OrgID != orgID {
		t.Errorf("expected commit to inherit branch's playbook/org id, got %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}

func TestPostgres_AppendCommit_BranchNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT playbook_id, org_id FROM branches").
		WithArgs(testBranchID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	store, _ := NewPostgres(mock)
	_, err = store.AppendCommit(context.Background(), AppendInput{BranchID: testBranchID})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
