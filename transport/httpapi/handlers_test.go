package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/playbook-graph/versioning-core/internal/commitstore"
	"github.com/playbook-graph/versioning-core/internal/orchestrator"
)

func newTestRouter(t *testing.T) (*mux.Router, *commitstore.Memory) {
	t.Helper()
	store := commitstore.NewMemory()
	orch := orchestrator.New(store, nil)
	svc := NewService(orch, store, nil)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	svc.LoadRoutes(api)
	return router, store
}

func TestHandleLinearToGraph(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"steps":[
		{"key":"a","name":"A","type":"AGENT","nextStepKey":"b"},
		{"key":"b","name":"B","type":"AGENT"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playbooks/linear-to-graph", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Errorf("expected 2 nodes and 1 edge, got %d nodes, %d edges", len(got.Nodes), len(got.Edges))
	}
}

func TestHandleValidate_InvalidBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/playbooks/validate", bytes.NewBufferString("not-json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCommonAncestor_InvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/branches/common-ancestor?a=not-a-uuid&b=also-not", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleMergeBranches_MissingBranch(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(mergeBranchesRequest{
		SourceBranchID: uuid.New().String(),
		TargetBranchID: uuid.New().String(),
		UserID:         "alice",
		Message:        "merge",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/branches/merge", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing branches, got %d: %s", rec.Code, rec.Body.String())
	}
}
