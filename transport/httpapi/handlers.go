package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/playbook-graph/versioning-core/internal/ancestor"
	"github.com/playbook-graph/versioning-core/internal/graph"
	"github.com/playbook-graph/versioning-core/internal/merge"
	"github.com/playbook-graph/versioning-core/internal/orchestrator"
)

// maxRequestBody limits request bodies to prevent abuse, matching the
// teacher's HandleExecuteWorkflow limit.
const maxRequestBody = 1 << 20 // 1MB

// HandleLinearToGraph converts a posted playbook's linear step list into its
// node/edge graph form.
func (s *Service) HandleLinearToGraph(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	var pb graph.Playbook
	if !decodeBody(w, r, rid, &pb) {
		return
	}
	writeJSON(w, http.StatusOK, graph.LinearToGraph(pb))
}

// HandleGraphToLinear converts a posted graph back into an ordered step
// list.
func (s *Service) HandleGraphToLinear(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	var g graph.Graph
	if !decodeBody(w, r, rid, &g) {
		return
	}
	writeJSON(w, http.StatusOK, graph.GraphToLinear(g))
}

// HandleValidate runs structural validation on a posted graph.
func (s *Service) HandleValidate(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	var g graph.Graph
	if !decodeBody(w, r, rid, &g) {
		return
	}
	writeJSON(w, http.StatusOK, graph.Validate(g))
}

// HandleNormalize canonicalizes a posted graph (drops orphans and dangling
// edges).
func (s *Service) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	var g graph.Graph
	if !decodeBody(w, r, rid, &g) {
		return
	}
	writeJSON(w, http.StatusOK, graph.Normalize(g))
}

// HandleCommonAncestor resolves the lowest common ancestor of two commits
// named by the "a" and "b" query parameters.
func (s *Service) HandleCommonAncestor(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)

	a, err := uuid.Parse(r.URL.Query().Get("a"))
	if err != nil {
		s.logger.Warn("invalid commit id a", "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_ID", "invalid commit id a", http.StatusBadRequest)
		return
	}
	b, err := uuid.Parse(r.URL.Query().Get("b"))
	if err != nil {
		s.logger.Warn("invalid commit id b", "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_ID", "invalid commit id b", http.StatusBadRequest)
		return
	}

	id, found, err := ancestor.FindCommonAncestor(r.Context(), s.store, a, b)
	if err != nil {
		s.logger.Error("failed to resolve common ancestor", "requestId", rid, "error", err)
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"commitId": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"commitId": id})
}

type mergeBranchesRequest struct {
	SourceBranchID string             `json:"sourceBranchId"`
	TargetBranchID string             `json:"targetBranchId"`
	UserID         string             `json:"userId"`
	Message        string             `json:"message"`
	Resolutions    []merge.Resolution `json:"resolutions"`
}

// HandleMergeBranches runs the full merge orchestration: fetch tips, resolve
// the common ancestor, merge, and append a commit on success.
func (s *Service) HandleMergeBranches(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var req mergeBranchesRequest
	if !decodeBody(w, r, rid, &req) {
		return
	}

	sourceID, err := uuid.Parse(req.SourceBranchID)
	if err != nil {
		writeErrorJSON(w, "INVALID_ID", "invalid sourceBranchId", http.StatusBadRequest)
		return
	}
	targetID, err := uuid.Parse(req.TargetBranchID)
	if err != nil {
		writeErrorJSON(w, "INVALID_ID", "invalid targetBranchId", http.StatusBadRequest)
		return
	}

	result, err := s.orch.MergeBranches(r.Context(), sourceID, targetID, req.UserID, req.Message, req.Resolutions)
	if err != nil {
		s.logger.Error("merge precondition failed", "requestId", rid, "error", err)
		switch {
		case errors.Is(err, orchestrator.ErrSourceBranchMissing),
			errors.Is(err, orchestrator.ErrTargetBranchMissing):
			writeErrorJSON(w, "BRANCH_NOT_FOUND", err.Error(), http.StatusNotFound)
		case errors.Is(err, orchestrator.ErrUnrelatedBranches):
			writeErrorJSON(w, "UNRELATED_BRANCHES", err.Error(), http.StatusConflict)
		case errors.Is(err, orchestrator.ErrAncestorMissing):
			writeErrorJSON(w, "ANCESTOR_MISSING", err.Error(), http.StatusInternalServerError)
		default:
			writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	// A conflict set is data, not an error (SPEC_FULL.md §7): it is always
	// returned as 200 with success=false.
	writeJSON(w, http.StatusOK, result)
}

func decodeBody(w http.ResponseWriter, r *http.Request, rid string, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorJSON(w, "INVALID_BODY", "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
