package graph

import "testing"

func hasIssue(result ValidationResult, code string) bool {
	for _, it := range result.Issues {
		if it.Code == code {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		graph     Graph
		wantValid bool
		wantCode  string
	}{
		{
			name:      "empty graph",
			graph:     Graph{},
			wantValid: false,
			wantCode:  CodeEmptyGraph,
		},
		{
			name: "cyclic graph",
			graph: Graph{
				Nodes: []Node{{ID: "a", Type: NodeAgent}, {ID: "b", Type: NodeAgent}},
				Edges: []Edge{{ID: "a-b", Source: "a", Target: "b"}, {ID: "b-a", Source: "b", Target: "a"}},
			},
			wantValid: false,
			wantCode:  CodeCyclicGraph,
		},
		{
			name: "multiple entry points",
			graph: Graph{
				Nodes: []Node{{ID: "a", Type: NodeAgent}, {ID: "b", Type: NodeAgent}, {ID: "c", Type: NodeAgent}},
				Edges: []Edge{{ID: "a-c", Source: "a", Target: "c"}, {ID: "b-c", Source: "b", Target: "c"}},
			},
			wantValid: false,
			wantCode:  CodeMultipleEntryPoints,
		},
		{
			name: "duplicate keys",
			graph: Graph{
				Nodes: []Node{{ID: "a", Type: NodeAgent}, {ID: "a", Type: NodeAgent}},
			},
			wantValid: false,
			wantCode:  CodeDuplicateKeys,
		},
		{
			name: "invalid edges",
			graph: Graph{
				Nodes: []Node{{ID: "a", Type: NodeAgent}},
				Edges: []Edge{{ID: "a-z", Source: "a", Target: "z"}},
			},
			wantValid: false,
			wantCode:  CodeInvalidEdges,
		},
		{
			name: "orphaned node",
			graph: Graph{
				Nodes: []Node{{ID: "a", Type: NodeAgent}, {ID: "b", Type: NodeAgent}, {ID: "c", Type: NodeAgent}},
				Edges: []Edge{{ID: "a-b", Source: "a", Target: "b"}},
			},
			wantValid: false,
			wantCode:  CodeOrphanedNodes,
		},
		{
			name: "single unconnected node is valid",
			graph: Graph{
				Nodes: []Node{{ID: "a", Type: NodeAgent}},
			},
			wantValid: true,
		},
		{
			name: "incomplete branch is a warning only",
			graph: Graph{
				Nodes: []Node{{ID: "q", Type: NodeBranch}, {ID: "t", Type: NodeAgent}},
				Edges: []Edge{{ID: "q-true-t", Source: "q", Target: "t", Label: LabelTrue}},
			},
			wantValid: true,
			wantCode:  CodeIncompleteBranch,
		},
		{
			name: "clean linear chain",
			graph: Graph{
				Nodes: []Node{{ID: "a", Type: NodeAgent}, {ID: "b", Type: NodeAgent}},
				Edges: []Edge{{ID: "a-b", Source: "a", Target: "b"}},
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.graph)
			if result.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v (issues: %+v)", result.Valid, tt.wantValid, result.Issues)
			}
			if tt.wantCode != "" && !hasIssue(result, tt.wantCode) {
				t.Errorf("expected issue code %s, got %+v", tt.wantCode, result.Issues)
			}
			if result.Valid != (len(result.Errors) == 0) {
				t.Errorf("Errors length %d inconsistent with Valid=%v", len(result.Errors), result.Valid)
			}
		})
	}
}

func TestValidate_CycleInUnreachableComponent(t *testing.T) {
	// The cycle b<->c is a separate weakly-connected component from a.
	// Validate must still find it by restarting DFS from every
	// unvisited node, not just the entry point's component.
	g := Graph{
		Nodes: []Node{{ID: "a", Type: NodeAgent}, {ID: "b", Type: NodeAgent}, {ID: "c", Type: NodeAgent}},
		Edges: []Edge{{ID: "b-c", Source: "b", Target: "c"}, {ID: "c-b", Source: "c", Target: "b"}},
	}
	result := Validate(g)
	if !hasIssue(result, CodeCyclicGraph) {
		t.Errorf("expected CYCLIC_GRAPH, got %+v", result.Issues)
	}
}
