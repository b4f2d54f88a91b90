package graph

import "testing"

func TestNormalize_DropsOrphansAndDanglingEdges(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "a", Type: NodeAgent},
			{ID: "b", Type: NodeAgent},
			{ID: "orphan", Type: NodeAgent},
		},
		Edges: []Edge{
			{ID: "a-b", Source: "a", Target: "b"},
			{ID: "a-ghost", Source: "a", Target: "ghost"},
		},
	}

	n := Normalize(g)

	if len(n.Nodes) != 2 {
		t.Fatalf("expected 2 nodes after normalize, got %d: %+v", len(n.Nodes), n.Nodes)
	}
	for _, node := range n.Nodes {
		if node.ID == "orphan" {
			t.Error("orphan node should have been dropped")
		}
	}
	if len(n.Edges) != 1 {
		t.Fatalf("expected 1 edge after normalize, got %d: %+v", len(n.Edges), n.Edges)
	}
}

func TestNormalize_SingleNodeSurvives(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "lonely", Type: NodeAgent}}}
	n := Normalize(g)
	if len(n.Nodes) != 1 {
		t.Fatalf("single unconnected node must survive normalize, got %d nodes", len(n.Nodes))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "a", Type: NodeAgent},
			{ID: "b", Type: NodeAgent},
			{ID: "orphan", Type: NodeAgent},
		},
		Edges: []Edge{
			{ID: "a-b", Source: "a", Target: "b"},
			{ID: "a-ghost", Source: "a", Target: "ghost"},
		},
	}

	once := Normalize(g)
	twice := Normalize(once)

	if len(once.Nodes) != len(twice.Nodes) || len(once.Edges) != len(twice.Edges) {
		t.Fatalf("normalize not idempotent: once=%+v twice=%+v", once, twice)
	}
}
