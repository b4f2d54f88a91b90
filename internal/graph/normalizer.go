package graph

// Normalize canonicalizes a graph: it drops nodes absent from every edge
// (unless the graph has a single node or no edges at all, in which case it
// is returned untouched, so a freshly-authored, edge-less playbook
// survives — see SPEC_FULL.md §9 open question (b)), then drops any edge
// whose endpoints no longer reference a retained node. Dropping an edge can
// leave a retained node touched by no remaining edge, so the pruning is
// repeated until a pass drops no edge. It never repairs missing branch
// paths and never breaks a cycle; those remain the Validator's province.
//
// Normalize is idempotent: applying it twice yields the same result as
// applying it once, since the result has every node already touched and
// every edge already well-formed.
func Normalize(g Graph) Graph {
	if len(g.Nodes) < 2 || len(g.Edges) == 0 {
		return Graph{Nodes: append([]Node(nil), g.Nodes...), Edges: append([]Edge(nil), g.Edges...)}
	}

	touched := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		touched[e.Source] = true
		touched[e.Target] = true
	}

	retained := make(map[string]bool, len(g.Nodes))
	nodes := make([]Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if touched[n.ID] {
			retained[n.ID] = true
			nodes = append(nodes, n)
		}
	}

	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if retained[e.Source] && retained[e.Target] {
			edges = append(edges, e)
		}
	}

	if len(edges) < len(g.Edges) {
		return Normalize(Graph{Nodes: nodes, Edges: edges})
	}
	return Graph{Nodes: nodes, Edges: edges}
}
