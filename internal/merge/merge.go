// Package merge implements the three-way reconciliation of two graphs
// derived from a common base, per SPEC_FULL.md §4.5. Nodes and edges merge
// as atomic units identified by id; there is no field-level merging.
package merge

import "github.com/playbook-graph/versioning-core/internal/graph"

// Resolution lets a caller re-invoke Merge after reviewing a conflict,
// substituting the chosen side for that single node or edge.
type Resolution struct {
	NodeID     string `json:"nodeId,omitempty"`
	EdgeID     string `json:"edgeId,omitempty"`
	Resolution string `json:"resolution"` // "ours" | "theirs"
}

// Conflict records a single node/edge whose base/ours/theirs values could
// not be reconciled by the decision table without caller input. Ours/Theirs
// are absent on the delete side of a modify/delete conflict.
type Conflict struct {
	NodeID string `json:"nodeId,omitempty"`
	EdgeID string `json:"edgeId,omitempty"`
	Type   string `json:"type"` // "add" | "modify" | "delete"
	Ours   any    `json:"ours,omitempty"`
	Theirs any    `json:"theirs,omitempty"`
}

// Result is the output of Merge. MergedGraph is populated only when
// Success is true, i.e. when every node id and edge id in the union of
// base/ours/theirs resolved without an unresolved conflict.
type Result struct {
	Success     bool       `json:"success"`
	Conflicts   []Conflict `json:"conflicts"`
	MergedGraph *graph.Graph `json:"mergedGraph,omitempty"`
}

const (
	sideOurs   = "ours"
	sideTheirs = "theirs"
	sideBase   = "base"
)

// Merge reconciles ours and theirs against their common base. Conflicts
// that a resolution in resolutions addresses are resolved in place;
// everything else surfaces as a Conflict and blocks success. A resolution
// naming an id that has no conflict is a no-op (SPEC_FULL.md §9 open
// question (a)) — it simply goes unused.
func Merge(base, ours, theirs graph.Graph, resolutions []Resolution) Result {
	cache := newEntityCache()

	nodeRes := make(map[string]string, len(resolutions))
	edgeRes := make(map[string]string, len(resolutions))
	for _, r := range resolutions {
		if r.NodeID != "" {
			nodeRes[r.NodeID] = r.Resolution
		}
		if r.EdgeID != "" {
			edgeRes[r.EdgeID] = r.Resolution
		}
	}

	baseNodes, oursNodes, theirsNodes := nodeMap(base), nodeMap(ours), nodeMap(theirs)
	nodeIDs := unionKeys(baseNodes, oursNodes, theirsNodes)

	mergedNodes, nodeConflicts := mergeEntities(nodeIDs, baseNodes, oursNodes, theirsNodes,
		func(sideA string, a graph.Node, sideB string, b graph.Node) bool {
			return nodesEqual(cache, sideA, a, sideB, b)
		},
		lookup(nodeRes),
		func(id, typ string, o, t *graph.Node) Conflict {
			c := Conflict{NodeID: id, Type: typ}
			if o != nil {
				c.Ours = *o
			}
			if t != nil {
				c.Theirs = *t
			}
			return c
		},
	)

	baseEdges, oursEdges, theirsEdges := edgeMap(base), edgeMap(ours), edgeMap(theirs)
	edgeIDs := unionKeys(baseEdges, oursEdges, theirsEdges)

	mergedEdges, edgeConflicts := mergeEntities(edgeIDs, baseEdges, oursEdges, theirsEdges,
		func(sideA string, a graph.Edge, sideB string, b graph.Edge) bool {
			return edgesEqual(cache, sideA, a, sideB, b)
		},
		lookup(edgeRes),
		func(id, typ string, o, t *graph.Edge) Conflict {
			c := Conflict{EdgeID: id, Type: typ}
			if o != nil {
				c.Ours = *o
			}
			if t != nil {
				c.Theirs = *t
			}
			return c
		},
	)

	conflicts := append(nodeConflicts, edgeConflicts...)
	if len(conflicts) > 0 {
		return Result{Success: false, Conflicts: conflicts}
	}

	merged := graph.Graph{
		Nodes: orderNodes(base, ours, theirs, mergedNodes),
		Edges: orderEdges(base, ours, theirs, mergedEdges),
	}
	return Result{Success: true, Conflicts: nil, MergedGraph: &merged}
}

func lookup(m map[string]string) func(string) (string, bool) {
	return func(id string) (string, bool) {
		r, ok := m[id]
		return r, ok
	}
}

// mergeEntities applies the base/ours/theirs decision table (SPEC_FULL.md
// §4.5) to every id present in any of the three maps. equal must compare
// two values tagged by which side ("base"/"ours"/"theirs") they came from,
// so the canonical-encoding cache can key on (side, id).
func mergeEntities[T any](
	ids map[string]bool,
	base, ours, theirs map[string]T,
	equal func(sideA string, a T, sideB string, b T) bool,
	resolve func(id string) (string, bool),
	newConflict func(id, typ string, ours, theirs *T) Conflict,
) (map[string]T, []Conflict) {
	merged := make(map[string]T, len(ids))
	var conflicts []Conflict

	for id := range ids {
		b, bOK := base[id]
		o, oOK := ours[id]
		t, tOK := theirs[id]

		raiseConflict := func(typ string) {
			if res, ok := resolve(id); ok {
				switch res {
				case sideOurs:
					if oOK {
						merged[id] = o
					}
				case sideTheirs:
					if tOK {
						merged[id] = t
					}
				}
				return
			}
			conflicts = append(conflicts, newConflict(id, typ, ptrIf(oOK, o), ptrIf(tOK, t)))
		}

		switch {
		case !bOK && oOK && !tOK:
			merged[id] = o // added in ours
		case !bOK && !oOK && tOK:
			merged[id] = t // added in theirs
		case !bOK && oOK && tOK:
			if equal(sideOurs, o, sideTheirs, t) {
				merged[id] = o // identical add
			} else {
				raiseConflict("add")
			}
		case bOK && !oOK && !tOK:
			// deleted in both: drop
		case bOK && oOK && tOK:
			oChanged := !equal(sideOurs, o, sideBase, b)
			tChanged := !equal(sideTheirs, t, sideBase, b)
			switch {
			case !oChanged && !tChanged:
				merged[id] = b // unchanged
			case oChanged && !tChanged:
				merged[id] = o // only ours modified
			case !oChanged && tChanged:
				merged[id] = t // only theirs modified
			case equal(sideOurs, o, sideTheirs, t):
				merged[id] = o // same modification
			default:
				raiseConflict("modify")
			}
		case bOK && oOK && !tOK:
			if equal(sideOurs, o, sideBase, b) {
				// ours unchanged, theirs deleted: drop
			} else {
				raiseConflict("delete") // modify/delete
			}
		case bOK && !oOK && tOK:
			if equal(sideTheirs, t, sideBase, b) {
				// theirs unchanged, ours deleted: drop
			} else {
				raiseConflict("delete") // delete/modify
			}
		}
	}

	return merged, conflicts
}

func ptrIf[T any](ok bool, v T) *T {
	if !ok {
		return nil
	}
	return &v
}

func nodeMap(g graph.Graph) map[string]graph.Node {
	m := make(map[string]graph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		m[n.ID] = n
	}
	return m
}

func edgeMap(g graph.Graph) map[string]graph.Edge {
	m := make(map[string]graph.Edge, len(g.Edges))
	for _, e := range g.Edges {
		m[e.ID] = e
	}
	return m
}

func unionKeys[T any](maps ...map[string]T) map[string]bool {
	out := make(map[string]bool)
	for _, m := range maps {
		for k := range m {
			out[k] = true
		}
	}
	return out
}

// orderNodes/orderEdges give the merged graph a deterministic iteration
// order — base's order, then any ids ours introduced, then any ids theirs
// introduced — even though SPEC_FULL.md §8 Property 5 leaves array order
// unspecified.
func orderNodes(base, ours, theirs graph.Graph, merged map[string]graph.Node) []graph.Node {
	seen := make(map[string]bool, len(merged))
	out := make([]graph.Node, 0, len(merged))
	for _, g := range []graph.Graph{base, ours, theirs} {
		for _, n := range g.Nodes {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			if v, ok := merged[n.ID]; ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func orderEdges(base, ours, theirs graph.Graph, merged map[string]graph.Edge) []graph.Edge {
	seen := make(map[string]bool, len(merged))
	out := make([]graph.Edge, 0, len(merged))
	for _, g := range []graph.Graph{base, ours, theirs} {
		for _, e := range g.Edges {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			if v, ok := merged[e.ID]; ok {
				out = append(out, v)
			}
		}
	}
	return out
}
