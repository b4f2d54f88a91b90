package merge

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"

	"github.com/playbook-graph/versioning-core/internal/graph"
)

// canonicalNode and canonicalEdge are the fields that participate in merge
// equality. Position is deliberately excluded — SPEC_FULL.md §9 open
// question (c) treats canvas repositioning as cosmetic, not a real change.
// encoding/json already sorts map[string]any keys lexicographically, which
// is what gives the opaque Config payload a canonical byte form regardless
// of how the store round-tripped its key order.
type canonicalNode struct {
	ID     string         `json:"id"`
	Type   graph.NodeType `json:"type"`
	Label  string         `json:"label"`
	Config map[string]any `json:"config,omitempty"`
}

type canonicalEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// entityCache memoizes the canonical byte form of a node/edge so that an
// entity compared against more than one of base/ours/theirs is
// canonicalized only once, per SPEC_FULL.md §5's resource policy. The
// xxhash of those bytes is not cached; it is computed on each comparison.
type entityCache struct {
	nodes map[string][]byte
	edges map[string][]byte
}

func newEntityCache() *entityCache {
	return &entityCache{nodes: make(map[string][]byte), edges: make(map[string][]byte)}
}

// cacheKey distinguishes otherwise-identical ids across base/ours/theirs.
func cacheKey(side, id string) string { return side + ":" + id }

func (c *entityCache) nodeBytes(side string, n graph.Node) []byte {
	key := cacheKey(side, n.ID)
	if b, ok := c.nodes[key]; ok {
		return b
	}
	b, err := json.Marshal(canonicalNode{ID: n.ID, Type: n.Type, Label: n.Data.Label, Config: n.Data.Config})
	if err != nil {
		// Config is always JSON-shaped opaque data decoded from a JSON
		// document upstream; a marshal failure here indicates a
		// programmer-visible invariant violation, not a runtime condition.
		panic("merge: node config is not JSON-marshalable: " + err.Error())
	}
	c.nodes[key] = b
	return b
}

func (c *entityCache) edgeBytes(side string, e graph.Edge) []byte {
	key := cacheKey(side, e.ID)
	if b, ok := c.edges[key]; ok {
		return b
	}
	b, err := json.Marshal(canonicalEdge{ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label})
	if err != nil {
		panic("merge: edge is not JSON-marshalable: " + err.Error())
	}
	c.edges[key] = b
	return b
}

// nodesEqual and edgesEqual compare canonical byte forms. A cheap xxhash
// comparison short-circuits the common "definitely different" case before
// falling back to the full byte comparison that guards against the
// astronomically unlikely hash collision.
func nodesEqual(c *entityCache, sideA string, a graph.Node, sideB string, b graph.Node) bool {
	ba := c.nodeBytes(sideA, a)
	bb := c.nodeBytes(sideB, b)
	if xxhash.Sum64(ba) != xxhash.Sum64(bb) {
		return false
	}
	return string(ba) == string(bb)
}

func edgesEqual(c *entityCache, sideA string, a graph.Edge, sideB string, b graph.Edge) bool {
	ba := c.edgeBytes(sideA, a)
	bb := c.edgeBytes(sideB, b)
	if xxhash.Sum64(ba) != xxhash.Sum64(bb) {
		return false
	}
	return string(ba) == string(bb)
}
