package graph

import "fmt"

// layout constants for the cosmetic 3-column grid the mapper lays new
// nodes out on. Purely a default for first-time authoring; invariants
// never depend on these values.
const (
	gridColumns  = 3
	gridColSpanX = 300
	gridRowSpanY = 200
	gridOriginX  = 100
	gridOriginY  = 100
)

// LinearToGraph translates an ordered step list into its node/edge graph
// form. Each step becomes one node at its grid position; nextStepKey and
// (for BRANCH steps) config.trueStep/config.falseStep become edges.
func LinearToGraph(pb Playbook) Graph {
	g := Graph{
		Nodes: make([]Node, 0, len(pb.Steps)),
		Edges: make([]Edge, 0, len(pb.Steps)),
	}

	for i, step := range pb.Steps {
		col := i % gridColumns
		row := i / gridColumns
		g.Nodes = append(g.Nodes, Node{
			ID:   step.Key,
			Type: step.Type,
			Position: Position{
				X: float64(gridOriginX + col*gridColSpanX),
				Y: float64(gridOriginY + row*gridRowSpanY),
			},
			Data: NodeData{
				Label:  step.Name,
				Config: step.Config,
			},
		})

		if step.NextStepKey != "" {
			g.Edges = append(g.Edges, Edge{
				ID:     fmt.Sprintf("%s-%s", step.Key, step.NextStepKey),
				Source: step.Key,
				Target: step.NextStepKey,
			})
		}

		if step.Type == NodeBranch {
			if t, ok := stringField(step.Config, "trueStep"); ok {
				g.Edges = append(g.Edges, Edge{
					ID:     fmt.Sprintf("%s-true-%s", step.Key, t),
					Source: step.Key,
					Target: t,
					Label:  LabelTrue,
				})
			}
			if f, ok := stringField(step.Config, "falseStep"); ok {
				g.Edges = append(g.Edges, Edge{
					ID:     fmt.Sprintf("%s-false-%s", step.Key, f),
					Source: step.Key,
					Target: f,
					Label:  LabelFalse,
				})
			}
		}
	}

	return g
}

// GraphToLinear is the inverse of LinearToGraph: it produces an ordered
// step list from a node/edge graph, preserving node order as authoring
// order. BRANCH nodes fold their true/false edges back into
// config.trueStep/config.falseStep; other nodes fold their single
// outgoing edge back into nextStepKey.
func GraphToLinear(g Graph) []Step {
	adjacency := make(map[string][]Edge, len(g.Nodes))
	for _, e := range g.Edges {
		adjacency[e.Source] = append(adjacency[e.Source], e)
	}

	steps := make([]Step, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		step := Step{
			Key:      n.ID,
			Name:     n.Data.Label,
			Type:     n.Type,
			Position: i,
		}

		outgoing := adjacency[n.ID]

		if n.Type == NodeBranch {
			cfg := copyConfig(n.Data.Config)
			if t, ok := firstTargetWithLabel(outgoing, LabelTrue); ok {
				cfg["trueStep"] = t
			} else {
				delete(cfg, "trueStep")
			}
			if f, ok := firstTargetWithLabel(outgoing, LabelFalse); ok {
				cfg["falseStep"] = f
			} else {
				delete(cfg, "falseStep")
			}
			step.Config = cfg
		} else {
			step.Config = copyConfig(n.Data.Config)
			if len(outgoing) > 0 {
				step.NextStepKey = outgoing[0].Target
			}
		}

		steps = append(steps, step)
	}

	return steps
}

func firstTargetWithLabel(edges []Edge, label string) (string, bool) {
	for _, e := range edges {
		if e.Label == label {
			return e.Target, true
		}
	}
	return "", false
}

func copyConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	return out
}

// stringField reads a string-valued key from an opaque config map,
// treating absence, nil, and a non-string value alike as "not present" —
// config.trueStep/falseStep are documented as "absent or a key".
func stringField(cfg map[string]any, key string) (string, bool) {
	if cfg == nil {
		return "", false
	}
	v, ok := cfg[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
