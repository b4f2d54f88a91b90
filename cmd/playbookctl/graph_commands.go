package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/playbook-graph/versioning-core/cmd/playbookctl/clilog"
	"github.com/playbook-graph/versioning-core/internal/graph"
)

var linearToGraphCmd = &cobra.Command{
	Use:   "linear-to-graph <playbook.json>",
	Short: "Convert a linear step list into its node/edge graph form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pb graph.Playbook
		if err := readJSONFile(args[0], &pb); err != nil {
			return err
		}
		return printJSON(graph.LinearToGraph(pb))
	},
}

var graphToLinearCmd = &cobra.Command{
	Use:   "graph-to-linear <graph.json>",
	Short: "Convert a node/edge graph into its ordered linear step form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var g graph.Graph
		if err := readJSONFile(args[0], &g); err != nil {
			return err
		}
		return printJSON(graph.GraphToLinear(g))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <graph.json>",
	Short: "Run structural validation on a graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var g graph.Graph
		if err := readJSONFile(args[0], &g); err != nil {
			return err
		}
		result := graph.Validate(g)
		if !result.Valid {
			clilog.L().Warn("graph failed validation", "errorCount", len(result.Errors))
		}
		return printJSON(result)
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <graph.json>",
	Short: "Canonicalize a graph, dropping orphan nodes and dangling edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var g graph.Graph
		if err := readJSONFile(args[0], &g); err != nil {
			return err
		}
		return printJSON(graph.Normalize(g))
	},
}

func readJSONFile(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
