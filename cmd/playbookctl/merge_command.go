package main

import (
	"github.com/spf13/cobra"

	"github.com/playbook-graph/versioning-core/cmd/playbookctl/clilog"
	"github.com/playbook-graph/versioning-core/internal/graph"
	"github.com/playbook-graph/versioning-core/internal/merge"
)

var resolutionsFile string

func init() {
	mergeCmd.Flags().StringVar(&resolutionsFile, "resolutions", "", "path to a JSON array of conflict resolutions")
}

var mergeCmd = &cobra.Command{
	Use:   "merge <base.json> <ours.json> <theirs.json>",
	Short: "Three-way merge three exported graphs and print the result",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var base, ours, theirs graph.Graph
		if err := readJSONFile(args[0], &base); err != nil {
			return err
		}
		if err := readJSONFile(args[1], &ours); err != nil {
			return err
		}
		if err := readJSONFile(args[2], &theirs); err != nil {
			return err
		}

		var resolutions []merge.Resolution
		if resolutionsFile != "" {
			if err := readJSONFile(resolutionsFile, &resolutions); err != nil {
				return err
			}
		}

		result := merge.Merge(base, ours, theirs, resolutions)
		if !result.Success {
			clilog.L().Warn("merge produced unresolved conflicts", "conflictCount", len(result.Conflicts))
		}
		return printJSON(result)
	},
}
