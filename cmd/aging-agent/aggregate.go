package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/aging-agent/internal/aggregate"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Merge per-run CSV exports into canonical tables",
	Long: `Aggregate scans a directory tree for the papers and annotations tables
written by previous runs, merges them with first-wins deduplication on
(theory_id, paper_name, paper_year), drops unclassified rows, and writes
canonical tables plus a regenerated theory summary at the root.

Running aggregate twice over the same tree is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		if root == "" {
			root = viper.GetString("aggregate.root")
		}
		if root == "" {
			root = "."
		}
		agg := &aggregate.Aggregator{Root: root, Out: os.Stdout}
		return agg.Run()
	},
}

func init() {
	aggregateCmd.Flags().String("root", "", "directory scanned recursively for run exports (default .)")

	rootCmd.AddCommand(aggregateCmd)
}
