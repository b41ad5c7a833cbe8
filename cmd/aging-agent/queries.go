package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/aging-agent/internal/pipeline"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Print the built-in query sweep",
	Long: `Queries prints the built-in PubMed query sweep, one query per line.
Redirect the output to seed a custom --query-file.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, q := range pipeline.DefaultQueries {
			fmt.Println(q)
		}
	},
}

func init() {
	rootCmd.AddCommand(queriesCmd)
}
