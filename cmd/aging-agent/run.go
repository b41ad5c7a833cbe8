// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/aging-agent/internal/anthropic"
	"github.com/pdiddy/aging-agent/internal/classify"
	"github.com/pdiddy/aging-agent/internal/pipeline"
	"github.com/pdiddy/aging-agent/internal/questions"
	"github.com/pdiddy/aging-agent/internal/sources"
	"github.com/pdiddy/aging-agent/internal/tables"
	"github.com/pdiddy/aging-agent/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultUserAgent = "aging-agent/0.1"
)

var runCmd = &cobra.Command{
	Use:   "run [queries...]",
	Short: "Collect and annotate papers for one or more queries",
	Long: `Run searches a bibliographic source for each query, processes the
candidates in relevance order (metadata, full text where available, theory
tagging, question answering), and appends rows to the CSV tables in the
output directory. Without query arguments the built-in query sweep covering
all ten theories of aging is used.

Queries are written in PubMed syntax; sources without field tags strip them.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("source", "pubmed", "bibliographic source (pubmed, arxiv, biorxiv, europepmc)")
	runCmd.Flags().String("output-dir", "", "directory for the CSV tables (default output)")
	runCmd.Flags().Int("target-papers", 0, "papers to process per query (default 50)")
	runCmd.Flags().Float64("max-cost", 0, "spend ceiling in USD per query (default 100)")
	runCmd.Flags().Duration("paper-delay", 0, "delay between papers (default 500ms)")
	runCmd.Flags().String("query-file", "", "YAML file with a queries list, used instead of the built-in sweep")
	runCmd.Flags().String("model", "", "AI model identifier for tagging and extraction")
	runCmd.Flags().String("email", "", "contact email sent to APIs that ask for one")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	sourceName, _ := cmd.Flags().GetString("source")
	if v := viper.GetString("search.source"); sourceName == "pubmed" && v != "" {
		sourceName = v
	}

	queries := args
	if queryFile, _ := cmd.Flags().GetString("query-file"); queryFile != "" {
		if len(queries) > 0 {
			return fmt.Errorf("provide queries as arguments or via --query-file, not both")
		}
		var err error
		queries, err = pipeline.LoadQueryFile(queryFile)
		if err != nil {
			return err
		}
	}
	if len(queries) == 0 {
		queries = pipeline.DefaultQueries
	}

	apiKey := secretDefault("anthropic-api-key", viper.GetString("ai.api_key"))
	if apiKey == "" {
		return fmt.Errorf("no Anthropic API key: add .secrets/anthropic-api-key or set ai.api_key in the config")
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}
	if model == "" {
		model = defaultModel
	}
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = secretDefault("pubmed-email", viper.GetString("search.email"))
	}

	runCfg := types.RunConfig{
		OutputDir:    viper.GetString("run.output_dir"),
		TargetPapers: viper.GetInt("run.target_papers"),
		MaxCostUSD:   viper.GetFloat64("run.max_cost_usd"),
		PaperDelay:   viper.GetDuration("run.paper_delay"),
		CostPerPaper: viper.GetFloat64("run.cost_per_paper"),
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		runCfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetInt("target-papers"); v > 0 {
		runCfg.TargetPapers = v
	}
	if v, _ := cmd.Flags().GetFloat64("max-cost"); v > 0 {
		runCfg.MaxCostUSD = v
	}
	if v, _ := cmd.Flags().GetDuration("paper-delay"); v > 0 {
		runCfg.PaperDelay = v
	}
	runCfg = runCfg.WithDefaults()

	searchCfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: userAgent(email),
		},
		Email: email,
	}
	source, err := sources.ByName(sourceName, searchCfg)
	if err != nil {
		return err
	}

	writer, err := tables.NewWriter(runCfg.OutputDir)
	if err != nil {
		return err
	}

	backend := &anthropic.Client{
		APIKey:     apiKey,
		Model:      model,
		MaxRetries: viper.GetInt("ai.max_retries"),
		HTTP:       &http.Client{Timeout: 120 * time.Second},
	}
	runner := &pipeline.Runner{
		Processor: &pipeline.Processor{
			Source:     source,
			Classifier: &classify.Classifier{Backend: backend, Out: os.Stdout},
			Extractor:  &questions.Extractor{Backend: backend, Out: os.Stdout},
			Tables:     writer,
			Out:        os.Stdout,
		},
		Config: runCfg,
		Out:    os.Stdout,
	}

	// Ctrl-C stops after the current paper; completed work is still flushed.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	for i, query := range queries {
		fmt.Fprintf(os.Stdout, "\n=== query %d/%d: %s ===\n", i+1, len(queries), query)
		if _, err := runner.Run(ctx, query); err != nil {
			fmt.Fprintf(os.Stderr, "query %q failed: %v\n", query, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil
}

func userAgent(email string) string {
	if email == "" {
		return defaultUserAgent
	}
	return fmt.Sprintf("%s (%s)", defaultUserAgent, email)
}
