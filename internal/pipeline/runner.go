// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/aging-agent/pkg/types"
)

// Overfetch factor: searches return more candidates than the target so the
// run can skip papers whose metadata cannot be retrieved.
const searchMultiplier = 2

// Stats reports what one run accomplished.
type Stats struct {
	Query             string  `yaml:"query"`
	CandidatesFound   int     `yaml:"candidates_found"`
	PapersProcessed   int     `yaml:"papers_processed"`
	FullTextRetrieved int     `yaml:"full_text_retrieved"`
	EstimatedCostUSD  float64 `yaml:"estimated_cost_usd"`
	DurationSeconds   float64 `yaml:"duration_seconds"`
	Stopped           string  `yaml:"stopped,omitempty"`
}

// Runner executes one query against a source and processes the results.
type Runner struct {
	Processor *Processor
	Config    types.RunConfig

	// Out receives run-level progress. Defaults to io.Discard when nil.
	Out io.Writer
}

// Run searches for candidates and processes up to TargetPapers of them in
// rank order. Per-paper failures are logged and skipped. The run stops early
// when the cost ceiling is reached or the context is cancelled; in both
// cases the summary table and run log still get flushed for the papers that
// did complete.
func (r *Runner) Run(ctx context.Context, query string) (Stats, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	cfg := r.Config.WithDefaults()
	start := time.Now()
	stats := Stats{Query: query}

	ids, err := r.Processor.Source.Search(ctx, query, searchMultiplier*cfg.TargetPapers)
	if err != nil {
		return stats, fmt.Errorf("searching %s: %w", r.Processor.Source.Name(), err)
	}
	stats.CandidatesFound = len(ids)
	fmt.Fprintf(out, "query %q: %d candidates\n", query, len(ids))

	// Papers cited by each theory's summary row, keyed by primary theory id.
	theoryPapers := make(map[int][]string)

loop:
	for _, id := range ids {
		if stats.PapersProcessed >= cfg.TargetPapers {
			break
		}
		if stats.EstimatedCostUSD+cfg.CostPerPaper > cfg.MaxCostUSD {
			fmt.Fprintf(out, "cost ceiling $%.2f reached, stopping\n", cfg.MaxCostUSD)
			stats.Stopped = "cost_ceiling"
			break
		}
		select {
		case <-ctx.Done():
			fmt.Fprintf(out, "run cancelled: %v\n", ctx.Err())
			stats.Stopped = "cancelled"
			break loop
		default:
		}

		res, err := r.Processor.ProcessPaper(ctx, id)
		if err != nil {
			fmt.Fprintf(out, "skipping %s: %v\n", id, err)
			continue
		}
		stats.PapersProcessed++
		stats.EstimatedCostUSD += cfg.CostPerPaper
		if res.HasFullText {
			stats.FullTextRetrieved++
		}
		theoryPapers[res.PrimaryID] = append(theoryPapers[res.PrimaryID], res.Record.URL)

		if cfg.PaperDelay > 0 && stats.PapersProcessed < cfg.TargetPapers {
			select {
			case <-time.After(cfg.PaperDelay):
			case <-ctx.Done():
			}
		}
	}

	stats.DurationSeconds = time.Since(start).Seconds()

	if err := r.Processor.Tables.AppendSummary(theoryPapers); err != nil {
		return stats, fmt.Errorf("writing theory summary: %w", err)
	}
	if err := AppendRunLog(cfg.OutputDir, stats); err != nil {
		return stats, fmt.Errorf("writing run log: %w", err)
	}

	fmt.Fprintf(out, "processed %d papers ($%.2f estimated) in %.1fs\n",
		stats.PapersProcessed, stats.EstimatedCostUSD, stats.DurationSeconds)
	return stats, nil
}
