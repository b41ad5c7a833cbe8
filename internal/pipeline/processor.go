// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives paper collection end to end: search a source,
// process each candidate (metadata, full text, theory tags, question
// answers), and persist rows to the output tables.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/aging-agent/internal/classify"
	"github.com/pdiddy/aging-agent/internal/questions"
	"github.com/pdiddy/aging-agent/internal/sources"
	"github.com/pdiddy/aging-agent/internal/tables"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// Processor handles one paper at a time.
type Processor struct {
	Source     sources.Source
	Classifier *classify.Classifier
	Extractor  *questions.Extractor
	Tables     *tables.Writer

	// Out receives per-paper progress. Defaults to io.Discard when nil.
	Out io.Writer
}

// Result summarizes one successfully processed paper.
type Result struct {
	Record      *types.PaperRecord
	PrimaryID   int
	HasFullText bool
}

// ProcessPaper runs the per-paper state machine. A metadata failure aborts
// with no rows written; everything after that is best-effort - classifier
// and extractor degrade to their fallback outputs and the paper is still
// persisted.
func (p *Processor) ProcessPaper(ctx context.Context, externalID string) (*Result, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	start := time.Now()

	fmt.Fprintf(out, "processing %s\n", externalID)

	rec, err := p.Source.FetchMetadata(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata for %s: %w", externalID, err)
	}
	fmt.Fprintf(out, "  title: %s\n", truncate(rec.Title, 70))

	// Prefer full text; fall back to the abstract. Full-text errors are
	// soft: the abstract is always available from the metadata.
	text, fullTextSource, err := p.Source.FetchFullText(ctx, externalID)
	if err != nil {
		fmt.Fprintf(out, "  warning: full-text retrieval failed: %v\n", err)
		text, fullTextSource = "", ""
	}
	hasFullText := text != ""
	if hasFullText {
		fmt.Fprintf(out, "  full text from %s\n", fullTextSource)
	} else {
		fmt.Fprintf(out, "  abstract only\n")
		text = rec.Abstract
	}

	tags := p.Classifier.Classify(ctx, rec.Title, text)
	for _, tag := range tags {
		fmt.Fprintf(out, "  theory: %s (%.2f)\n", tag.TheoryName, tag.Confidence)
	}

	answers := p.Extractor.Extract(ctx, rec.Title, text)

	// Coarse binary proxy, not a statistical estimate.
	confidence := "medium"
	if hasFullText {
		confidence = "high"
	}

	primary := classify.PrimaryTag(tags)
	elapsed := time.Since(start).Seconds()

	if err := p.persist(rec, primary, tags, answers, hasFullText, fullTextSource, confidence, elapsed); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "  done in %.2fs (confidence %s)\n", elapsed, confidence)
	return &Result{Record: rec, PrimaryID: primary.TheoryID, HasFullText: hasFullText}, nil
}

func (p *Processor) persist(rec *types.PaperRecord, primary types.TheoryTag, tags []types.TheoryTag,
	answers types.Answers, hasFullText bool, fullTextSource, confidence string, elapsed float64) error {

	if err := p.Tables.AppendPaper(primary.TheoryID, rec.URL, rec.Title, rec.Year); err != nil {
		return fmt.Errorf("writing papers row: %w", err)
	}
	if err := p.Tables.AppendAnnotations(primary.TheoryID, rec.URL, rec.Title, rec.Year, answers); err != nil {
		return fmt.Errorf("writing annotations row: %w", err)
	}
	if err := p.Tables.AppendTheoryTags(rec.URL, tags); err != nil {
		return fmt.Errorf("writing theory-tag rows: %w", err)
	}
	if err := p.Tables.AppendMetadata(rec, hasFullText, fullTextSource, confidence, elapsed); err != nil {
		return fmt.Errorf("writing metadata row: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
