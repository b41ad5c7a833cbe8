// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns aging-theory tags to papers. The primary path
// prompts a language model and parses its JSON; any failure there falls
// through to a deterministic keyword scan, so Classify always returns at
// least one tag and never returns an error.
package classify

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/aging-agent/internal/jsonutil"
	"github.com/pdiddy/aging-agent/pkg/types"
)

const (
	// maxTextChars bounds the text prefix embedded in the prompt.
	maxTextChars = 100000

	// fullTextThreshold separates full-text input from abstract-only input
	// for provenance purposes.
	fullTextThreshold = 1000

	// maxEvidenceSnippets caps the quotes retained per tag.
	maxEvidenceSnippets = 3
)

// AIBackend produces raw model text for a prompt. The Anthropic client
// satisfies it; tests supply mocks.
type AIBackend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier tags papers against the aging-theory taxonomy.
type Classifier struct {
	Backend AIBackend

	// Out receives per-paper diagnostics (fallback notices). Defaults to
	// io.Discard when nil.
	Out io.Writer
}

// tagPayload mirrors one element of the model's theory_tags array.
type tagPayload struct {
	TheoryID         int      `json:"theory_id"`
	TheoryName       string   `json:"theory_name"`
	Confidence       float64  `json:"confidence"`
	EvidenceSnippets []string `json:"evidence_snippets"`
}

// Classify returns the theory tags for a paper given its title and body
// text (full text when available, abstract otherwise). It never fails:
// model or parse errors degrade to the keyword fallback, which itself
// degrades to the sentinel tag.
func (c *Classifier) Classify(ctx context.Context, title, text string) []types.TheoryTag {
	out := c.Out
	if out == nil {
		out = io.Discard
	}

	sample := text
	if len(sample) > maxTextChars {
		sample = sample[:maxTextChars]
	}

	raw, err := c.Backend.Complete(ctx, renderClassifyPrompt(title, sample))
	if err != nil {
		fmt.Fprintf(out, "  warning: theory tagging failed (%v), using keyword fallback\n", err)
		return InferTheories(text)
	}

	var parsed struct {
		TheoryTags []tagPayload `json:"theory_tags"`
	}
	if err := jsonutil.ExtractInto(raw, &parsed); err != nil {
		fmt.Fprintf(out, "  warning: unparseable tagging response (%v), using keyword fallback\n", err)
		return InferTheories(text)
	}

	provenance := types.ProvenanceAbstract
	if len(text) > fullTextThreshold {
		provenance = types.ProvenanceFullText
	}

	var tags []types.TheoryTag
	for _, p := range parsed.TheoryTags {
		snippets := p.EvidenceSnippets
		if len(snippets) > maxEvidenceSnippets {
			snippets = snippets[:maxEvidenceSnippets]
		}
		tags = append(tags, types.TheoryTag{
			TheoryID:         p.TheoryID,
			TheoryName:       p.TheoryName,
			Confidence:       p.Confidence,
			EvidenceSnippets: snippets,
			Provenance:       provenance,
		})
	}

	if len(tags) == 0 {
		fmt.Fprintf(out, "  warning: no theories found, using keyword fallback\n")
		return InferTheories(text)
	}
	return tags
}

// PrimaryTag selects the tag used for the summary tables: highest
// confidence, ties broken by first occurrence in the list. The list order
// from the model or fallback is preserved, not sorted.
func PrimaryTag(tags []types.TheoryTag) types.TheoryTag {
	primary := tags[0]
	for _, t := range tags[1:] {
		if t.Confidence > primary.Confidence {
			primary = t
		}
	}
	return primary
}
