// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Provenance records how a theory tag was derived.
type Provenance string

const (
	// ProvenanceFullText means the tag came from a model call over full text.
	ProvenanceFullText Provenance = "full_text"

	// ProvenanceAbstract means the tag came from a model call over the abstract.
	ProvenanceAbstract Provenance = "abstract"

	// ProvenanceKeyword means the tag came from the keyword fallback scan.
	ProvenanceKeyword Provenance = "keyword_inference"

	// ProvenanceDefault marks the sentinel tag emitted when nothing matched.
	ProvenanceDefault Provenance = "default"
)

// TheoryTag is one aging-theory assignment for one paper. A paper may carry
// several tags; callers pick a primary one for the summary tables.
type TheoryTag struct {
	// TheoryID is an id from the fixed taxonomy (1-10), or 0 for
	// unclassified/novel work.
	TheoryID int `json:"theory_id" yaml:"theory_id"`

	// TheoryName is the taxonomy name for TheoryID.
	TheoryName string `json:"theory_name" yaml:"theory_name"`

	// Confidence is the classifier's confidence in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// EvidenceSnippets holds up to three short supporting quotes.
	EvidenceSnippets []string `json:"evidence_snippets" yaml:"evidence_snippets"`

	// Provenance records which path produced the tag.
	Provenance Provenance `json:"provenance" yaml:"provenance"`
}
