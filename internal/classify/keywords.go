// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"strings"

	"github.com/pdiddy/aging-agent/pkg/taxonomy"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// keywordEntry maps one theory to the substrings that imply it. The table
// covers only the theories with unambiguous lexical markers; the rest are
// reachable through the model path alone.
type keywordEntry struct {
	theoryID int
	keywords []string
}

// keywordTable is scanned in order so fallback output is deterministic.
var keywordTable = []keywordEntry{
	{1, []string{"free radical", "ros", "reactive oxygen", "oxidative stress"}},
	{2, []string{"telomere", "telomerase"}},
	{3, []string{"mitochondria", "mitochondrial"}},
	{4, []string{"senescence", "senescent"}},
	{8, []string{"mtor", "nutrient sensing", "insulin"}},
	{9, []string{"dna damage", "genomic instability"}},
}

const (
	keywordConfidence  = 0.6
	sentinelConfidence = 0.5
)

// InferTheories is the deterministic keyword fallback. It scans text
// case-insensitively against the keyword table; the first matching keyword
// per theory wins. When nothing matches it returns the single sentinel tag
// for unclassified aging research, so the result is never empty.
func InferTheories(text string) []types.TheoryTag {
	lower := strings.ToLower(text)

	var tags []types.TheoryTag
	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, types.TheoryTag{
					TheoryID:         entry.theoryID,
					TheoryName:       taxonomy.Name(entry.theoryID),
					Confidence:       keywordConfidence,
					EvidenceSnippets: []string{fmt.Sprintf("Keyword '%s' found", kw)},
					Provenance:       types.ProvenanceKeyword,
				})
				break
			}
		}
	}

	if len(tags) == 0 {
		tags = []types.TheoryTag{{
			TheoryID:         taxonomy.Unclassified,
			TheoryName:       taxonomy.UnclassifiedName,
			Confidence:       sentinelConfidence,
			EvidenceSnippets: []string{"No specific keywords found"},
			Provenance:       types.ProvenanceDefault,
		}}
	}
	return tags
}
