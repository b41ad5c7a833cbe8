// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy is the single shared lookup table for the ten aging
// theories. Ids 1-10 are stable and never renumbered; id 0 is the sentinel
// for papers with no taxonomy match. Every stage (classifier, run
// controller, aggregator) consults this package rather than carrying its
// own copy.
package taxonomy

import "fmt"

// Unclassified is the sentinel theory id for papers with no taxonomy match.
const Unclassified = 0

// UnclassifiedName is the display name for the sentinel id.
const UnclassifiedName = "General Aging Research"

var names = map[int]string{
	1:  "Free Radical Theory",
	2:  "Telomere Shortening",
	3:  "Mitochondrial Dysfunction",
	4:  "Cellular Senescence",
	5:  "Stem Cell Exhaustion",
	6:  "Altered Intercellular Communication",
	7:  "Loss of Proteostasis",
	8:  "Deregulated Nutrient Sensing",
	9:  "Genomic Instability",
	10: "Epigenetic Alterations",
}

// Name returns the theory name for id, the sentinel name for 0, and an
// "Unknown Theory N" placeholder for anything else.
func Name(id int) string {
	if id == Unclassified {
		return UnclassifiedName
	}
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("Unknown Theory %d", id)
}

// Contains reports whether id is one of the ten taxonomy ids.
func Contains(id int) bool {
	_, ok := names[id]
	return ok
}

// IDs returns the taxonomy ids in ascending order, excluding the sentinel.
func IDs() []int {
	ids := make([]int, 0, len(names))
	for i := 1; i <= len(names); i++ {
		ids = append(ids, i)
	}
	return ids
}
