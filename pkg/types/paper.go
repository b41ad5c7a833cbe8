// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperRecord is the canonical representation of a paper's bibliographic
// metadata, independent of the source API it came from. Source adapters map
// their native response shapes into this record; it is not mutated afterwards.
type PaperRecord struct {
	// ID is the source-native identifier (PMID, arXiv ID, DOI, ...),
	// unique within its source.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, possibly empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year" yaml:"year"`

	// Authors lists author names in byline order.
	Authors []string `json:"authors" yaml:"authors"`

	// Journal is the publication venue (e.g. "Nature Aging", "bioRxiv").
	Journal string `json:"journal" yaml:"journal"`

	// URL is the canonical citable link for the paper.
	URL string `json:"url" yaml:"url"`

	// Source identifies the adapter that produced the record
	// (e.g. "pubmed", "arxiv", "biorxiv", "europepmc").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}
