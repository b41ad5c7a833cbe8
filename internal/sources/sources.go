// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources implements the bibliographic source adapters. Each
// adapter speaks one API (PubMed, arXiv, bioRxiv, Europe PMC) and maps its
// native record shape into the canonical PaperRecord. The pipeline only
// ever sees the Source interface.
package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/aging-agent/pkg/types"
)

// Source is the uniform contract a bibliographic API adapter provides.
type Source interface {
	// Name identifies the adapter (e.g. "pubmed").
	Name() string

	// Search returns up to maxResults external ids for the query, in the
	// source's relevance order.
	Search(ctx context.Context, query string, maxResults int) ([]string, error)

	// FetchMetadata returns the canonical record for one external id, or
	// an error when the record cannot be retrieved.
	FetchMetadata(ctx context.Context, id string) (*types.PaperRecord, error)

	// FetchFullText attempts to retrieve full text for one external id.
	// It returns the text and a source label, or empty strings when the
	// source has no full text for the paper. Errors are best-effort
	// signals; callers fall back to the abstract either way.
	FetchFullText(ctx context.Context, id string) (string, string, error)
}

// ByName returns the adapter registered under name. The email is passed to
// APIs with contact-address etiquette.
func ByName(name string, cfg types.SearchConfig) (Source, error) {
	switch name {
	case "pubmed":
		return NewPubMed(cfg), nil
	case "arxiv":
		return NewArxiv(cfg), nil
	case "biorxiv":
		return NewBiorxiv(cfg), nil
	case "europepmc":
		return NewEuropePMC(cfg), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want pubmed, arxiv, biorxiv, or europepmc)", name)
	}
}

// cleanQuery strips PubMed field-tag syntax from a query so it can be sent
// to sources with plain keyword search. The curated query sets are written
// in PubMed syntax.
func cleanQuery(query string) string {
	for _, tag := range []string{"[Title/Abstract]", "[Title]", "[Abstract]"} {
		query = strings.ReplaceAll(query, tag, "")
	}
	return strings.TrimSpace(query)
}
