// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/aging-agent/internal/httputil"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// biorxivAPIBase is the bioRxiv details endpoint. Declared as a var so
// tests can substitute an httptest server.
var biorxivAPIBase = "https://api.biorxiv.org"

const (
	// biorxivWindowDays is the recency window scanned per search, since the
	// API exposes no keyword search.
	biorxivWindowDays = 730

	// biorxivMaxPages caps cursor pagination per search.
	biorxivMaxPages = 10
)

// Biorxiv scans recent bioRxiv preprints and filters them by query terms
// client-side: the bioRxiv API has no search endpoint, only listings by
// date range. No full text is available through the API.
type Biorxiv struct {
	cfg    types.SearchConfig
	client *http.Client

	// now is stubbed in tests to pin the date window.
	now func() time.Time
}

// NewBiorxiv returns a bioRxiv adapter.
func NewBiorxiv(cfg types.SearchConfig) *Biorxiv {
	return &Biorxiv{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, now: time.Now}
}

// Name returns the adapter identifier.
func (b *Biorxiv) Name() string { return "biorxiv" }

// biorxivDetails mirrors the details endpoint response.
type biorxivDetails struct {
	Collection []struct {
		DOI      string `json:"doi"`
		Title    string `json:"title"`
		Authors  string `json:"authors"`
		Date     string `json:"date"`
		Abstract string `json:"abstract"`
	} `json:"collection"`
}

// Search pages through the recent-preprint listing and keeps DOIs whose
// title or abstract contains any query term longer than two characters.
func (b *Biorxiv) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	end := b.now()
	start := end.AddDate(0, 0, -biorxivWindowDays)

	var terms []string
	for _, t := range strings.Fields(strings.ToLower(cleanQuery(query))) {
		if len(t) > 2 {
			terms = append(terms, t)
		}
	}

	var dois []string
	for cursor := 0; cursor < biorxivMaxPages && len(dois) < maxResults; cursor++ {
		u := fmt.Sprintf("%s/details/biorxiv/%s/%s/%d/json",
			biorxivAPIBase, start.Format("2006-01-02"), end.Format("2006-01-02"), cursor)

		var page biorxivDetails
		if err := httputil.GetJSON(ctx, b.client, u, b.cfg.UserAgent, &page); err != nil {
			return nil, fmt.Errorf("listing bioRxiv preprints: %w", err)
		}
		if len(page.Collection) == 0 {
			break
		}

		for _, paper := range page.Collection {
			if paper.DOI == "" {
				continue
			}
			combined := strings.ToLower(paper.Title + " " + paper.Abstract)
			if matchesAny(combined, terms) {
				dois = append(dois, paper.DOI)
				if len(dois) >= maxResults {
					break
				}
			}
		}
	}
	return dois, nil
}

// FetchMetadata retrieves and normalizes one bioRxiv record by DOI.
func (b *Biorxiv) FetchMetadata(ctx context.Context, doi string) (*types.PaperRecord, error) {
	u := fmt.Sprintf("%s/details/biorxiv/%s", biorxivAPIBase, doi)

	var details biorxivDetails
	if err := httputil.GetJSON(ctx, b.client, u, b.cfg.UserAgent, &details); err != nil {
		return nil, fmt.Errorf("fetching bioRxiv metadata: %w", err)
	}
	if len(details.Collection) == 0 {
		return nil, fmt.Errorf("bioRxiv DOI %s not found", doi)
	}
	paper := details.Collection[0]

	// Authors arrive as one semicolon-separated string.
	var authors []string
	for _, a := range strings.Split(paper.Authors, ";") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}

	year := 0
	if parts := strings.SplitN(paper.Date, "-", 2); len(parts) > 0 {
		if y, err := strconv.Atoi(parts[0]); err == nil {
			year = y
		}
	}

	return &types.PaperRecord{
		ID:       doi,
		Title:    paper.Title,
		Abstract: paper.Abstract,
		Year:     year,
		Authors:  authors,
		Journal:  "bioRxiv",
		URL:      fmt.Sprintf("https://www.biorxiv.org/content/%s", doi),
		Source:   b.Name(),
	}, nil
}

// FetchFullText always reports no full text: the bioRxiv API serves
// metadata only.
func (b *Biorxiv) FetchFullText(_ context.Context, _ string) (string, string, error) {
	return "", "", nil
}

// matchesAny reports whether text contains any of the terms. An empty term
// list matches nothing.
func matchesAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
