// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/aging-agent/internal/httputil"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// europePMCAPIBase is the Europe PMC REST endpoint. Declared as a var so
// tests can substitute an httptest server.
var europePMCAPIBase = "https://www.ebi.ac.uk/europepmc/webservices/rest"

// europePMCPageSize is the maximum page size the search endpoint allows.
const europePMCPageSize = 100

// fullTextMinChars is the minimum length for a fullTextXML response to
// count as usable full text; shorter responses are error pages or stubs.
const fullTextMinChars = 1000

// fullTextMaxChars caps retained full text.
const fullTextMaxChars = 100000

// EuropePMC queries the Europe PMC REST API. Records come from several
// underlying databases (MED, PMC, PPR, ...), so external ids carry the
// database prefix: "PMC:PMC9876543", "MED:36152341".
type EuropePMC struct {
	cfg    types.SearchConfig
	client *http.Client
}

// NewEuropePMC returns a Europe PMC adapter.
func NewEuropePMC(cfg types.SearchConfig) *EuropePMC {
	return &EuropePMC{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Name returns the adapter identifier.
func (e *EuropePMC) Name() string { return "europepmc" }

// europePMCSearchResult mirrors the REST search response.
type europePMCSearchResult struct {
	NextCursorMark string `json:"nextCursorMark"`
	ResultList     struct {
		Result []struct {
			ID           string `json:"id"`
			Source       string `json:"source"`
			PMID         string `json:"pmid"`
			PMCID        string `json:"pmcid"`
			DOI          string `json:"doi"`
			Title        string `json:"title"`
			AbstractText string `json:"abstractText"`
			JournalTitle string `json:"journalTitle"`
			PubYear      string `json:"pubYear"`
			AuthorList   struct {
				Author []struct {
					FullName string `json:"fullName"`
				} `json:"author"`
			} `json:"authorList"`
		} `json:"result"`
	} `json:"resultList"`
}

// Search pages through cursor marks and returns prefixed external ids in
// relevance order.
func (e *EuropePMC) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	var ids []string
	cursor := "*"

	for len(ids) < maxResults {
		u := fmt.Sprintf("%s/search?query=%s&format=json&resultType=core&pageSize=%d&cursorMark=%s",
			europePMCAPIBase, url.QueryEscape(query), europePMCPageSize, url.QueryEscape(cursor))

		var page europePMCSearchResult
		if err := httputil.GetJSON(ctx, e.client, u, e.cfg.UserAgent, &page); err != nil {
			return nil, fmt.Errorf("searching Europe PMC: %w", err)
		}
		if len(page.ResultList.Result) == 0 {
			break
		}

		for _, hit := range page.ResultList.Result {
			if hit.ID == "" {
				continue
			}
			src := hit.Source
			if src == "" {
				src = "MED"
			}
			ids = append(ids, src+":"+hit.ID)
		}

		if page.NextCursorMark == "" || page.NextCursorMark == cursor {
			break
		}
		cursor = page.NextCursorMark
	}

	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

// FetchMetadata retrieves and normalizes one Europe PMC record.
func (e *EuropePMC) FetchMetadata(ctx context.Context, id string) (*types.PaperRecord, error) {
	_, rawID := splitEuropePMCID(id)

	u := fmt.Sprintf("%s/search?query=%s&format=json&resultType=core",
		europePMCAPIBase, url.QueryEscape(rawID))

	var page europePMCSearchResult
	if err := httputil.GetJSON(ctx, e.client, u, e.cfg.UserAgent, &page); err != nil {
		return nil, fmt.Errorf("fetching Europe PMC metadata: %w", err)
	}
	if len(page.ResultList.Result) == 0 {
		return nil, fmt.Errorf("Europe PMC id %s not found", id)
	}
	hit := page.ResultList.Result[0]

	var authors []string
	for i, a := range hit.AuthorList.Author {
		if i >= 10 {
			break
		}
		if a.FullName != "" {
			authors = append(authors, a.FullName)
		}
	}

	year := 0
	if y, err := strconv.Atoi(hit.PubYear); err == nil {
		year = y
	}

	// Prefer the most citable link available.
	var paperURL string
	switch {
	case hit.PMCID != "":
		paperURL = fmt.Sprintf("https://europepmc.org/article/PMC/%s", hit.PMCID)
	case hit.PMID != "":
		paperURL = fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s", hit.PMID)
	case hit.DOI != "":
		paperURL = fmt.Sprintf("https://doi.org/%s", hit.DOI)
	default:
		src := hit.Source
		if src == "" {
			src = "MED"
		}
		paperURL = fmt.Sprintf("https://europepmc.org/article/%s/%s", src, hit.ID)
	}

	return &types.PaperRecord{
		ID:       id,
		Title:    hit.Title,
		Abstract: hit.AbstractText,
		Year:     year,
		Authors:  authors,
		Journal:  hit.JournalTitle,
		URL:      paperURL,
		Source:   e.Name(),
	}, nil
}

// FetchFullText requests the fullTextXML endpoint. A short response is an
// error page or stub, not an article, and counts as no full text.
func (e *EuropePMC) FetchFullText(ctx context.Context, id string) (string, string, error) {
	src, rawID := splitEuropePMCID(id)

	var u string
	if src == "PMC" {
		u = fmt.Sprintf("%s/%s/fullTextXML", europePMCAPIBase, url.PathEscape(rawID))
	} else {
		u = fmt.Sprintf("%s/%s/%s/fullTextXML", europePMCAPIBase, url.PathEscape(src), url.PathEscape(rawID))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, e.client, req, 0)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, fullTextMaxChars+1))
	if err != nil {
		return "", "", err
	}
	if len(data) <= fullTextMinChars {
		return "", "", nil
	}

	text := string(data)
	if len(text) > fullTextMaxChars {
		text = text[:fullTextMaxChars]
	}
	return text, "europepmc", nil
}

// splitEuropePMCID splits a prefixed external id ("PMC:PMC987") into
// database and raw id, defaulting the database to MED.
func splitEuropePMCID(id string) (string, string) {
	if src, raw, ok := strings.Cut(id, ":"); ok && src != "" {
		return src, raw
	}
	return "MED", id
}
