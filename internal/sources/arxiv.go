// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/aging-agent/internal/httputil"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv Atom API, restricted to quantitative biology.
// arXiv provides no full text through the API.
type Arxiv struct {
	cfg    types.SearchConfig
	client *http.Client
}

// NewArxiv returns an arXiv adapter.
func NewArxiv(cfg types.SearchConfig) *Arxiv {
	return &Arxiv{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Name returns the adapter identifier.
func (a *Arxiv) Name() string { return "arxiv" }

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// Search queries the Atom API in the q-bio categories and returns arXiv ids.
func (a *Arxiv) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	clean := cleanQuery(query)
	if clean == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	searchQuery := fmt.Sprintf("all:%s AND cat:q-bio*", clean)

	u := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, url.QueryEscape(searchQuery), maxResults)

	feed, err := a.fetchFeed(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("searching arXiv: %w", err)
	}

	var ids []string
	for _, entry := range feed.Entries {
		if id := extractArxivID(entry.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FetchMetadata retrieves and normalizes one arXiv record.
func (a *Arxiv) FetchMetadata(ctx context.Context, id string) (*types.PaperRecord, error) {
	u := fmt.Sprintf("%s?id_list=%s&max_results=1", arxivAPIBase, url.QueryEscape(id))

	feed, err := a.fetchFeed(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching arXiv metadata: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("arXiv id %s not found", id)
	}
	entry := feed.Entries[0]

	year := 0
	if len(entry.Published) >= 4 {
		if y, err := strconv.Atoi(entry.Published[:4]); err == nil {
			year = y
		}
	}

	var authors []string
	for _, au := range entry.Authors {
		if name := strings.TrimSpace(au.Name); name != "" {
			authors = append(authors, name)
		}
	}

	return &types.PaperRecord{
		ID:       id,
		Title:    strings.TrimSpace(entry.Title),
		Abstract: strings.TrimSpace(entry.Summary),
		Year:     year,
		Authors:  authors,
		Journal:  "arXiv",
		URL:      fmt.Sprintf("https://arxiv.org/abs/%s", id),
		Source:   a.Name(),
	}, nil
}

// FetchFullText always reports no full text: the arXiv API serves
// metadata only.
func (a *Arxiv) FetchFullText(_ context.Context, _ string) (string, string, error) {
	return "", "", nil
}

func (a *Arxiv) fetchFeed(ctx context.Context, u string) (*arxivFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
