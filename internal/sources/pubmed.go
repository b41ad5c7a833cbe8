// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/aging-agent/internal/httputil"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// pubmedAPIBase is the NCBI E-utilities endpoint. Declared as a var so
// tests can substitute an httptest server.
var pubmedAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// PubMed queries the NCBI E-utilities API and retrieves full text from
// PubMed Central when a PMC link exists.
type PubMed struct {
	cfg    types.SearchConfig
	client *http.Client
}

// NewPubMed returns a PubMed adapter.
func NewPubMed(cfg types.SearchConfig) *PubMed {
	return &PubMed{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Name returns the adapter identifier.
func (p *PubMed) Name() string { return "pubmed" }

// Search runs an esearch query sorted by relevance and returns PMIDs.
func (p *PubMed) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	u := fmt.Sprintf("%s/esearch.fcgi?db=pubmed&term=%s&retmax=%d&retmode=json&sort=relevance",
		pubmedAPIBase, url.QueryEscape(query), maxResults)

	var body struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := httputil.GetJSON(ctx, p.client, u, p.cfg.UserAgent, &body); err != nil {
		return nil, fmt.Errorf("searching PubMed: %w", err)
	}
	return body.ESearchResult.IDList, nil
}

// pubmedArticleSet mirrors the efetch XML for db=pubmed.
type pubmedArticleSet struct {
	Articles []struct {
		PMID     string   `xml:"MedlineCitation>PMID"`
		Title    string   `xml:"MedlineCitation>Article>ArticleTitle"`
		Abstract []string `xml:"MedlineCitation>Article>Abstract>AbstractText"`
		Journal  string   `xml:"MedlineCitation>Article>Journal>Title"`
		Year     string   `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
		Authors  []struct {
			LastName string `xml:"LastName"`
			ForeName string `xml:"ForeName"`
		} `xml:"MedlineCitation>Article>AuthorList>Author"`
	} `xml:"PubmedArticle"`
}

// FetchMetadata retrieves and normalizes one PubMed record.
func (p *PubMed) FetchMetadata(ctx context.Context, pmid string) (*types.PaperRecord, error) {
	u := fmt.Sprintf("%s/efetch.fcgi?db=pubmed&id=%s&retmode=xml", pubmedAPIBase, url.QueryEscape(pmid))

	data, err := p.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching PubMed metadata: %w", err)
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing PubMed response: %w", err)
	}
	if len(set.Articles) == 0 {
		return nil, fmt.Errorf("PMID %s not found", pmid)
	}
	a := set.Articles[0]

	year := 0
	if y, err := strconv.Atoi(a.Year); err == nil {
		year = y
	}

	var authors []string
	for _, au := range a.Authors {
		if au.LastName == "" {
			continue
		}
		name := au.LastName
		if au.ForeName != "" {
			name = au.ForeName + " " + name
		}
		authors = append(authors, name)
	}

	return &types.PaperRecord{
		ID:       pmid,
		Title:    strings.TrimSpace(a.Title),
		Abstract: strings.TrimSpace(strings.Join(a.Abstract, " ")),
		Year:     year,
		Authors:  authors,
		Journal:  strings.TrimSpace(a.Journal),
		URL:      fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", pmid),
		Source:   p.Name(),
	}, nil
}

// FetchFullText looks for a PMC link and, when present, fetches the PMC
// article XML and flattens its abstract and body sections.
func (p *PubMed) FetchFullText(ctx context.Context, pmid string) (string, string, error) {
	linkURL := fmt.Sprintf("%s/elink.fcgi?dbfrom=pubmed&id=%s&linkname=pubmed_pmc&retmode=json",
		pubmedAPIBase, url.QueryEscape(pmid))

	var linkBody struct {
		LinkSets []struct {
			LinkSetDBs []struct {
				Links []string `json:"links"`
			} `json:"linksetdbs"`
		} `json:"linksets"`
	}
	if err := httputil.GetJSON(ctx, p.client, linkURL, p.cfg.UserAgent, &linkBody); err != nil {
		return "", "", fmt.Errorf("checking PMC link: %w", err)
	}

	pmcID := ""
	if len(linkBody.LinkSets) > 0 && len(linkBody.LinkSets[0].LinkSetDBs) > 0 {
		links := linkBody.LinkSets[0].LinkSetDBs[0].Links
		if len(links) > 0 {
			pmcID = "PMC" + links[0]
		}
	}
	if pmcID == "" {
		return "", "", nil
	}

	fetchURL := fmt.Sprintf("%s/efetch.fcgi?db=pmc&id=%s&rettype=xml&retmode=xml", pubmedAPIBase, pmcID)
	data, err := p.get(ctx, fetchURL)
	if err != nil {
		return "", "", fmt.Errorf("fetching PMC full text: %w", err)
	}

	text := flattenArticleXML(data)
	if text == "" {
		return "", "", nil
	}
	return text, "pmc", nil
}

// get GETs a URL with the configured User-Agent and 429 retry, returning
// the raw body.
func (p *PubMed) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s returned HTTP %d", u, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// flattenArticleXML extracts readable text from a JATS article: the
// abstract (prefixed with an ABSTRACT heading) and every body section,
// with element boundaries turned into line breaks.
func flattenArticleXML(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var sb strings.Builder
	inAbstract, inBody := 0, 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "abstract":
				inAbstract++
				sb.WriteString("\nABSTRACT:\n")
			case "body":
				inBody++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "abstract":
				inAbstract--
			case "body":
				inBody--
			case "title", "p", "sec":
				if inAbstract > 0 || inBody > 0 {
					sb.WriteString("\n")
				}
			}
		case xml.CharData:
			if inAbstract > 0 || inBody > 0 {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
