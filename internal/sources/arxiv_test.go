// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>A stochastic model of replicative senescence</title>
    <summary>We model telomere-driven senescence limits.</summary>
    <published>2023-01-17T12:00:00Z</published>
    <author><name>J. Smith</name></author>
    <author><name>L. Wu</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2204.01100v1</id>
    <title>Second paper</title>
    <summary>Abstract two.</summary>
    <published>2022-04-03T09:00:00Z</published>
    <author><name>A. Author</name></author>
  </entry>
</feed>`

func newArxivServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if sq := q.Get("search_query"); sq != "" {
			if strings.Contains(sq, "[Title/Abstract]") {
				t.Errorf("PubMed syntax leaked into arXiv query: %q", sq)
			}
			if !strings.Contains(sq, "cat:q-bio*") {
				t.Errorf("query not restricted to q-bio: %q", sq)
			}
		}
		w.Write([]byte(arxivFeedXML))
	}))
}

func TestArxivSearch(t *testing.T) {
	ts := newArxivServer(t)
	defer ts.Close()
	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	a := NewArxiv(testCfg())
	ids, err := a.Search(context.Background(), "senescence[Title/Abstract] AND aging", 20)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// Version suffixes are stripped from entry ids.
	if len(ids) != 2 || ids[0] != "2301.07041" || ids[1] != "2204.01100" {
		t.Errorf("ids = %v", ids)
	}
}

func TestArxivFetchMetadata(t *testing.T) {
	ts := newArxivServer(t)
	defer ts.Close()
	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	a := NewArxiv(testCfg())
	rec, err := a.FetchMetadata(context.Background(), "2301.07041")
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if rec.Title != "A stochastic model of replicative senescence" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Year != 2023 {
		t.Errorf("Year = %d", rec.Year)
	}
	if rec.Journal != "arXiv" {
		t.Errorf("Journal = %q", rec.Journal)
	}
	if len(rec.Authors) != 2 || rec.Authors[0] != "J. Smith" {
		t.Errorf("Authors = %v", rec.Authors)
	}
	if rec.URL != "https://arxiv.org/abs/2301.07041" {
		t.Errorf("URL = %q", rec.URL)
	}
}

func TestArxivNoFullText(t *testing.T) {
	a := NewArxiv(testCfg())
	text, label, err := a.FetchFullText(context.Background(), "2301.07041")
	if err != nil || text != "" || label != "" {
		t.Errorf("FetchFullText() = (%q, %q, %v), want empty", text, label, err)
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"https://arxiv.org/abs/q-bio/0601001v3", "q-bio/0601001"},
		{"http://example.com/nothing", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
