// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/aging-agent/internal/classify"
	"github.com/pdiddy/aging-agent/internal/questions"
	"github.com/pdiddy/aging-agent/internal/tables"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// fakeSource is an in-memory Source for pipeline tests.
type fakeSource struct {
	ids      []string
	records  map[string]*types.PaperRecord
	fullText map[string]string

	searchErr error
	metaErr   map[string]error
	textErr   map[string]error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	ids := f.ids
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

func (f *fakeSource) FetchMetadata(ctx context.Context, id string) (*types.PaperRecord, error) {
	if err := f.metaErr[id]; err != nil {
		return nil, err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("no record for %s", id)
	}
	return rec, nil
}

func (f *fakeSource) FetchFullText(ctx context.Context, id string) (string, string, error) {
	if err := f.textErr[id]; err != nil {
		return "", "", err
	}
	if text, ok := f.fullText[id]; ok {
		return text, "fake_fulltext", nil
	}
	return "", "", nil
}

// scriptedAI returns a fixed response for every prompt and records the
// prompts it saw.
type scriptedAI struct {
	response string
	err      error
	prompts  []string
}

func (s *scriptedAI) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const classifyResponse = `{"theory_tags": [{"theory_id": 2, "theory_name": "Telomere Shortening Theory", "confidence": 0.9, "evidence_snippets": ["telomeres shorten"]}]}`

const answersResponse = `{"Q1": "Yes, quantitatively shown", "Q2": "Yes", "Q3": "No", "Q4": "No", "Q5": "No", "Q6": "Yes", "Q7": "No", "Q8": "No", "Q9": "No"}`

func record(id string) *types.PaperRecord {
	return &types.PaperRecord{
		ID:       id,
		Title:    "Telomere dynamics in aging tissue " + id,
		Abstract: "We study telomere attrition across the lifespan.",
		Year:     2021,
		Authors:  []string{"Smith J", "Doe A"},
		Journal:  "J Gerontol",
		URL:      "https://example.org/" + id,
		Source:   "fake",
	}
}

func newTestProcessor(t *testing.T, src *fakeSource) (*Processor, string) {
	t.Helper()
	dir := t.TempDir()
	w, err := tables.NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	return &Processor{
		Source:     src,
		Classifier: &classify.Classifier{Backend: &scriptedAI{response: classifyResponse}},
		Extractor:  &questions.Extractor{Backend: &scriptedAI{response: answersResponse}},
		Tables:     w,
		Out:        io.Discard,
	}, dir
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestProcessPaperFullText(t *testing.T) {
	src := &fakeSource{
		ids:     []string{"p1"},
		records: map[string]*types.PaperRecord{"p1": record("p1")},
		fullText: map[string]string{
			"p1": strings.Repeat("telomere biology full text. ", 100),
		},
	}
	p, dir := newTestProcessor(t, src)

	res, err := p.ProcessPaper(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ProcessPaper: %v", err)
	}
	if !res.HasFullText {
		t.Error("expected HasFullText")
	}
	if res.PrimaryID != 2 {
		t.Errorf("PrimaryID = %d, want 2", res.PrimaryID)
	}

	papers := readRows(t, filepath.Join(dir, tables.PapersFile))
	if len(papers) != 2 {
		t.Fatalf("papers rows = %d, want header + 1", len(papers))
	}
	if papers[1][0] != "2" || papers[1][2] != src.records["p1"].Title {
		t.Errorf("unexpected papers row %v", papers[1])
	}

	ann := readRows(t, filepath.Join(dir, tables.AnnotationsFile))
	if len(ann) != 2 {
		t.Fatalf("annotations rows = %d, want 2", len(ann))
	}
	if ann[1][4] != "Yes, quantitatively shown" {
		t.Errorf("Q1 = %q", ann[1][4])
	}

	meta := readRows(t, filepath.Join(dir, tables.SupplementaryDir, tables.MetadataFile))
	if got := meta[1][6]; got != "true" {
		t.Errorf("has_full_text = %q, want true", got)
	}
	if got := meta[1][8]; got != "high" {
		t.Errorf("overall_confidence = %q, want high", got)
	}
}

func TestProcessPaperAbstractFallback(t *testing.T) {
	src := &fakeSource{
		ids:     []string{"p1"},
		records: map[string]*types.PaperRecord{"p1": record("p1")},
	}
	p, dir := newTestProcessor(t, src)
	classifyAI := p.Classifier.Backend.(*scriptedAI)

	res, err := p.ProcessPaper(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ProcessPaper: %v", err)
	}
	if res.HasFullText {
		t.Error("expected abstract-only result")
	}

	// The classifier sees the abstract when no full text exists.
	if len(classifyAI.prompts) != 1 || !strings.Contains(classifyAI.prompts[0], "telomere attrition") {
		t.Error("classifier prompt does not contain the abstract")
	}

	meta := readRows(t, filepath.Join(dir, tables.SupplementaryDir, tables.MetadataFile))
	if got := meta[1][8]; got != "medium" {
		t.Errorf("overall_confidence = %q, want medium", got)
	}
}

func TestProcessPaperFullTextErrorIsSoft(t *testing.T) {
	src := &fakeSource{
		records: map[string]*types.PaperRecord{"p1": record("p1")},
		textErr: map[string]error{"p1": fmt.Errorf("gateway timeout")},
	}
	p, _ := newTestProcessor(t, src)

	res, err := p.ProcessPaper(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ProcessPaper: %v", err)
	}
	if res.HasFullText {
		t.Error("full-text error should degrade to abstract")
	}
}

func TestProcessPaperMetadataFailureAborts(t *testing.T) {
	src := &fakeSource{
		metaErr: map[string]error{"p1": fmt.Errorf("not found")},
	}
	p, dir := newTestProcessor(t, src)

	if _, err := p.ProcessPaper(context.Background(), "p1"); err == nil {
		t.Fatal("expected error")
	}
	papers := readRows(t, filepath.Join(dir, tables.PapersFile))
	if len(papers) != 1 {
		t.Errorf("papers rows = %d, want header only", len(papers))
	}
}

func newTestRunner(t *testing.T, src *fakeSource, cfg types.RunConfig) (*Runner, string) {
	t.Helper()
	p, dir := newTestProcessor(t, src)
	cfg.OutputDir = dir
	cfg.PaperDelay = time.Nanosecond
	return &Runner{Processor: p, Config: cfg, Out: io.Discard}, dir
}

func TestRunProcessesTarget(t *testing.T) {
	src := &fakeSource{records: map[string]*types.PaperRecord{}}
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("p%d", i)
		src.ids = append(src.ids, id)
		src.records[id] = record(id)
	}
	r, dir := newTestRunner(t, src, types.RunConfig{TargetPapers: 4})

	stats, err := r.Run(context.Background(), "telomere[Title/Abstract]")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.PapersProcessed != 4 {
		t.Errorf("PapersProcessed = %d, want 4", stats.PapersProcessed)
	}
	if want := 4 * 0.04; math.Abs(stats.EstimatedCostUSD-want) > 1e-9 {
		t.Errorf("EstimatedCostUSD = %v, want %v", stats.EstimatedCostUSD, want)
	}

	// All four papers share primary theory 2, so the summary has one row.
	sum := readRows(t, filepath.Join(dir, tables.TheoriesFile))
	if len(sum) != 2 {
		t.Fatalf("summary rows = %d, want header + 1", len(sum))
	}
	if sum[1][0] != "2" || sum[1][2] != "4" {
		t.Errorf("summary row = %v", sum[1])
	}

	runs, err := ReadRunLog(dir)
	if err != nil {
		t.Fatalf("ReadRunLog: %v", err)
	}
	if len(runs) != 1 || runs[0].PapersProcessed != 4 {
		t.Errorf("run log = %+v", runs)
	}
}

func TestRunSkipsFailingPapers(t *testing.T) {
	src := &fakeSource{
		ids: []string{"bad", "p1"},
		records: map[string]*types.PaperRecord{
			"p1": record("p1"),
		},
		metaErr: map[string]error{"bad": fmt.Errorf("boom")},
	}
	r, _ := newTestRunner(t, src, types.RunConfig{TargetPapers: 5})

	stats, err := r.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.PapersProcessed != 1 {
		t.Errorf("PapersProcessed = %d, want 1", stats.PapersProcessed)
	}
}

func TestRunCostCeiling(t *testing.T) {
	src := &fakeSource{records: map[string]*types.PaperRecord{}}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("p%d", i)
		src.ids = append(src.ids, id)
		src.records[id] = record(id)
	}
	r, _ := newTestRunner(t, src, types.RunConfig{TargetPapers: 10, MaxCostUSD: 0.09})

	stats, err := r.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.PapersProcessed != 2 {
		t.Errorf("PapersProcessed = %d, want 2 under a $0.09 ceiling", stats.PapersProcessed)
	}
	if stats.Stopped != "cost_ceiling" {
		t.Errorf("Stopped = %q", stats.Stopped)
	}
}

func TestRunCancelledStillFinalizes(t *testing.T) {
	src := &fakeSource{
		ids:     []string{"p1", "p2"},
		records: map[string]*types.PaperRecord{"p1": record("p1"), "p2": record("p2")},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, dir := newTestRunner(t, src, types.RunConfig{TargetPapers: 2})

	stats, err := r.Run(ctx, "q")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Stopped != "cancelled" {
		t.Errorf("Stopped = %q, want cancelled", stats.Stopped)
	}
	if _, err := os.Stat(filepath.Join(dir, RunLogFile)); err != nil {
		t.Errorf("run log missing after cancellation: %v", err)
	}
}

func TestRunSearchError(t *testing.T) {
	src := &fakeSource{searchErr: fmt.Errorf("service unavailable")}
	r, _ := newTestRunner(t, src, types.RunConfig{})
	if _, err := r.Run(context.Background(), "q"); err == nil {
		t.Fatal("expected search error")
	}
}

func TestLoadQueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	content := "queries:\n  - telomere[Title/Abstract]\n  - mTOR[Title/Abstract] AND aging\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	qs, err := LoadQueryFile(path)
	if err != nil {
		t.Fatalf("LoadQueryFile: %v", err)
	}
	if len(qs) != 2 || qs[0] != "telomere[Title/Abstract]" {
		t.Errorf("queries = %v", qs)
	}
}

func TestLoadQueryFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	if err := os.WriteFile(path, []byte("queries: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadQueryFile(path); err == nil {
		t.Fatal("expected error for empty query list")
	}
}

func TestDefaultQueriesCoverTheories(t *testing.T) {
	joined := strings.Join(DefaultQueries, "\n")
	for _, term := range []string{"telomere", "mitochondrial", "senescence", "proteostasis", "mTOR", "epigenetic"} {
		if !strings.Contains(joined, term) {
			t.Errorf("default queries missing %q", term)
		}
	}
}

func TestAppendRunLogAccumulates(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 3; i++ {
		if err := AppendRunLog(dir, Stats{Query: fmt.Sprintf("q%d", i), PapersProcessed: i}); err != nil {
			t.Fatalf("AppendRunLog: %v", err)
		}
	}
	runs, err := ReadRunLog(dir)
	if err != nil {
		t.Fatalf("ReadRunLog: %v", err)
	}
	if len(runs) != 3 || runs[2].Query != "q3" {
		t.Errorf("runs = %+v", runs)
	}
}
