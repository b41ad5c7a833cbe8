// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tables owns the CSV output surface: the three submission tables
// plus the supplementary files. Files are append-only; a header row is
// written once when a file is first created, so interrupted runs can resume
// and append. Duplicate rows from re-processing are removed later by the
// aggregator, not here.
package tables

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/aging-agent/pkg/taxonomy"
	"github.com/pdiddy/aging-agent/pkg/types"
)

// Well-known output filenames. The aggregator discovers per-run exports by
// these exact names.
const (
	TheoriesFile    = "table1_theories.csv"
	PapersFile      = "table2_papers.csv"
	AnnotationsFile = "table3_annotations.csv"

	SupplementaryDir = "supplementary"
	TheoryTagsFile   = "theory_tags_detailed.csv"
	MetadataFile     = "paper_metadata.csv"
	QualityFile      = "quality_metrics.csv"
)

// Fixed header rows, written once at file creation.
var (
	TheoriesHeader    = []string{"theory_id", "theory_name", "number_of_collected_papers"}
	PapersHeader      = []string{"theory_id", "paper_url", "paper_name", "paper_year"}
	AnnotationsHeader = []string{"theory_id", "paper_url", "paper_name", "paper_year",
		"Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7", "Q8", "Q9"}

	theoryTagsHeader = []string{"paper_url", "theory_id", "theory_name", "confidence",
		"evidence_snippets", "source"}
	metadataHeader = []string{"paper_url", "pmid", "title", "abstract", "authors", "journal",
		"has_full_text", "full_text_source", "overall_confidence", "processing_time"}
	qualityHeader = []string{"paper_url", "question", "is_valid", "confidence",
		"issues", "evidence", "corrected_answer"}
)

// maxMetadataAuthors caps the authors column in the metadata table.
const maxMetadataAuthors = 5

// maxTagSnippets caps the evidence column in the theory-tags table.
const maxTagSnippets = 2

// Writer appends rows to the output tables of one run directory.
type Writer struct {
	dir     string
	suppDir string
}

// NewWriter creates the output directory tree and writes headers for any
// table file that does not already exist.
func NewWriter(dir string) (*Writer, error) {
	suppDir := filepath.Join(dir, SupplementaryDir)
	if err := os.MkdirAll(suppDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	w := &Writer{dir: dir, suppDir: suppDir}

	headers := []struct {
		path   string
		header []string
	}{
		{w.path(TheoriesFile), TheoriesHeader},
		{w.path(PapersFile), PapersHeader},
		{w.path(AnnotationsFile), AnnotationsHeader},
		{w.suppPath(TheoryTagsFile), theoryTagsHeader},
		{w.suppPath(MetadataFile), metadataHeader},
		{w.suppPath(QualityFile), qualityHeader},
	}
	for _, h := range headers {
		if err := ensureHeader(h.path, h.header); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Writer) path(name string) string     { return filepath.Join(w.dir, name) }
func (w *Writer) suppPath(name string) string { return filepath.Join(w.suppDir, name) }

// AppendPaper writes one papers-table row for the primary theory.
func (w *Writer) AppendPaper(theoryID int, url, name string, year int) error {
	return appendRows(w.path(PapersFile), [][]string{
		{strconv.Itoa(theoryID), url, name, strconv.Itoa(year)},
	})
}

// AppendAnnotations writes one annotations-table row: primary theory plus
// all nine answers.
func (w *Writer) AppendAnnotations(theoryID int, url, name string, year int, a types.Answers) error {
	row := append([]string{strconv.Itoa(theoryID), url, name, strconv.Itoa(year)}, a.Slice()...)
	return appendRows(w.path(AnnotationsFile), [][]string{row})
}

// AppendTheoryTags writes one detail row per tag.
func (w *Writer) AppendTheoryTags(url string, tags []types.TheoryTag) error {
	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		snippets := tag.EvidenceSnippets
		if len(snippets) > maxTagSnippets {
			snippets = snippets[:maxTagSnippets]
		}
		rows = append(rows, []string{
			url,
			strconv.Itoa(tag.TheoryID),
			tag.TheoryName,
			fmt.Sprintf("%.3f", tag.Confidence),
			strings.Join(snippets, " | "),
			string(tag.Provenance),
		})
	}
	return appendRows(w.suppPath(TheoryTagsFile), rows)
}

// AppendMetadata writes one supplementary metadata row for a processed paper.
func (w *Writer) AppendMetadata(rec *types.PaperRecord, hasFullText bool, fullTextSource, confidence string, seconds float64) error {
	authors := rec.Authors
	if len(authors) > maxMetadataAuthors {
		authors = authors[:maxMetadataAuthors]
	}
	if fullTextSource == "" {
		fullTextSource = "N/A"
	}
	return appendRows(w.suppPath(MetadataFile), [][]string{{
		rec.URL,
		rec.ID,
		rec.Title,
		rec.Abstract,
		strings.Join(authors, "; "),
		rec.Journal,
		strconv.FormatBool(hasFullText),
		fullTextSource,
		confidence,
		fmt.Sprintf("%.2f", seconds),
	}})
}

// AppendSummary flushes the theory->papers index accumulated during a run
// as counts appended to the summary table, in ascending theory-id order.
func (w *Writer) AppendSummary(theoryPapers map[int][]string) error {
	ids := make([]int, 0, len(theoryPapers))
	for id := range theoryPapers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{
			strconv.Itoa(id),
			taxonomy.Name(id),
			strconv.Itoa(len(theoryPapers[id])),
		})
	}
	return appendRows(w.path(TheoriesFile), rows)
}

// ensureHeader writes the header row if path does not exist yet.
func ensureHeader(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return writeAll(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, [][]string{header})
}

// appendRows opens path, appends the rows, and closes it. One open-write-
// close per batch keeps interleaved runs from corrupting rows.
func appendRows(path string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	return writeAll(path, os.O_WRONLY|os.O_APPEND, rows)
}

func writeAll(path string, flag int, rows [][]string) error {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
