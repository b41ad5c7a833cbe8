// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate merges per-run CSV exports scattered under a directory
// tree into canonical tables at the root. Runs against different sources
// rediscover the same papers, so rows are deduplicated before the theory
// summary is regenerated.
package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/aging-agent/internal/tables"
	"github.com/pdiddy/aging-agent/pkg/taxonomy"
)

// Aggregator merges run exports under Root.
type Aggregator struct {
	Root string

	// Out receives progress and per-file warnings. Defaults to io.Discard
	// when nil.
	Out io.Writer
}

// Run aggregates the papers and annotations tables and regenerates the
// theory summary from the deduplicated papers table.
func (a *Aggregator) Run() error {
	out := a.Out
	if out == nil {
		out = io.Discard
	}

	papers, err := a.aggregateTable(out, tables.PapersFile, tables.PapersHeader)
	if err != nil {
		return err
	}
	if _, err := a.aggregateTable(out, tables.AnnotationsFile, tables.AnnotationsHeader); err != nil {
		return err
	}
	return a.writeSummary(out, papers)
}

// aggregateTable collects every file named filename under Root, merges the
// rows first-wins on (theory_id, paper_name, paper_year), drops unclassified
// rows, and writes the result back to Root/filename.
func (a *Aggregator) aggregateTable(out io.Writer, filename string, header []string) ([][]string, error) {
	paths, err := a.findFiles(filename)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "found %d files for %s\n", len(paths), filename)

	var rows [][]string
	for _, path := range paths {
		fileRows, err := readTable(path, header)
		if err != nil {
			fmt.Fprintf(out, "warning: skipping %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "loaded %s with %d rows\n", path, len(fileRows))
		rows = append(rows, fileRows...)
	}
	loaded := len(rows)
	rows = dedup(rows)
	deduped := len(rows)
	rows = dropUnclassified(rows)
	fmt.Fprintf(out, "%s: %d rows loaded, %d after dedup, %d kept\n",
		filename, loaded, deduped, len(rows))

	if err := writeTable(filepath.Join(a.Root, filename), header, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// findFiles returns every path under Root whose base name matches filename,
// sorted lexicographically so repeated runs pick first-wins rows in a
// stable order.
func (a *Aggregator) findFiles(filename string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(a.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == filename {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", a.Root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// readTable loads one CSV export. Files whose header does not start with the
// expected columns are rejected so stray CSVs with a matching name cannot
// poison the aggregate.
func readTable(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	if len(all[0]) < len(header) || !strings.EqualFold(all[0][0], header[0]) {
		return nil, fmt.Errorf("unexpected header %v", all[0])
	}

	var rows [][]string
	for _, row := range all[1:] {
		if len(row) < len(header) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Dedup key columns shared by the papers and annotations tables.
const (
	colTheoryID  = 0
	colPaperName = 2
	colPaperYear = 3
)

// dedup keeps the first row seen for each (theory_id, paper_name,
// paper_year) key.
func dedup(rows [][]string) [][]string {
	seen := make(map[string]bool, len(rows))
	var kept [][]string
	for _, row := range rows {
		key := row[colTheoryID] + "\x00" + row[colPaperName] + "\x00" + row[colPaperYear]
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}
	return kept
}

// dropUnclassified removes rows whose theory id is the unclassified
// sentinel. They carry no theory signal and would distort the summary.
func dropUnclassified(rows [][]string) [][]string {
	var kept [][]string
	for _, row := range rows {
		if id, err := strconv.Atoi(strings.TrimSpace(row[colTheoryID])); err == nil && id == taxonomy.Unclassified {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// writeSummary regenerates the theory summary table from the deduplicated
// papers rows, one row per theory id in ascending order.
func (a *Aggregator) writeSummary(out io.Writer, papers [][]string) error {
	counts := make(map[int]int)
	for _, row := range papers {
		id, err := strconv.Atoi(strings.TrimSpace(row[colTheoryID]))
		if err != nil {
			continue
		}
		counts[id]++
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{
			strconv.Itoa(id), taxonomy.Name(id), strconv.Itoa(counts[id]),
		})
		fmt.Fprintf(out, "  %s: %d papers\n", taxonomy.Name(id), counts[id])
	}
	return writeTable(filepath.Join(a.Root, tables.TheoriesFile), tables.TheoriesHeader, rows)
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
