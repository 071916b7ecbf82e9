package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// taxColumn is the annotation column whose values embed a taxonomy
// identifier after the last '=' (e.g. "OS=Homo sapiens Tax=9606").
const taxColumn = "Tax"

// taxIDColumn is appended by enrichment with the extracted identifier.
const taxIDColumn = "tax_ID"

// annotationTable is a column-named table of string cells, one row per
// aligned sequence. Rows may be ragged; missing cells read as "".
type annotationTable struct {
	columns []string
	rows    [][]string
}

func (t *annotationTable) columnIndex(name string) int {
	return indexOf(t.columns, name)
}

// addColumn appends a column with one value per existing row. Ragged rows
// are padded first so the value lands in the new column.
func (t *annotationTable) addColumn(name string, values []string) {
	width := len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		for len(t.rows[i]) < width {
			t.rows[i] = append(t.rows[i], "")
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		t.rows[i] = append(t.rows[i], v)
	}
}

func readAnnotationTSV(r io.Reader) (*annotationTable, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 50*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, errors.New("annotation TSV is empty")
	}

	table := &annotationTable{
		columns: strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t"),
	}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		table.rows = append(table.rows, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan annotation TSV: %w", err)
	}
	return table, nil
}

func writeAnnotationTSV(table *annotationTable, w io.Writer) error {
	writer := bufio.NewWriterSize(w, writerBufferSize)
	if _, err := writer.WriteString(strings.Join(table.columns, "\t") + "\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cells := make([]string, len(table.columns))
	for _, row := range table.rows {
		for i := range table.columns {
			cells[i] = field(row, i)
		}
		if _, err := writer.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return writer.Flush()
}

// extractTaxID pulls the identifier out of an annotation value: the segment
// after the last '='. A value with no '=' is returned whole, matching the
// jackhmmer Stockholm convention where the identifier is the trailing
// "Tax=<id>" segment.
func extractTaxID(annotation string) string {
	i := strings.LastIndexByte(annotation, '=')
	return strings.TrimSpace(annotation[i+1:])
}

// enrichAnnotation appends tax_ID plus the recognized rank columns to the
// table, resolving each distinct identifier exactly once against src and
// left-joining the results back by tax_ID. The row count is unchanged: rows
// whose identifier fails resolution keep empty rank values.
func enrichAnnotation(table *annotationTable, src lineageSource, logger *log.Logger, showProgress bool) error {
	taxIdx := table.columnIndex(taxColumn)
	if taxIdx < 0 {
		return fmt.Errorf("annotation table has no %q column", taxColumn)
	}

	ids := make([]string, len(table.rows))
	for i, row := range table.rows {
		ids[i] = extractTaxID(field(row, taxIdx))
	}
	table.addColumn(taxIDColumn, ids)

	// One database round-trip per distinct identifier, not per row.
	seen := make(map[string]bool, len(ids))
	distinct := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		distinct = append(distinct, id)
	}

	bar := newProgress(len(distinct), showProgress, "resolving lineages")
	records := loadTaxonomyLineage(distinct, src, logger, bar)
	logger.Debug("resolved taxonomy identifiers",
		"distinct", len(distinct), "resolved", len(records))

	byID := make(map[string]rankRecord, len(records))
	for _, rec := range records {
		byID[rec.taxID] = rec
	}
	for _, rank := range rankOrder {
		values := make([]string, len(table.rows))
		for i, id := range ids {
			if rec, ok := byID[id]; ok {
				values[i] = rec.names[rank]
			}
		}
		table.addColumn(rank, values)
	}
	return nil
}
