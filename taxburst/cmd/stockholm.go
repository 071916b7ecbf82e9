package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// readStockholmAnnotation builds an annotation table from the "#=GS <seq> DE"
// lines of a Stockholm alignment (as written by jackhmmer against UniProt).
// The description's leading free text becomes the "name" column; every
// "Key=value" segment becomes its own column, so a UniProt-style description
// yields OS, OX and Tax columns. Sequence data and other markup are ignored.
func readStockholmAnnotation(r io.Reader) (*annotationTable, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 10*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read stockholm header: %w", err)
		}
		return nil, errors.New("stockholm file is empty")
	}
	first := strings.ToLower(strings.Trim(scanner.Text(), " #"))
	if !strings.HasPrefix(first, "stockholm") {
		return nil, errors.New("first line does not contain 'STOCKHOLM 1.0'")
	}

	table := &annotationTable{columns: []string{"id", "name"}}
	rowByID := make(map[string]int)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "//" {
			break
		}
		if !strings.HasPrefix(line, "#=GS ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[2] != "DE" {
			continue
		}
		id := fields[1]
		name, pairs := parseDescription(strings.Join(fields[3:], " "))

		idx, ok := rowByID[id]
		if !ok {
			idx = len(table.rows)
			rowByID[id] = idx
			table.rows = append(table.rows, make([]string, len(table.columns)))
			table.rows[idx][0] = id
		}
		table.rows[idx][1] = name
		for _, p := range pairs {
			col := table.columnIndex(p.key)
			if col < 0 {
				col = len(table.columns)
				table.columns = append(table.columns, p.key)
			}
			row := table.rows[idx]
			for len(row) <= col {
				row = append(row, "")
			}
			row[col] = p.value
			table.rows[idx] = row
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan stockholm: %w", err)
	}
	return table, nil
}

type descPair struct {
	key   string
	value string
}

// parseDescription splits a UniProt-style description into its leading free
// text and the ordered Key=value segments that follow, e.g.
// "Myoglobin OS=Physeter catodon OX=9755 Tax=9755" ->
// "Myoglobin", [{OS "Physeter catodon"} {OX "9755"} {Tax "9755"}].
// Values run until the next Key= token, so names with spaces stay intact.
func parseDescription(desc string) (string, []descPair) {
	var leading []string
	var pairs []descPair
	key := ""
	var value []string

	flush := func() {
		if key != "" {
			pairs = append(pairs, descPair{key: key, value: strings.Join(value, " ")})
		}
		key = ""
		value = value[:0]
	}

	for _, token := range strings.Fields(desc) {
		if k, v, ok := splitKeyValue(token); ok {
			flush()
			key = k
			value = append(value, v)
			continue
		}
		if key == "" {
			leading = append(leading, token)
		} else {
			value = append(value, token)
		}
	}
	flush()
	return strings.Join(leading, " "), pairs
}

// splitKeyValue recognizes "Key=value" tokens whose key is short and purely
// alphanumeric, which keeps accession-like tokens containing '=' deeper in
// free text from starting a bogus segment.
func splitKeyValue(token string) (string, string, bool) {
	i := strings.IndexByte(token, '=')
	if i <= 0 || i > 12 {
		return "", "", false
	}
	key := token[:i]
	for j := 0; j < len(key); j++ {
		c := key[j]
		if !(c >= 'A' && c <= 'Z') && !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '_' {
			return "", "", false
		}
	}
	return key, token[i+1:], true
}
