package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// rankOrder is the fixed set of recognized ranks, in output column order.
// Lineage nodes carrying any other rank label are dropped during resolution.
var rankOrder = []string{
	"superkingdom",
	"phylum",
	"genus",
	"class",
	"subphylum",
	"family",
	"order",
	"species",
}

// lineageSource resolves taxonomy identifiers against an external taxonomy
// store: the ordered ancestor chain for an identifier, plus scientific names
// and rank labels for arbitrary identifiers. Implemented by taxdump for NCBI
// dump files; tests supply an in-memory fake.
type lineageSource interface {
	// Lineage returns the ancestor chain from the root down to taxID,
	// inclusive. Unknown identifiers return an error.
	Lineage(taxID int) ([]int, error)
	// Names returns the scientific name for each given identifier.
	Names(ids []int) map[int]string
	// Ranks returns the rank label for each given identifier.
	Ranks(ids []int) map[int]string
}

// rankRecord holds the resolved name for every recognized rank of one
// taxonomy identifier. Every key of rankOrder is present; the value is ""
// when the lineage does not define that rank.
type rankRecord struct {
	taxID string
	names map[string]string
}

// loadTaxonomyLineage resolves each identifier to a rankRecord, in input
// order. Identifiers the source cannot resolve are logged and skipped; one
// bad identifier never aborts the rest of the batch. Callers are expected to
// pre-deduplicate: each identifier costs one Lineage call.
func loadTaxonomyLineage(taxIDs []string, src lineageSource, logger *log.Logger, bar *progress) []rankRecord {
	records := make([]rankRecord, 0, len(taxIDs))
	for _, raw := range taxIDs {
		bar.increment()

		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			logger.Warn("skipping malformed taxonomy id", "tax_id", raw, "err", err)
			continue
		}
		chain, err := src.Lineage(id)
		if err != nil {
			logger.Warn("skipping unresolvable taxonomy id", "tax_id", raw, "err", err)
			continue
		}

		names := src.Names(chain)
		ranks := src.Ranks(chain)

		rec := rankRecord{
			taxID: raw,
			names: make(map[string]string, len(rankOrder)),
		}
		for _, rank := range rankOrder {
			rec.names[rank] = ""
		}
		// Walking root -> leaf: when a chain carries the same rank label
		// twice, the later (more specific) node wins.
		for _, node := range chain {
			rank := ranks[node]
			if _, recognized := rec.names[rank]; !recognized {
				continue
			}
			rec.names[rank] = names[node]
		}
		records = append(records, rec)
	}
	bar.finish()
	return records
}

type taxNode struct {
	parent int
	rank   string
	name   string
}

// taxdump is a lineageSource backed by an NCBI taxdump directory
// (nodes.dmp + names.dmp). The caller supplies the directory location and
// owns its lifecycle; there is no default path.
type taxdump struct {
	nodes map[int]taxNode
}

const maxLineageDepth = 64

func openTaxdump(dir string) (*taxdump, error) {
	names, err := loadNames(filepath.Join(dir, "names.dmp"))
	if err != nil {
		return nil, err
	}
	nodes, err := loadNodes(filepath.Join(dir, "nodes.dmp"), names)
	if err != nil {
		return nil, err
	}
	return &taxdump{nodes: nodes}, nil
}

func (t *taxdump) Lineage(taxID int) ([]int, error) {
	if _, ok := t.nodes[taxID]; !ok {
		return nil, fmt.Errorf("unknown taxonomy id %d", taxID)
	}
	chain := make([]int, 0, 16)
	cur := taxID
	for depth := 0; depth < maxLineageDepth; depth++ {
		chain = append(chain, cur)
		node, ok := t.nodes[cur]
		if !ok || node.parent == cur {
			break
		}
		cur = node.parent
	}
	// Reverse into root -> leaf order to match the chain contract.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (t *taxdump) Names(ids []int) map[int]string {
	names := make(map[int]string, len(ids))
	for _, id := range ids {
		if node, ok := t.nodes[id]; ok {
			names[id] = node.name
		}
	}
	return names
}

func (t *taxdump) Ranks(ids []int) map[int]string {
	ranks := make(map[int]string, len(ids))
	for _, id := range ids {
		if node, ok := t.nodes[id]; ok {
			ranks[id] = node.rank
		}
	}
	return ranks
}

func loadNames(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open names.dmp: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	names := make(map[int]string, 1<<20)
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 10*1024*1024)
	for scanner.Scan() {
		fields := parseDmpLine(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		if fields[3] != "scientific name" {
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		if fields[1] == "" {
			continue
		}
		names[id] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan names.dmp: %w", err)
	}
	return names, nil
}

func loadNodes(path string, names map[int]string) (map[int]taxNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nodes.dmp: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	nodes := make(map[int]taxNode, 1<<20)
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 10*1024*1024)
	for scanner.Scan() {
		fields := parseDmpLine(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		parent, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		nodes[id] = taxNode{
			parent: parent,
			rank:   fields[2],
			name:   names[id],
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan nodes.dmp: %w", err)
	}
	return nodes, nil
}

func parseDmpLine(line string) []string {
	raw := strings.Split(line, "|")
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		field := strings.TrimSpace(part)
		if field != "" || len(out) > 0 {
			out = append(out, field)
		}
	}
	return out
}
