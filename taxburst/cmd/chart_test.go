package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func diversityTable() *annotationTable {
	return &annotationTable{
		columns: []string{"id", "superkingdom", "phylum", "order"},
		rows: [][]string{
			{"seq1", "Eukaryota", "Chordata", "Primates"},
			{"seq2", "Eukaryota", "Chordata", "Primates"},
			{"seq3", "Eukaryota", "", "Primates"},
			{"seq4", "Bacteria", "Proteobacteria", "Enterobacterales"},
			{"seq5", "", "", ""},
		},
	}
}

func TestBuildHierarchyFillsOther(t *testing.T) {
	root, err := buildHierarchy(diversityTable(), []string{"superkingdom", "phylum", "order"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every row survives: missing values become Other instead of dropping rows.
	if root.count != 5 {
		t.Fatalf("expected 5 observations at root, got %d", root.count)
	}
	euk, ok := root.children["Eukaryota"]
	if !ok {
		t.Fatal("expected Eukaryota slice")
	}
	if euk.count != 3 {
		t.Fatalf("expected 3 Eukaryota observations, got %d", euk.count)
	}
	other, ok := euk.children[otherLabel]
	if !ok {
		t.Fatal("expected Other slice for missing phylum")
	}
	if other.count != 1 {
		t.Fatalf("expected 1 observation under Eukaryota/Other, got %d", other.count)
	}
	if _, ok := other.children["Primates"]; !ok {
		t.Fatal("expected row with missing phylum to keep its order value")
	}
	top, ok := root.children[otherLabel]
	if !ok || top.count != 1 {
		t.Fatal("expected fully-empty row under top-level Other")
	}
}

func TestBuildHierarchyMissingColumn(t *testing.T) {
	if _, err := buildHierarchy(diversityTable(), []string{"superkingdom", "subphylum"}); err == nil {
		t.Fatal("expected error for hierarchy rank missing from table")
	}
	if _, err := buildHierarchy(diversityTable(), nil); err == nil {
		t.Fatal("expected error for empty hierarchy")
	}
}

func TestSunburstSeries(t *testing.T) {
	root, err := buildHierarchy(diversityTable(), []string{"superkingdom", "phylum"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := sunburstSeries(root)
	if len(data) != 3 {
		t.Fatalf("expected 3 top-level slices, got %d", len(data))
	}
	// First-seen ordering.
	if data[0].Name != "Eukaryota" || data[1].Name != "Bacteria" || data[2].Name != otherLabel {
		t.Fatalf("unexpected top-level order: %s, %s, %s", data[0].Name, data[1].Name, data[2].Name)
	}
	// Inner slices carry children, leaves carry the count.
	if len(data[0].Children) != 2 {
		t.Fatalf("expected 2 Eukaryota children, got %d", len(data[0].Children))
	}
	if data[0].Children[0].Name != "Chordata" || data[0].Children[0].Value != 2 {
		t.Fatalf("unexpected first leaf: %+v", data[0].Children[0])
	}
	if data[0].Value != 0 {
		t.Fatalf("inner slice should not carry a value, got %v", data[0].Value)
	}
}

func TestTopRankColors(t *testing.T) {
	root, err := buildHierarchy(diversityTable(), []string{"superkingdom"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	colors := topRankColors(root, defaultColorMap)
	want := []string{"#D53500", "#56B4E9", "#189e3c"}
	if len(colors) != len(want) {
		t.Fatalf("expected %d colors, got %d", len(want), len(colors))
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Fatalf("expected colors %v, got %v", want, colors)
		}
	}

	// Unmapped categories take the Other fallback.
	colors = topRankColors(root, map[string]string{otherLabel: "#000000"})
	for _, c := range colors {
		if c != "#000000" {
			t.Fatalf("expected fallback color for all categories, got %v", colors)
		}
	}
}

func TestParseColorMap(t *testing.T) {
	colors, err := parseColorMap("Bacteria=#123456, Fungi=#abcdef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if colors["Bacteria"] != "#123456" {
		t.Errorf("expected override, got %q", colors["Bacteria"])
	}
	if colors["Fungi"] != "#abcdef" {
		t.Errorf("expected new entry, got %q", colors["Fungi"])
	}
	if colors["Eukaryota"] != defaultColorMap["Eukaryota"] {
		t.Errorf("expected default preserved, got %q", colors["Eukaryota"])
	}
	if _, err := parseColorMap("nonsense"); err == nil {
		t.Fatal("expected error for malformed assignment")
	}
}

func TestRenderSunburst(t *testing.T) {
	var buf bytes.Buffer
	err := renderSunburst(diversityTable(), "Test alignment", []string{"superkingdom", "phylum", "order"}, defaultColorMap, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test alignment") {
		t.Error("expected chart title in rendered output")
	}
	if !strings.Contains(out, "Eukaryota") {
		t.Error("expected category names in rendered output")
	}
	if !strings.Contains(out, otherLabel) {
		t.Error("expected sentinel category in rendered output")
	}
}
