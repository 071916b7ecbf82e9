package cmd

import (
	"flag"
	"fmt"
	"os"
)

func runSunburst(args []string) {
	fs := flag.NewFlagSet("sunburst", flag.ExitOnError)
	input := fs.String("input", "enriched.tsv", "Enriched annotation TSV (.gz ok)")
	output := fs.String("output", "sunburst.html", "Output HTML chart")
	title := fs.String("title", "Taxonomic diversity", "Chart title")
	hier := fs.String("hierarchy", "superkingdom,phylum,order", "Comma-separated rank path, highest rank first")
	colorSpec := fs.String("colors", "", "Top-rank color overrides as Name=#hex,Name=#hex")
	force := fs.Bool("force", false, "Overwrite existing outputs")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}

	if !*force && fileExists(*output) {
		fmt.Fprintf(os.Stderr, "Output exists, skipping: %s\n", *output)
		return
	}

	hierarchy := splitList(*hier)
	if len(hierarchy) == 0 {
		hierarchy = append(hierarchy, defaultHierarchy...)
	}
	colors, err := parseColorMap(*colorSpec)
	if err != nil {
		fatalf("parse colors failed: %v", err)
	}

	table, err := readAnnotation(*input, "tsv")
	if err != nil {
		fatalf("read enriched table failed: %v", err)
	}

	if err := writeSunburstHTML(table, *title, hierarchy, colors, *output); err != nil {
		fatalf("sunburst failed: %v", err)
	}
}

func writeSunburstHTML(table *annotationTable, title string, hierarchy []string, colors map[string]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart output: %w", err)
	}
	if err := renderSunburst(table, title, hierarchy, colors, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
