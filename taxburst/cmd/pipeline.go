package cmd

import (
	"flag"
	"fmt"
	"os"
)

func runPipeline(args []string) {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	input := fs.String("input", "", "Annotation TSV or Stockholm alignment (.gz ok)")
	format := fs.String("format", "auto", "Input format: auto, tsv or stockholm")
	taxdumpDir := fs.String("taxdump-dir", "", "NCBI taxdump directory with nodes.dmp/names.dmp")
	enrichedOut := fs.String("enriched-output", "enriched.tsv", "Enriched annotation TSV output (.gz ok)")
	parquetOut := fs.String("parquet", "", "Optional Parquet copy of the enriched table")
	chartOut := fs.String("chart-output", "sunburst.html", "Output HTML chart")
	title := fs.String("title", "Taxonomic diversity", "Chart title")
	hier := fs.String("hierarchy", "superkingdom,phylum,order", "Comma-separated rank path, highest rank first")
	colorSpec := fs.String("colors", "", "Top-rank color overrides as Name=#hex,Name=#hex")
	progressOn := fs.Bool("progress", true, "Show progress bar")
	force := fs.Bool("force", false, "Overwrite existing outputs")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}

	if *input == "" {
		fatalf("input is required")
	}
	if *taxdumpDir == "" {
		fatalf("taxdump-dir is required")
	}
	if !*force && fileExists(*chartOut) {
		fmt.Fprintf(os.Stderr, "Output exists, skipping: %s\n", *chartOut)
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

	logger := newLogger(*verbose)
	table, err := enrichFile(*input, *format, *taxdumpDir, logger, *progressOn)
	if err != nil {
		fatalf("enrich failed: %v", err)
	}
	if err := writeTableOutputs(table, *enrichedOut, *parquetOut, logger); err != nil {
		fatalf("write failed: %v", err)
	}

	if err := writeSunburstHTML(table, *title, hierarchy, colors, *chartOut); err != nil {
		fatalf("sunburst failed: %v", err)
	}
	logger.Info("wrote sunburst chart", "path", *chartOut)
}
