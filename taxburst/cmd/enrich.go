package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

func runEnrich(args []string) {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	input := fs.String("input", "", "Annotation TSV or Stockholm alignment (.gz ok)")
	format := fs.String("format", "auto", "Input format: auto, tsv or stockholm")
	taxdumpDir := fs.String("taxdump-dir", "", "NCBI taxdump directory with nodes.dmp/names.dmp")
	output := fs.String("output", "enriched.tsv", "Enriched annotation TSV output (.gz ok)")
	parquetOut := fs.String("parquet", "", "Optional Parquet copy of the enriched table")
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
	if !*force && fileExists(*output) {
		fmt.Fprintf(os.Stderr, "Output exists, skipping: %s\n", *output)
		return
	}

	logger := newLogger(*verbose)
	table, err := enrichFile(*input, *format, *taxdumpDir, logger, *progressOn)
	if err != nil {
		fatalf("enrich failed: %v", err)
	}

	if err := writeTableOutputs(table, *output, *parquetOut, logger); err != nil {
		fatalf("write failed: %v", err)
	}
}

func enrichFile(inputPath, format, taxdumpDir string, logger *log.Logger, showProgress bool) (*annotationTable, error) {
	table, err := readAnnotation(inputPath, format)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded annotation table", "rows", len(table.rows), "columns", len(table.columns))

	db, err := openTaxdump(taxdumpDir)
	if err != nil {
		return nil, fmt.Errorf("open taxdump: %w", err)
	}
	if err := enrichAnnotation(table, db, logger, showProgress); err != nil {
		return nil, err
	}
	return table, nil
}

func readAnnotation(path, format string) (*annotationTable, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	resolved := resolveFormat(path, format)
	switch resolved {
	case "stockholm":
		return readStockholmAnnotation(in)
	case "tsv":
		return readAnnotationTSV(in)
	default:
		return nil, fmt.Errorf("unknown input format %q", resolved)
	}
}

func resolveFormat(path, format string) string {
	if format != "auto" && format != "" {
		return format
	}
	base := strings.TrimSuffix(path, ".gz")
	switch {
	case strings.HasSuffix(base, ".sto"), strings.HasSuffix(base, ".stk"),
		strings.HasSuffix(base, ".stockholm"):
		return "stockholm"
	default:
		return "tsv"
	}
}

func writeTableOutputs(table *annotationTable, tsvPath, parquetPath string, logger *log.Logger) error {
	out, err := createOutput(tsvPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeAnnotationTSV(table, out); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	logger.Info("wrote enriched table", "path", tsvPath, "rows", len(table.rows))

	if parquetPath != "" {
		if err := writeParquet(table, parquetPath); err != nil {
			return fmt.Errorf("write parquet: %w", err)
		}
		logger.Info("wrote parquet copy", "path", parquetPath)
	}
	return nil
}
