package cmd

import (
	"fmt"
	"os"
)

func Execute(args []string) {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "enrich":
		runEnrich(args[1:])
	case "sunburst":
		runSunburst(args[1:])
	case "pipeline":
		runPipeline(args[1:])
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "taxburst - alignment taxonomy annotation tools")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  taxburst <command> [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  enrich     Annotate an alignment table with NCBI taxonomic lineages")
	fmt.Fprintln(os.Stderr, "  sunburst   Render a sunburst chart from an enriched table")
	fmt.Fprintln(os.Stderr, "  pipeline   Full pipeline: enrich -> sunburst")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'taxburst <command> -h' for command-specific options.")
}
