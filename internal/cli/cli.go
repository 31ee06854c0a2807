// Package cli wires the pipeline together: flag parsing, cache management
// commands, synthesis, toolchain resolution, compilation and execution.
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"lob/internal/cache"
	"lob/internal/codegen"
	"lob/internal/loberr"
)

type rootFlags struct {
	parseCSV  bool
	parseTSV  bool
	parseJSON bool

	format     string
	showSource bool

	clearCache bool
	cacheStats bool

	verbose bool
	stats   bool
}

// NewRootCommand builds the lob command.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "lob [flags] <EXPRESSION> [FILE...]",
		Short: "Run compiled data pipeline one-liners",
		Long: "lob compiles a short pipeline expression into a native binary,\n" +
			"caches the result by content hash, and runs it against stdin or files.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.parseCSV, "parse-csv", false, "Parse input as CSV with headers (rows become maps)")
	cmd.Flags().BoolVar(&flags.parseTSV, "parse-tsv", false, "Parse input as TSV with headers")
	cmd.Flags().BoolVar(&flags.parseJSON, "parse-json", false, "Parse each input line as JSON")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: debug|json|jsonl|csv|table")
	cmd.Flags().BoolVarP(&flags.showSource, "show-source", "s", false, "Print the generated source instead of running it")
	cmd.Flags().BoolVar(&flags.clearCache, "clear-cache", false, "Clear the compilation cache")
	cmd.Flags().BoolVar(&flags.cacheStats, "cache-stats", false, "Print cache statistics")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose progress output")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "Print timing statistics after the run")

	return cmd
}

func run(args []string, flags *rootFlags) error {
	// Cache management commands run without an expression.
	if flags.clearCache {
		return runClearCache()
	}
	if flags.cacheStats {
		return runCacheStats()
	}

	if len(args) == 0 {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			printWelcome()
			return nil
		}
		return loberr.InvalidExpressionf("no expression provided; use --help for usage")
	}

	inv, err := buildInvocation(args, flags)
	if err != nil {
		return err
	}
	return execute(inv)
}

func runClearCache() error {
	store, err := cache.Default()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Cache cleared successfully")
	return nil
}

func runCacheStats() error {
	store, err := cache.Default()
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Println("Cache statistics:")
	fmt.Printf("  Cached binaries: %d\n", stats.Count)
	fmt.Printf("  Total size: %s\n", stats.HumanSize())
	fmt.Printf("  Cache directory: %s\n", store.Dir())
	return nil
}

// invocation is the canonicalized description of one run: everything the
// orchestrator needs, resolved before any pipeline work starts.
type invocation struct {
	Expression   string
	Source       codegen.InputSource
	OutputFormat codegen.OutputFormat

	ShowSource bool
	Verbose    bool
	Stats      bool
}

func buildInvocation(args []string, flags *rootFlags) (invocation, error) {
	expression := args[0]
	files := args[1:]

	inputFormat, err := resolveInputFormat(flags)
	if err != nil {
		return invocation{}, err
	}

	source := codegen.NewInputSource(files, inputFormat)
	if err := source.Validate(); err != nil {
		return invocation{}, err
	}

	outputFormat, err := resolveOutputFormat(flags.format)
	if err != nil {
		return invocation{}, err
	}

	return invocation{
		Expression:   expression,
		Source:       source,
		OutputFormat: outputFormat,
		ShowSource:   flags.showSource,
		Verbose:      flags.verbose,
		Stats:        flags.stats,
	}, nil
}

func resolveInputFormat(flags *rootFlags) (codegen.InputFormat, error) {
	selected := 0
	format := codegen.Lines
	if flags.parseCSV {
		selected++
		format = codegen.Csv
	}
	if flags.parseTSV {
		selected++
		format = codegen.Tsv
	}
	if flags.parseJSON {
		selected++
		format = codegen.JsonLines
	}
	if selected > 1 {
		return format, loberr.InvalidExpressionf("--parse-csv, --parse-tsv and --parse-json are mutually exclusive")
	}
	return format, nil
}

func resolveOutputFormat(name string) (codegen.OutputFormat, error) {
	if name == "" {
		return codegen.DefaultOutputFormat(isatty.IsTerminal(os.Stdout.Fd())), nil
	}
	format, ok := codegen.ParseOutputFormat(name)
	if !ok {
		return format, loberr.InvalidExpressionf("unknown output format: %s", name)
	}
	return format, nil
}
