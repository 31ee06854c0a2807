package cli

import (
	"fmt"

	"github.com/fatih/color"
)

// printWelcome shows usage and examples when lob runs interactively with
// no expression.
func printWelcome() {
	title := color.New(color.FgCyan, color.Bold)
	section := color.New(color.Bold)
	dim := color.New(color.Faint)
	cyan := color.New(color.FgCyan)

	title.Println("lob - Compiled Pipeline Tool")
	fmt.Println()

	section.Println("USAGE:")
	fmt.Println("    lob [OPTIONS] <EXPRESSION> [FILE...]")
	fmt.Println("    command | lob [OPTIONS] <EXPRESSION>")
	fmt.Println()

	section.Println("EXAMPLES:")
	dim.Println("    # Count matching lines")
	fmt.Println(`    seq 1 100 | lob '_.Filter(func(x string) bool { return Atoi(x)%2 == 0 }).Count()'`)
	dim.Println("    # Output: 50")
	fmt.Println()

	dim.Println("    # Process a file directly")
	fmt.Println(`    lob '_.Filter(func(x string) bool { return len(x) > 5 }).Take(10)' data.txt`)
	fmt.Println()

	dim.Println("    # Parse CSV data")
	fmt.Println(`    lob --parse-csv '_.Filter(func(r Row) bool { return Atoi(r["age"]) > 18 })' users.csv`)
	fmt.Println()

	section.Println("COMMON OPERATIONS:")
	fmt.Printf("    %s Filter, Take, Skip, TakeWhile, DropWhile\n", cyan.Sprint("Selection: "))
	fmt.Printf("    %s Map, Enumerate, Zip\n", cyan.Sprint("Transform: "))
	fmt.Printf("    %s Chunk, Window, GroupBy\n", cyan.Sprint("Grouping:  "))
	fmt.Printf("    %s Count, Sum, Min, Max, ToList\n", cyan.Sprint("Terminal:  "))
	fmt.Println()

	section.Println("INPUT FORMATS:")
	fmt.Println("    --parse-csv         Parse input as CSV with headers")
	fmt.Println("    --parse-tsv         Parse input as TSV with headers")
	fmt.Println("    --parse-json        Parse each line as JSON")
	fmt.Println()

	section.Println("OUTPUT FORMATS:")
	fmt.Println("    --format debug      Go syntax representation (terminal default)")
	fmt.Println("    --format json       JSON array")
	fmt.Println("    --format jsonl      JSON lines (pipe default)")
	fmt.Println("    --format csv        CSV output")
	fmt.Println("    --format table      Aligned table output")
	fmt.Println()

	fmt.Println("Run 'lob --help' for the full flag reference.")
}
