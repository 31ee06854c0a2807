// Package codegen synthesizes a complete Go program around a user
// expression. Generation is pure text assembly: identical inputs must
// produce byte-identical source, because the source bytes are the cache
// identity for the compiled binary.
package codegen

import (
	"strings"
)

// streamName is the fixed local the input acquisition result binds to.
// The first `_` in the expression is substituted with it.
const streamName = "stream"

// terminalMarkers is the fixed vocabulary of terminal operations.
//
// Classification is a substring scan, not a parse. It is intentionally
// approximate: an expression that merely mentions one of these names inside
// a closure is misclassified as terminal. Kept simple on purpose.
var terminalMarkers = []string{
	".Count(",
	".Sum(",
	"Sum(",
	".Reduce(",
	".Fold(",
	"Fold(",
	".First(",
	".Last(",
	"Min(",
	"Max(",
	".Any(",
	".All(",
	".Collect(",
	".ToList(",
}

// inputCalls is the acquisition call matrix: format x {stdin, files}.
var inputCalls = map[InputFormat][2]string{
	Lines:     {"Input()", "InputFromFiles(Args())"},
	Csv:       {"InputCSV()", "InputCSVFromFiles(Args())"},
	Tsv:       {"InputTSV()", "InputTSVFromFiles(Args())"},
	JsonLines: {"InputJSON()", "InputJSONFromFiles(Args())"},
}

// outputCalls is the output stage matrix: format x {lazy, terminal}.
var outputCalls = map[OutputFormat][2]string{
	Debug:  {"OutputDebug(result)", "PrintDebug(result)"},
	Json:   {"OutputJSON(result)", "PrintJSON(result)"},
	Jsonl:  {"OutputJSONLines(result)", "PrintJSONLines(result)"},
	CsvOut: {"OutputCSV(result)", "PrintCSV(result)"},
	Table:  {"OutputTable(result)", "PrintTable(result)"},
}

// Generator renders a runnable program from an expression plus input and
// output selections.
type Generator struct {
	expression string
	source     InputSource
	format     OutputFormat
}

// New creates a generator. It never fails: syntactic validity of the
// expression is the compiler's concern.
func New(expression string, source InputSource, format OutputFormat) *Generator {
	return &Generator{expression: expression, source: source, format: format}
}

// Expression returns the original user expression.
func (g *Generator) Expression() string {
	return g.expression
}

// Generate renders the complete program source.
func (g *Generator) Generate() string {
	var b strings.Builder

	b.WriteString("// Code generated by lob. DO NOT EDIT.\n")
	b.WriteString("package main\n\n")
	b.WriteString("import . \"lob/prelude\"\n\n")
	b.WriteString("func main() {\n")

	expr := g.expression
	if g.usesInput() {
		b.WriteString("\t" + streamName + " := " + g.inputCall() + "\n")
		// Only the first underscore is the input marker; later ones are
		// ordinary identifiers in the user's own code.
		expr = strings.Replace(expr, "_", streamName, 1)
	}

	b.WriteString("\tresult := " + expr + "\n")
	b.WriteString("\t" + g.outputCall() + "\n")
	b.WriteString("}\n")

	return b.String()
}

// usesInput reports whether the expression consumes the input sequence,
// marked by a leading underscore.
func (g *Generator) usesInput() bool {
	return strings.HasPrefix(strings.TrimSpace(g.expression), "_")
}

func (g *Generator) inputCall() string {
	calls := inputCalls[g.source.Format]
	if g.source.IsStdin() {
		return calls[0]
	}
	return calls[1]
}

// IsTerminal reports whether the expression already reduces to a single
// value rather than a sequence requiring consumption.
func (g *Generator) IsTerminal() bool {
	for _, marker := range terminalMarkers {
		if strings.Contains(g.expression, marker) {
			return true
		}
	}
	return false
}

func (g *Generator) outputCall() string {
	calls := outputCalls[g.format]
	if g.IsTerminal() {
		return calls[1]
	}
	return calls[0]
}
