package codegen

// OutputFormat selects how results are rendered.
type OutputFormat int

const (
	// Debug prints each value in Go syntax representation.
	Debug OutputFormat = iota
	// Json prints a single JSON array.
	Json
	// Jsonl prints one JSON value per line.
	Jsonl
	// CsvOut prints CSV rows (header from mapping keys, sorted).
	CsvOut
	// Table prints an aligned text table.
	Table
)

func (f OutputFormat) String() string {
	switch f {
	case Debug:
		return "debug"
	case Json:
		return "json"
	case Jsonl:
		return "jsonl"
	case CsvOut:
		return "csv"
	case Table:
		return "table"
	default:
		return "unknown"
	}
}

// ParseOutputFormat maps a CLI format name to an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, bool) {
	switch name {
	case "debug":
		return Debug, true
	case "json":
		return Json, true
	case "jsonl", "jsonlines":
		return Jsonl, true
	case "csv":
		return CsvOut, true
	case "table":
		return Table, true
	default:
		return Debug, false
	}
}

// DefaultOutputFormat picks the format when none was requested: debug for
// an interactive terminal, JSON lines for a pipe.
func DefaultOutputFormat(isTerminal bool) OutputFormat {
	if isTerminal {
		return Debug
	}
	return Jsonl
}
