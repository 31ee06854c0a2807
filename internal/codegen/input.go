package codegen

import (
	"os"

	"lob/internal/loberr"
)

// InputFormat selects how raw input is parsed before the expression sees it.
type InputFormat int

const (
	// Lines yields trimmed, non-empty text lines.
	Lines InputFormat = iota
	// Csv yields one map per record, keyed by header.
	Csv
	// Tsv is Csv with a tab delimiter.
	Tsv
	// JsonLines yields one decoded JSON value per line.
	JsonLines
)

func (f InputFormat) String() string {
	switch f {
	case Lines:
		return "lines"
	case Csv:
		return "csv"
	case Tsv:
		return "tsv"
	case JsonLines:
		return "json"
	default:
		return "unknown"
	}
}

// InputSource is the ordered list of input files plus the parse format.
// An empty file list means standard input. Read-only for the run.
type InputSource struct {
	Files  []string
	Format InputFormat
}

// NewInputSource creates an input source from CLI arguments.
func NewInputSource(files []string, format InputFormat) InputSource {
	return InputSource{Files: files, Format: format}
}

// IsStdin reports whether input comes from standard input.
func (s InputSource) IsStdin() bool {
	return len(s.Files) == 0
}

// Validate checks that every input file exists.
func (s InputSource) Validate() error {
	for _, file := range s.Files {
		if _, err := os.Stat(file); err != nil {
			return loberr.IOf("file not found: %s", file)
		}
	}
	return nil
}
