// Package prelude is the flat, dot-importable vocabulary generated lob
// programs are written against: sequence constructors, the input
// acquisition matrix, the output stage, and a handful of string and number
// helpers that keep one-liners short.
//
// Everything here is re-exported plumbing around lob/seq; the package holds
// no state beyond the output writer.
package prelude

import (
	"os"
	"strconv"
	"strings"

	"lob/seq"
)

// Row is a parsed CSV/TSV record: column name to cell text.
type Row = map[string]string

// From wraps a slice as a lazy sequence.
func From[T any](items []T) seq.Seq[T] {
	return seq.FromSlice(items)
}

// Range yields the integers [start, end).
func Range(start, end int) seq.Seq[int] {
	return seq.New(func(yield func(int) bool) {
		for i := start; i < end; i++ {
			if !yield(i) {
				return
			}
		}
	})
}

// Args returns the program's positional arguments. Generated programs
// receive their input files this way.
func Args() []string {
	return os.Args[1:]
}

// String helpers, re-exported so expressions need no imports of their own.

func Contains(s, substr string) bool { return strings.Contains(s, substr) }

func HasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }

func HasSuffix(s, suffix string) bool { return strings.HasSuffix(s, suffix) }

func Split(s, sep string) []string { return strings.Split(s, sep) }

func Fields(s string) []string { return strings.Fields(s) }

func Trim(s string) string { return strings.TrimSpace(s) }

func Lower(s string) string { return strings.ToLower(s) }

func Upper(s string) string { return strings.ToUpper(s) }

// Atoi parses an integer, yielding 0 for unparseable text. One-liners
// almost always want the lenient form; use strconv directly when the error
// matters.
func Atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// Itoa renders an integer.
func Itoa(n int) string {
	return strconv.Itoa(n)
}
