package prelude

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"lob/seq"
)

// out is the output sink; tests swap it for a buffer.
var out io.Writer = os.Stdout

// Lazy output stage: each form consumes a sequence.

// OutputDebug prints every element in Go syntax representation, one per
// line.
func OutputDebug[T any](s seq.Seq[T]) {
	for v := range s.Iter() {
		fmt.Fprintf(out, "%#v\n", v)
	}
}

// OutputJSON materializes the sequence and prints it as one JSON array.
func OutputJSON[T any](s seq.Seq[T]) {
	items := s.Collect()
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	fmt.Fprintln(out, string(data))
}

// OutputJSONLines prints each element as one JSON value per line.
func OutputJSONLines[T any](s seq.Seq[T]) {
	for v := range s.Iter() {
		data, err := json.Marshal(v)
		if err != nil {
			continue
		}
		fmt.Fprintln(out, string(data))
	}
}

// OutputCSV materializes the sequence and writes CSV rows. Mapping rows get
// a header of the first row's keys in lexicographic order; an empty
// sequence writes nothing at all.
func OutputCSV[T any](s seq.Seq[T]) {
	writeCSV(collectAny(s))
}

// OutputTable materializes the sequence and renders an aligned text table.
// An empty sequence renders nothing, not a header-only table.
func OutputTable[T any](s seq.Seq[T]) {
	writeTable(collectAny(s))
}

// Terminal output stage: each form takes the already-reduced value.

// PrintDebug prints a single value in Go syntax representation.
func PrintDebug(v any) {
	fmt.Fprintf(out, "%#v\n", v)
}

// PrintJSON prints a single value as JSON.
func PrintJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintln(out, string(data))
}

// PrintJSONLines prints a single value as one JSON line.
func PrintJSONLines(v any) {
	PrintJSON(v)
}

// PrintCSV writes a single value as a one-row CSV document. CSV is
// row-oriented, so the value is wrapped in a one-element row set.
func PrintCSV(v any) {
	writeCSV([]any{v})
}

// PrintTable renders a single value as a one-row table.
func PrintTable(v any) {
	writeTable([]any{v})
}

func collectAny[T any](s seq.Seq[T]) []any {
	var items []any
	for v := range s.Iter() {
		items = append(items, v)
	}
	return items
}

// tabulate flattens mapping or scalar rows into header + records. Headers
// come from the first row's keys, sorted lexicographically; scalar rows
// have no header and a single column.
func tabulate(items []any) (header []string, records [][]string) {
	if len(items) == 0 {
		return nil, nil
	}

	switch first := items[0].(type) {
	case Row:
		header = sortedKeys(first)
	case map[string]any:
		header = sortedAnyKeys(first)
	}

	for _, item := range items {
		switch row := item.(type) {
		case Row:
			rec := make([]string, len(header))
			for i, key := range header {
				rec[i] = row[key]
			}
			records = append(records, rec)
		case map[string]any:
			rec := make([]string, len(header))
			for i, key := range header {
				if v, ok := row[key]; ok {
					rec[i] = fmt.Sprint(v)
				}
			}
			records = append(records, rec)
		default:
			records = append(records, []string{fmt.Sprint(item)})
		}
	}
	return header, records
}

func writeCSV(items []any) {
	header, records := tabulate(items)
	if len(records) == 0 {
		return
	}
	w := csv.NewWriter(out)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return
		}
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return
		}
	}
	w.Flush()
}

func writeTable(items []any) {
	header, records := tabulate(items)
	if len(records) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	if len(header) > 0 {
		fmt.Fprintln(w, tabJoin(header))
	}
	for _, rec := range records {
		fmt.Fprintln(w, tabJoin(rec))
	}
	w.Flush()
}

func tabJoin(fields []string) string {
	s := ""
	for i, f := range fields {
		if i > 0 {
			s += "\t"
		}
		s += f
	}
	return s
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAnyKeys(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
