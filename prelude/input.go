package prelude

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"lob/seq"
)

// Input yields stdin as trimmed, non-empty lines.
func Input() seq.Seq[string] {
	return linesFrom(os.Stdin)
}

// InputFromFiles yields the lines of each file in order. Unreadable files
// are skipped; a one-liner has no error channel to report them on.
func InputFromFiles(paths []string) seq.Seq[string] {
	var lines []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		lines = append(lines, linesFrom(f).Collect()...)
		f.Close()
	}
	return seq.FromSlice(lines)
}

// InputCSV parses stdin as headered CSV.
func InputCSV() seq.Seq[Row] {
	return seq.FromSlice(readDelimited(os.Stdin, ','))
}

// InputCSVFromFiles parses each file as headered CSV.
func InputCSVFromFiles(paths []string) seq.Seq[Row] {
	return seq.FromSlice(delimitedFromFiles(paths, ','))
}

// InputTSV parses stdin as headered TSV.
func InputTSV() seq.Seq[Row] {
	return seq.FromSlice(readDelimited(os.Stdin, '\t'))
}

// InputTSVFromFiles parses each file as headered TSV.
func InputTSVFromFiles(paths []string) seq.Seq[Row] {
	return seq.FromSlice(delimitedFromFiles(paths, '\t'))
}

// InputJSON decodes each stdin line as one JSON value. Undecodable lines
// are dropped.
func InputJSON() seq.Seq[any] {
	return seq.FromSlice(jsonLinesFrom(os.Stdin))
}

// InputJSONFromFiles decodes each line of each file as one JSON value.
func InputJSONFromFiles(paths []string) seq.Seq[any] {
	var values []any
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		values = append(values, jsonLinesFrom(f)...)
		f.Close()
	}
	return seq.FromSlice(values)
}

func linesFrom(r io.Reader) seq.Seq[string] {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return seq.New(func(yield func(string) bool) {
		for scanner.Scan() {
			line := Trim(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	})
}

func readDelimited(r io.Reader, delim rune) []Row {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func delimitedFromFiles(paths []string, delim rune) []Row {
	var rows []Row
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		rows = append(rows, readDelimited(f, delim)...)
		f.Close()
	}
	return rows
}

func jsonLinesFrom(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var values []any
	for scanner.Scan() {
		line := scanner.Bytes()
		var v any
		if err := json.Unmarshal(line, &v); err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}
