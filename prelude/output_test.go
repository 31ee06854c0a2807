package prelude

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"lob/seq"
)

// capture swaps the output sink for a buffer for the duration of f.
func capture(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	saved := out
	out = &buf
	defer func() { out = saved }()
	f()
	return buf.String()
}

func TestOutputDebug_OnePerLine(t *testing.T) {
	got := capture(t, func() {
		OutputDebug(seq.FromSlice([]int{1, 2}))
	})
	assert.Equal(t, "1\n2\n", got)
}

func TestOutputDebug_GoSyntaxForStrings(t *testing.T) {
	got := capture(t, func() {
		OutputDebug(seq.FromSlice([]string{"hi"}))
	})
	assert.Equal(t, "\"hi\"\n", got)
}

func TestOutputJSON_ArrayForm(t *testing.T) {
	got := capture(t, func() {
		OutputJSON(seq.FromSlice([]int{1, 2, 3}))
	})
	assert.Equal(t, "[1,2,3]\n", got)
}

func TestOutputJSON_EmptySequenceIsEmptyArray(t *testing.T) {
	got := capture(t, func() {
		OutputJSON(seq.FromSlice([]int(nil)))
	})
	assert.Equal(t, "[]\n", got)
}

func TestOutputJSONLines_OneValuePerLine(t *testing.T) {
	got := capture(t, func() {
		OutputJSONLines(seq.FromSlice([]Row{{"a": "1"}, {"a": "2"}}))
	})
	assert.Equal(t, "{\"a\":\"1\"}\n{\"a\":\"2\"}\n", got)
}

func TestOutputCSV_SortedHeaderFromFirstRow(t *testing.T) {
	rows := []Row{
		{"name": "ann", "age": "30"},
		{"name": "ben", "age": "25"},
	}
	got := capture(t, func() {
		OutputCSV(seq.FromSlice(rows))
	})
	assert.Equal(t, "age,name\n30,ann\n25,ben\n", got)
}

func TestOutputCSV_MissingKeysRenderEmpty(t *testing.T) {
	rows := []Row{
		{"a": "1", "b": "2"},
		{"a": "3"},
	}
	got := capture(t, func() {
		OutputCSV(seq.FromSlice(rows))
	})
	assert.Equal(t, "a,b\n1,2\n3,\n", got)
}

func TestOutputCSV_ScalarsHaveNoHeader(t *testing.T) {
	got := capture(t, func() {
		OutputCSV(seq.FromSlice([]string{"x", "y"}))
	})
	assert.Equal(t, "x\ny\n", got)
}

func TestOutputCSV_EmptySequenceWritesNothing(t *testing.T) {
	got := capture(t, func() {
		OutputCSV(seq.FromSlice([]Row(nil)))
	})
	assert.Empty(t, got, "no header-only output")
}

func TestOutputTable_AlignedWithHeader(t *testing.T) {
	rows := []Row{
		{"name": "ann", "age": "30"},
		{"name": "benjamin", "age": "25"},
	}
	got := capture(t, func() {
		OutputTable(seq.FromSlice(rows))
	})

	lines := bytes.Split([]byte(got), []byte("\n"))
	assert.Contains(t, string(lines[0]), "age")
	assert.Contains(t, string(lines[0]), "name")
	assert.Contains(t, got, "benjamin")
}

func TestOutputTable_EmptySequenceWritesNothing(t *testing.T) {
	got := capture(t, func() {
		OutputTable(seq.FromSlice([]Row(nil)))
	})
	assert.Empty(t, got)
}

func TestPrintDebug_SingleValue(t *testing.T) {
	got := capture(t, func() {
		PrintDebug(42)
	})
	assert.Equal(t, "42\n", got)
}

func TestPrintJSON_SingleValue(t *testing.T) {
	got := capture(t, func() {
		PrintJSON(map[string]int{"count": 7})
	})
	assert.Equal(t, "{\"count\":7}\n", got)
}

func TestPrintJSONLines_SameAsPrintJSON(t *testing.T) {
	a := capture(t, func() { PrintJSONLines(42) })
	b := capture(t, func() { PrintJSON(42) })
	assert.Equal(t, b, a)
}

func TestPrintCSV_SingleRow(t *testing.T) {
	got := capture(t, func() {
		PrintCSV(7)
	})
	assert.Equal(t, "7\n", got)
}

func TestPrintTable_SingleMappingRow(t *testing.T) {
	got := capture(t, func() {
		PrintTable(Row{"count": "7"})
	})
	assert.Contains(t, got, "count")
	assert.Contains(t, got, "7")
}

func TestTabulate_MapStringAnyRows(t *testing.T) {
	items := []any{
		map[string]any{"n": 1, "s": "x"},
		map[string]any{"n": 2},
	}
	header, records := tabulate(items)

	assert.Equal(t, []string{"n", "s"}, header)
	assert.Equal(t, [][]string{{"1", "x"}, {"2", ""}}, records)
}
