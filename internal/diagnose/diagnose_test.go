package diagnose

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Assertions match on plain text.
	color.NoColor = true
	os.Exit(m.Run())
}

func TestSuggest_StringNumberComparison(t *testing.T) {
	stderr := `./main.go:6:25: invalid operation: x > 5 (mismatched types string and untyped int)`

	s, ok := Suggest(stderr, `_.Filter(func(x string) bool { return x > 5 })`)
	require.True(t, ok)
	assert.Equal(t, "Cannot compare string with number", s.Problem)
	require.NotEmpty(t, s.Fixes)
	assert.Contains(t, s.Fixes[0], "Atoi")
}

func TestSuggest_ParseMethodPointsAtFlag(t *testing.T) {
	stderr := `./main.go:6:17: undefined: seq.Seq[string].ParseCSV`

	s, ok := Suggest(stderr, `_.ParseCSV().Count()`)
	require.True(t, ok)
	assert.Equal(t, "ParseCSV() is not a method", s.Problem)
	require.Len(t, s.Fixes, 1)
	assert.Contains(t, s.Fixes[0], "--parse-csv")
}

func TestSuggest_ParseMethodVariants(t *testing.T) {
	cases := []struct {
		expr string
		flag string
	}{
		{`_.ParseTSV()`, "--parse-tsv"},
		{`_.ParseJSON()`, "--parse-json"},
	}
	for _, tc := range cases {
		s, ok := Suggest("undefined: whatever", tc.expr)
		require.True(t, ok, tc.expr)
		assert.Contains(t, s.Fixes[0], tc.flag)
	}
}

func TestSuggest_UndefinedWithoutParseMethod(t *testing.T) {
	s, ok := Suggest(`./main.go:6:12: undefined: Frobnicate`, `_.Frobnicate()`)
	require.True(t, ok)
	assert.Equal(t, "Unknown function or method", s.Problem)
}

func TestSuggest_ClosureTypeMismatch(t *testing.T) {
	stderr := `./main.go:6:20: cannot use func literal (value of type func(x int) bool) as func(string) bool value`

	s, ok := Suggest(stderr, "")
	require.True(t, ok)
	assert.Equal(t, "Type mismatch in closure", s.Problem)
}

func TestSuggest_StringIndexedWithString(t *testing.T) {
	stderr := `./main.go:6:30: invalid argument: non-integer string index "age"`

	s, ok := Suggest(stderr, `_.Filter(func(r string) bool { return r["age"] != "" })`)
	require.True(t, ok)
	assert.Equal(t, "Cannot index string with string", s.Problem)
	assert.Contains(t, strings.Join(s.Fixes, "\n"), "--parse-csv")
}

func TestSuggest_MultiValueInSingleContext(t *testing.T) {
	stderr := `./main.go:6:12: multiple-value stream.First() (value of type (string, bool)) in single-value context`

	s, ok := Suggest(stderr, "_.First()")
	require.True(t, ok)
	assert.Contains(t, s.Problem, "(value, ok)")
}

func TestSuggest_CannotRangeOver(t *testing.T) {
	stderr := `./main.go:7:14: cannot range over result (variable of type int)`

	s, ok := Suggest(stderr, "")
	require.True(t, ok)
	assert.Equal(t, "Value is not a sequence", s.Problem)
}

func TestSuggest_UnrecognizedStderrYieldsNothing(t *testing.T) {
	_, ok := Suggest("some completely novel diagnostic", "")
	assert.False(t, ok)
}

func TestSuggest_FirstMatchWins(t *testing.T) {
	// Both the mismatched-types and undefined rules could fire; the
	// mismatched-types rule is checked first.
	stderr := "mismatched types string and untyped int\nundefined: Foo"

	s, ok := Suggest(stderr, "")
	require.True(t, ok)
	assert.Equal(t, "Cannot compare string with number", s.Problem)
}

func TestFormat_HeaderExpressionAndTip(t *testing.T) {
	got := Format("./main.go:6:1: undefined: Foo", "_.Foo()")

	assert.Contains(t, got, "✗ Compilation Error")
	assert.Contains(t, got, "Your expression: _.Foo()")
	assert.Contains(t, got, "Problem: ")
	assert.Contains(t, got, "How to fix:")
	assert.Contains(t, got, "Tip: Check your expression syntax")
}

func TestFormat_OmitsExpressionBlockWhenEmpty(t *testing.T) {
	got := Format("some diagnostic", "")
	assert.NotContains(t, got, "Your expression:")
}

func TestFormat_SimplifiesLocationPaths(t *testing.T) {
	stderr := "/home/user/.cache/lob/build/abc123/main.go:6:25: undefined: Foo"

	got := Format(stderr, "")
	assert.Contains(t, got, "main.go:6:25:")
	assert.NotContains(t, got, "/home/user/.cache")
}

func TestFormat_PreservesDiagnosticText(t *testing.T) {
	stderr := "# lobexpr\n./main.go:6:25: invalid operation: x > 5 (mismatched types string and untyped int)\ntoo many errors"

	got := Format(stderr, "")
	assert.Contains(t, got, "# lobexpr")
	assert.Contains(t, got, "invalid operation: x > 5 (mismatched types string and untyped int)")
	assert.Contains(t, got, "too many errors")
}

func TestFormat_UnmatchedStderrStillRendersReport(t *testing.T) {
	got := Format("novel diagnostic nobody has rules for", "_.X()")

	assert.Contains(t, got, "✗ Compilation Error")
	assert.NotContains(t, got, "Problem:")
	assert.Contains(t, got, "novel diagnostic nobody has rules for")
}

func TestFormat_NoPanicOnDegenerateInput(t *testing.T) {
	for _, stderr := range []string{"", "\n\n\n", ":::", "main.go:", "^^^^", strings.Repeat("x", 1<<16)} {
		assert.NotPanics(t, func() { Format(stderr, "") })
	}
}

func TestCategorizeLine_NoteAndAnnotationLines(t *testing.T) {
	assert.Contains(t, categorizeLine("\thave (int)"), "have (int)")
	assert.Contains(t, categorizeLine("\twant (string)"), "want (string)")
	assert.Contains(t, categorizeLine("note: module requires go 1.24"), "note:")
	assert.Contains(t, categorizeLine("        ^~~~"), "^~~~")
	assert.Equal(t, "", categorizeLine("   "))
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, isAnnotation("^"))
	assert.True(t, isAnnotation("  ^~~~ |"))
	assert.False(t, isAnnotation("x ^"))
}
