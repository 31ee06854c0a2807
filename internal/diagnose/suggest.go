// Package diagnose translates raw compiler stderr into a categorized,
// suggestion-augmented report. It is a pure function over text: malformed
// or partial diagnostics degrade to plain recategorized lines, never to a
// panic.
package diagnose

import "strings"

// Suggestion is a recognized failure pattern with ordered remediation.
type Suggestion struct {
	Problem string
	Fixes   []string
}

// parseFlagMethods are expression fragments that look like input-format
// parsing invoked as a method; the matching fix points at the CLI flag.
// Ordered so the report is stable when several fragments appear.
var parseFlagMethods = []struct {
	fragment string
	flag     string
}{
	{".ParseCSV(", "--parse-csv"},
	{".ParseTSV(", "--parse-tsv"},
	{".ParseJSON(", "--parse-json"},
}

// Suggest matches stderr against the fixed rule set, first match wins.
// The expression, when given, sharpens the unresolved-function rule.
func Suggest(stderr, expr string) (Suggestion, bool) {
	// String/number comparison mismatch.
	if strings.Contains(stderr, "mismatched types") &&
		strings.Contains(stderr, "string") &&
		(strings.Contains(stderr, "untyped int") || strings.Contains(stderr, " int")) {
		return Suggestion{
			Problem: "Cannot compare string with number",
			Fixes: []string{
				`Parse to number first: Atoi(x) or strconv.Atoi`,
				`Compare string lengths instead: len(x) > 5`,
				`Compare as strings: x > "5"`,
			},
		}, true
	}

	// Unresolved free function or method.
	if strings.Contains(stderr, "undefined:") {
		for _, m := range parseFlagMethods {
			if strings.Contains(expr, m.fragment) {
				name := strings.TrimSuffix(strings.TrimPrefix(m.fragment, "."), "(")
				return Suggestion{
					Problem: name + "() is not a method",
					Fixes: []string{
						"Use the " + m.flag + " flag: lob " + m.flag + " '_.Filter(...)'",
					},
				}, true
			}
		}
		return Suggestion{
			Problem: "Unknown function or method",
			Fixes: []string{
				"Check available operations: Filter, Map, Take, Skip, Count, Sum",
				"Run lob without arguments for the operation list",
			},
		}, true
	}

	// Closure with the wrong parameter or return type.
	if strings.Contains(stderr, "func literal") ||
		(strings.Contains(stderr, "cannot use") && strings.Contains(stderr, "func(")) {
		return Suggestion{
			Problem: "Type mismatch in closure",
			Fixes: []string{
				"Check the closure parameter types against the element type",
				"Spell the types explicitly: func(x string) bool { ... }",
			},
		}, true
	}

	// Row indexed with a string on a non-map value.
	if strings.Contains(stderr, "non-integer string index") ||
		(strings.Contains(stderr, "index") && strings.Contains(stderr, "must be integer")) {
		return Suggestion{
			Problem: "Cannot index string with string",
			Fixes: []string{
				"For CSV rows: add the --parse-csv flag so rows become maps",
				`Access columns with: row["column_name"]`,
			},
		}, true
	}

	// (value, ok) pair consumed as a single value.
	if strings.Contains(stderr, "single-value context") ||
		strings.Contains(stderr, "2-valued") {
		return Suggestion{
			Problem: "Operation returns (value, ok) - assign both",
			Fixes: []string{
				"Extract the value: v, _ := stream.First()",
				"Check presence: v, ok := stream.First()",
			},
		}, true
	}

	// Ranging over a non-sequence.
	if strings.Contains(stderr, "cannot range over") {
		return Suggestion{
			Problem: "Value is not a sequence",
			Fixes: []string{
				"Wrap it first: From(value)",
				"Terminal operations (Count, Sum) return values, not sequences",
			},
		}, true
	}

	return Suggestion{}, false
}
