package diagnose

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor   = color.New(color.FgRed, color.Bold)
	exprLabel     = color.New(color.FgCyan, color.Bold)
	exprColor     = color.New(color.FgYellow)
	problemColor  = color.New(color.FgRed, color.Bold)
	fixColor      = color.New(color.FgGreen)
	locationColor = color.New(color.FgCyan)
	noteColor     = color.New(color.FgBlue)
	caretColor    = color.New(color.FgRed, color.Bold)
	summaryColor  = color.New(color.FgRed)
	tipColor      = color.New(color.FgBlue)
)

// locationLine matches Go compiler positions: path.go:line:col: message.
var locationLine = regexp.MustCompile(`^(\S+\.go):(\d+)(?::(\d+))?: (.*)$`)

// Format renders the complete compilation-error report: header, echoed
// expression, suggestion block when a rule matches, the raw diagnostic
// recategorized line by line, and a closing tip. Categorization only
// changes presentation; the diagnostic text itself is preserved.
func Format(stderr, expr string) string {
	var out []string

	out = append(out, headerColor.Sprint("✗ Compilation Error"), "")

	if expr != "" {
		out = append(out, "  "+exprLabel.Sprint("Your expression:")+" "+exprColor.Sprint(expr), "")
	}

	if s, ok := Suggest(stderr, expr); ok {
		out = append(out, "  "+problemColor.Sprint("Problem: ")+s.Problem)
		out = append(out, "  "+fixColor.Sprint("How to fix:"))
		for _, fix := range s.Fixes {
			out = append(out, "    - "+fix)
		}
		out = append(out, "")
	}

	for _, line := range strings.Split(strings.TrimRight(stderr, "\n"), "\n") {
		out = append(out, categorizeLine(line))
	}

	out = append(out, "", tipColor.Sprint("Tip: Check your expression syntax and ensure all parentheses match"))
	return strings.Join(out, "\n")
}

// categorizeLine tags one raw diagnostic line for display.
func categorizeLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return ""

	// Build-section headers emitted by the go tool ("# lobexpr").
	case strings.HasPrefix(line, "#"):
		return "  " + summaryColor.Sprint(line)

	// Positioned diagnostics; simplify the path to its base name so cache
	// paths do not leak into the report.
	case locationLine.MatchString(trimmed):
		m := locationLine.FindStringSubmatch(trimmed)
		loc := filepath.Base(m[1]) + ":" + m[2]
		if m[3] != "" {
			loc += ":" + m[3]
		}
		return "  " + locationColor.Sprint(loc+":") + " " + m[4]

	// Help and note lines.
	case strings.HasPrefix(trimmed, "note:"),
		strings.HasPrefix(trimmed, "have ("),
		strings.HasPrefix(trimmed, "want ("):
		return "  " + noteColor.Sprint(line)

	// Caret/annotation lines under a quoted source line.
	case strings.ContainsRune(trimmed, '^') && isAnnotation(trimmed):
		return "  " + caretColor.Sprint(line)

	// Abort summaries.
	case strings.HasPrefix(trimmed, "too many errors"):
		return "  " + summaryColor.Sprint(line)

	// Numbered or verbatim source context, and anything unrecognized,
	// passes through untouched.
	default:
		return "  " + line
	}
}

func isAnnotation(s string) bool {
	for _, r := range s {
		if r != '^' && r != '~' && r != ' ' && r != '|' {
			return false
		}
	}
	return true
}
