package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	red  = color.New(color.FgRed, color.Bold).SprintFunc()
	bold = color.New(color.FgWhite, color.Bold).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
	gray = color.New(color.FgHiBlack).SprintFunc()
)

// Format returns the error formatted for terminal display.
// Colors follow color.NoColor.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(red("ERROR "))
		b.WriteString(bold(e.Code + ": "))
	} else {
		b.WriteString(red("ERROR: "))
	}
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	if e.Index != NoIndex {
		b.WriteString("  ")
		b.WriteString(cyan(fmt.Sprintf("at index %d", e.Index)))
		b.WriteString("\n\n")
	}

	detail := e.Detail
	if detail == "" {
		if t, ok := registry[e.Code]; ok {
			detail = t.Detail
		}
	}
	if detail != "" {
		for _, line := range wrapText(detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(gray("Caused by: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}

	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(cyan("Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}

	return b.String()
}

// FormatCompact returns a compact single-line error format.
func (e *Error) FormatCompact() string {
	var b strings.Builder

	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Index != NoIndex {
		fmt.Fprintf(&b, " at index %d", e.Index)
	}

	return b.String()
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var current strings.Builder

	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}

// PrintError prints a formatted error to w.
func PrintError(w io.Writer, err error) {
	if e, ok := err.(*Error); ok {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", red("ERROR:"), err.Error())
}
