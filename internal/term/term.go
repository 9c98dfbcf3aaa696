// Package term provides terminal formatting for diagnostics and verbose
// logging (C9), reimplementing the compiler's traditional ANSI formatter
// helper on top of the ecosystem color library instead of hand-rolled
// escape codes.
package term

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	kindColor  = color.New(color.FgRed, color.Bold)
	fileColor  = color.New(color.FgWhite, color.Bold)
	noteColor  = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen, color.Bold)
)

// FormatDiagnostic renders "FILE:LINE:COL: <KIND> <message>" with the kind
// tag highlighted, for display to a color-capable terminal.
func FormatDiagnostic(w io.Writer, file string, line, col int, kind, message string) {
	fileColor.Fprintf(w, "%s:%d:%d: ", file, line, col)
	kindColor.Fprint(w, kind)
	fmt.Fprintf(w, " %s\n", message)
}

// Note prints a yellow informational line, used for warnings.
func Note(w io.Writer, message string) {
	noteColor.Fprintln(w, message)
}

// OK prints a success line, used by the CLI on a clean compile.
func OK(w io.Writer, message string) {
	okColor.Fprintln(w, message)
}
