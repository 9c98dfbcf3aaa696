// Package diag implements the compiler's error reporter (C4): a sum type of
// diagnostic kinds plus a stop-on-first-error reporter.
package diag

import "fmt"

// Kind tags the taxonomy of spec.md §7. Never compare diagnostics by string.
type Kind int

const (
	Lex Kind = iota
	Parse
	Name
	Type
	Scope
	Reserved
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "LEX"
	case Parse:
		return "PARSE"
	case Name:
		return "NAME"
	case Type:
		return "TYPE"
	case Scope:
		return "SCOPE"
	case Reserved:
		return "RESERVED"
	default:
		return "UNKNOWN"
	}
}

// Error is one diagnostic, carrying file/line/column per spec.md §7.
type Error struct {
	Kind    Kind
	File    string
	Line    int
	Col     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", e.File, e.Line, e.Col, e.Kind, e.Message)
}

// Abort is panicked by the compiler the moment the first diagnostic is
// reported, unwinding the whole compilation unit. It is recovered once, at
// the top of compiler.Compile, and converted back into a returned error —
// this keeps "stop on first error, no backtracking" without global state.
type Abort struct {
	Err *Error
}

func (a *Abort) Error() string { return a.Err.Error() }

// Reporter collects the single diagnostic a compilation unit is allowed to
// produce before aborting. Warnings may accumulate freely; they never abort.
type Reporter struct {
	Filename string
	Warnings []string
}

func New(filename string) *Reporter {
	return &Reporter{Filename: filename}
}

// Fail records the diagnostic and immediately unwinds the current
// compilation via panic(*Abort). Callers never see Fail return.
func (r *Reporter) Fail(kind Kind, line, col int, message string) {
	err := &Error{Kind: kind, File: r.Filename, Line: line, Col: col, Message: message}
	panic(&Abort{Err: err})
}

// Warn records a non-fatal diagnostic (unused import, dead branch, …).
func (r *Reporter) Warn(line, col int, message string) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s:%d:%d: WARNING %s", r.Filename, line, col, message))
}
