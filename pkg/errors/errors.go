package errors

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Zentiph/Zen/pkg/source"
)

// ZenError is the interface implemented by all Zen errors.
type ZenError interface {
	error
	Pos() Position
	Kind() string // e.g. "Lex", "IO"
	// Message returns the specific error message without position info,
	// for callers that want to format the error differently.
	Message() string
	Unwrap() error
}

// LexError represents a malformed piece of source discovered while
// tokenizing: an invalid byte or an unterminated literal.
type LexError struct {
	Position
	Msg   string
	Cause error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Lex Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *LexError) Pos() Position   { return e.Position }
func (e *LexError) Kind() string    { return "Lex" }
func (e *LexError) Message() string { return e.Msg }
func (e *LexError) Unwrap() error   { return e.Cause }
func (e *LexError) CausedBy(cause error) *LexError {
	e.Cause = cause
	return e
}

// IOError represents a failure to obtain source text in the first place,
// such as an unreadable file. Its position is usually zero.
type IOError struct {
	Position
	Msg   string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("IO Error: %s", e.Msg)
}
func (e *IOError) Pos() Position   { return e.Position }
func (e *IOError) Kind() string    { return "IO" }
func (e *IOError) Message() string { return e.Msg }
func (e *IOError) Unwrap() error   { return e.Cause }
func (e *IOError) CausedBy(cause error) *IOError {
	e.Cause = cause
	return e
}

// SortByPosition orders errs by line, then column. Errors at the same
// position keep their relative order.
func SortByPosition(errs []ZenError) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i].Pos(), errs[j].Pos()
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// DisplayErrors prints a list of Zen errors to stderr in a user-friendly
// format, including the offending source line and a position marker.
func DisplayErrors(src *source.SourceFile, errs []ZenError) {
	writeErrors(os.Stderr, src, errs)
}

func writeErrors(w io.Writer, src *source.SourceFile, errs []ZenError) {
	for _, err := range errs {
		pos := err.Pos()

		var sourceLine string
		ok := false
		if src != nil {
			sourceLine, ok = src.Line(pos.Line)
		}
		if !ok {
			// no usable line info, print the bare message
			fmt.Fprintf(w, "%s Error: %s\n", err.Kind(), err.Message())
			continue
		}

		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", err.Kind(), pos.Line, pos.Column, err.Message())
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(sourceLine, "\r\n\t "))

		col := pos.Column
		if col < 1 {
			col = 1
		}
		fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", col-1))
		fmt.Fprintln(w)
	}
}
