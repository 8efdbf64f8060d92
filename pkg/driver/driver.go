// Package driver ties the tokenizer together for embedders and the CLI:
// it loads source, runs the lexer over it, derives positioned errors from
// the token stream, and fans work out over multiple files.
package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zentiph/Zen/pkg/errors"
	"github.com/Zentiph/Zen/pkg/lexer"
	"github.com/Zentiph/Zen/pkg/source"
)

// Zen represents a persistent tokenizer session. A session fixes the
// dialect and window geometry once; each Tokenize call then lexes one
// input to completion, so the same session can serve any number of
// inputs, including concurrently.
type Zen struct {
	dialect  lexer.Dialect
	bufSize  int // 0 means the lexer default
	keepBack int // 0 means the lexer default
}

// NewZen creates a session using DefaultDialect and the default window
// geometry.
func NewZen() *Zen {
	return NewZenWithDialect(lexer.DefaultDialect)
}

// NewZenWithDialect creates a session using the given dialect.
func NewZenWithDialect(d lexer.Dialect) *Zen {
	return &Zen{dialect: d}
}

// NewZenWithGeometry creates a session with a custom window buffer size
// and backtrack depth, validated up front.
func NewZenWithGeometry(d lexer.Dialect, bufSize, keepBack int) (*Zen, error) {
	if _, err := lexer.NewWindowSize(strings.NewReader(""), bufSize, keepBack); err != nil {
		return nil, err
	}
	return &Zen{dialect: d, bufSize: bufSize, keepBack: keepBack}, nil
}

func (z *Zen) newLexer(r io.Reader) *lexer.Lexer {
	if z.bufSize == 0 {
		return lexer.NewWithDialect(r, z.dialect)
	}
	w, err := lexer.NewWindowSize(r, z.bufSize, z.keepBack)
	if err != nil {
		// geometry was validated at construction
		panic(err)
	}
	return lexer.NewFromWindow(w, z.dialect)
}

// Result is the outcome of tokenizing one input.
type Result struct {
	Source *source.SourceFile // nil for raw reader input
	Tokens []lexer.Token      // every token except the final EOF
	Errors []errors.ZenError
}

// OK reports whether the input tokenized without errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// TokenizeString tokenizes source code given as a string.
func (z *Zen) TokenizeString(code string) *Result {
	return z.TokenizeSource(source.NewEvalSource(code))
}

// TokenizeFile reads and tokenizes a file. A file that cannot be read
// yields a Result holding a single IOError.
func (z *Zen) TokenizeFile(filename string) *Result {
	src, err := source.Load(filename)
	if err != nil {
		readErr := (&errors.IOError{
			Msg: fmt.Sprintf("Failed to read file '%s': %s", filename, err),
		}).CausedBy(err)
		return &Result{Errors: []errors.ZenError{readErr}}
	}
	return z.TokenizeSource(src)
}

// TokenizeSource tokenizes an in-memory source file.
func (z *Zen) TokenizeSource(src *source.SourceFile) *Result {
	res := z.tokenize(z.newLexer(src.Reader()))
	res.Source = src
	return res
}

// TokenizeReader tokenizes a raw byte stream. Only the fixed lexer window
// is held in memory, so the stream may be arbitrarily large; the price is
// that error display has no source text to quote.
func (z *Zen) TokenizeReader(r io.Reader) *Result {
	return z.tokenize(z.newLexer(r))
}

// tokenize drains l, deriving positioned errors from invalid and
// unterminated tokens as they stream past.
func (z *Zen) tokenize(l *lexer.Lexer) *Result {
	res := &Result{}
	for {
		tok := l.NextToken()
		if tok.Kind == lexer.KindEOF {
			if err := l.Err(); err != nil {
				readErr := (&errors.IOError{
					Position: errors.Position{Line: tok.Line, Column: tok.Column},
					Msg:      fmt.Sprintf("Failed to read source: %s", err),
				}).CausedBy(err)
				res.Errors = append(res.Errors, readErr)
			}
			return res
		}
		res.Tokens = append(res.Tokens, tok)

		pos := errors.Position{Line: tok.Line, Column: tok.Column}
		switch {
		case tok.Kind == lexer.KindInvalid:
			res.Errors = append(res.Errors, &errors.LexError{
				Position: pos,
				Msg:      fmt.Sprintf("Unexpected character '%s'", tok.Lexeme),
			})
		case tok.Unterminated && tok.Kind == lexer.KindString:
			res.Errors = append(res.Errors, &errors.LexError{
				Position: pos,
				Msg:      "Unterminated string literal",
			})
		case tok.Unterminated && tok.Kind == lexer.KindComment:
			res.Errors = append(res.Errors, &errors.LexError{
				Position: pos,
				Msg:      "Unterminated block comment",
			})
		}
	}
}

// Stream returns a token cursor over an in-memory source file.
func (z *Zen) Stream(src *source.SourceFile) *Stream {
	return NewStream(z.newLexer(src.Reader()))
}

// StreamReader returns a token cursor over a raw byte stream.
func (z *Zen) StreamReader(r io.Reader) *Stream {
	return NewStream(z.newLexer(r))
}

// DisplayResult prints any collected errors to stderr in position order.
// Returns true if tokenizing completed without errors, false otherwise.
func (z *Zen) DisplayResult(res *Result) bool {
	if len(res.Errors) > 0 {
		errors.SortByPosition(res.Errors)
		errors.DisplayErrors(res.Source, res.Errors)
		return false
	}
	return true
}

// CheckString tokenizes source code from a string and prints any errors
// encountered. Returns true if the input lexed cleanly.
// This version creates a fresh session with the default dialect.
func CheckString(code string) bool {
	z := NewZen()
	return z.DisplayResult(z.TokenizeString(code))
}

// CheckFile reads and tokenizes a source file and prints any errors
// encountered. Returns true if the file lexed cleanly.
// This version creates a fresh session with the default dialect.
func CheckFile(filename string) bool {
	z := NewZen()
	return z.DisplayResult(z.TokenizeFile(filename))
}
