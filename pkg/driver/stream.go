package driver

import (
	"github.com/Zentiph/Zen/pkg/lexer"
)

// Stream is a pull cursor over a token sequence with one token of
// lookahead, the shape a parser consumes. Once the current token is EOF
// it stays EOF forever.
type Stream struct {
	lex  *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
}

// NewStream returns a cursor over l. It reads two tokens up front so
// that Cur and Peek are both set.
func NewStream(l *lexer.Lexer) *Stream {
	s := &Stream{lex: l}
	s.Next()
	s.Next()
	return s
}

// Cur returns the current token without consuming it.
func (s *Stream) Cur() lexer.Token { return s.cur }

// Peek returns the token after the current one without consuming
// anything.
func (s *Stream) Peek() lexer.Token { return s.peek }

// Next consumes the current token and returns its replacement.
func (s *Stream) Next() lexer.Token {
	s.cur = s.peek
	s.peek = s.lex.NextToken()
	return s.cur
}

// CurIs reports whether the current token has kind k.
func (s *Stream) CurIs(k lexer.Kind) bool { return s.cur.Kind == k }

// PeekIs reports whether the lookahead token has kind k.
func (s *Stream) PeekIs(k lexer.Kind) bool { return s.peek.Kind == k }

// Collect drains the stream from the current position and returns the
// tokens, including the final EOF.
func (s *Stream) Collect() []lexer.Token {
	var toks []lexer.Token
	for {
		tok := s.Cur()
		toks = append(toks, tok)
		if tok.Kind == lexer.KindEOF {
			return toks
		}
		s.Next()
	}
}

// Err surfaces the underlying reader's error, if any.
func (s *Stream) Err() error { return s.lex.Err() }
