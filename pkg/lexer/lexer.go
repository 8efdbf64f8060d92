package lexer

import (
	"io"
	"strings"
)

// Lexer classifies the bytes of a Window into Tokens. It holds no state
// of its own between calls; every NextToken is a function of the window
// position alone.
type Lexer struct {
	win     *Window
	dialect Dialect
}

// New returns a lexer over r using DefaultDialect and the default window
// geometry.
func New(r io.Reader) *Lexer {
	return NewFromWindow(NewWindow(r), DefaultDialect)
}

// NewWithDialect returns a lexer over r using the given dialect.
func NewWithDialect(r io.Reader, d Dialect) *Lexer {
	return NewFromWindow(NewWindow(r), d)
}

// NewFromWindow returns a lexer reading through an existing window, for
// callers that need custom window geometry.
func NewFromWindow(w *Window, d Dialect) *Lexer {
	return &Lexer{win: w, dialect: d}
}

// NextToken scans and returns the next token. It never fails: unknown
// bytes yield KindInvalid tokens, truncated literals are emitted with
// Unterminated set, and end of input yields KindEOF forever after.
func (l *Lexer) NextToken() Token {
	l.win.SkipBlank()

	line, col := l.win.Line(), l.win.Column()
	b, ok := l.win.Current()
	if !ok {
		return Token{Kind: KindEOF, Line: line, Column: col}
	}

	switch {
	case b == '/' && l.peekIs('/'):
		return l.readLineComment(line, col)
	case b == '/' && l.peekIs('.'):
		return l.readBlockComment(line, col)
	case isLetter(b):
		return l.readIdentifier(line, col)
	case b == '"' || b == '\'':
		return l.readString(line, col)
	case isDigit(b):
		return l.readNumber(line, col)
	}
	return l.readOperator(line, col)
}

// Err surfaces the underlying window's read error, if any.
func (l *Lexer) Err() error { return l.win.Err() }

func (l *Lexer) peekIs(b byte) bool {
	p, ok := l.win.Peek()
	return ok && p == b
}

func (l *Lexer) readLineComment(line, col int) Token {
	l.win.Skip(2) // "//"
	var sb strings.Builder
	for {
		b, ok := l.win.Current()
		if !ok || b == '\n' {
			// the newline stays for the next token
			break
		}
		l.win.Advance()
		sb.WriteByte(b)
	}
	return Token{Kind: KindComment, Lexeme: sb.String(), Line: line, Column: col}
}

func (l *Lexer) readBlockComment(line, col int) Token {
	l.win.Skip(2) // "/."
	var sb strings.Builder
	for {
		b, ok := l.win.Current()
		if !ok {
			return Token{Kind: KindComment, Lexeme: sb.String(), Line: line, Column: col, Unterminated: true}
		}
		if b == '.' && l.peekIs('/') {
			l.win.Skip(2) // "./"
			break
		}
		l.win.Advance()
		sb.WriteByte(b)
	}
	return Token{Kind: KindComment, Lexeme: sb.String(), Line: line, Column: col}
}

func (l *Lexer) readIdentifier(line, col int) Token {
	var sb strings.Builder
	for {
		b, ok := l.win.Current()
		if !ok || !isLetter(b) && !isDigit(b) {
			break
		}
		l.win.Advance()
		sb.WriteByte(b)
	}
	ident := sb.String()
	return Token{Kind: l.dialect.LookupIdent(ident), Lexeme: ident, Line: line, Column: col}
}

func (l *Lexer) readString(line, col int) Token {
	quote, _ := l.win.Advance() // opening quote, excluded from the lexeme
	var sb strings.Builder
	for {
		b, ok := l.win.Current()
		if !ok {
			return Token{Kind: KindString, Lexeme: sb.String(), Line: line, Column: col, Unterminated: true}
		}
		if b == quote {
			l.win.Advance() // closing quote, excluded from the lexeme
			break
		}
		if b == '\n' {
			// an unescaped newline ends the literal and stays for the next token
			return Token{Kind: KindString, Lexeme: sb.String(), Line: line, Column: col, Unterminated: true}
		}
		l.win.Advance()
		if b != '\\' {
			sb.WriteByte(b)
			continue
		}
		esc, ok := l.win.Current()
		if !ok {
			sb.WriteByte('\\')
			return Token{Kind: KindString, Lexeme: sb.String(), Line: line, Column: col, Unterminated: true}
		}
		l.win.Advance()
		switch esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case '\'':
			sb.WriteByte('\'')
		default:
			// unrecognized escapes pass through as written
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}
	return Token{Kind: KindString, Lexeme: sb.String(), Line: line, Column: col}
}

func (l *Lexer) readNumber(line, col int) Token {
	var sb strings.Builder
	dotSeen := false
	for {
		b, ok := l.win.Current()
		if !ok {
			break
		}
		if b == '.' {
			if dotSeen {
				// second dot ends the number; the next call lexes it as a Dot
				break
			}
			dotSeen = true
		} else if !isDigit(b) {
			break
		}
		l.win.Advance()
		sb.WriteByte(b)
	}
	return Token{Kind: KindNumber, Lexeme: sb.String(), Line: line, Column: col}
}

func (l *Lexer) readOperator(line, col int) Token {
	b, _ := l.win.Advance()

	if kind, second, ok := l.readTwoChar(b); ok {
		return Token{Kind: kind, Lexeme: string([]byte{b, second}), Line: line, Column: col}
	}

	kind := KindInvalid
	switch b {
	case '=':
		kind = KindAssign
	case '+':
		kind = KindAdd
	case '-':
		kind = KindSub
	case '*':
		kind = KindMul
	case '/':
		kind = KindDiv
	case '%':
		kind = KindMod
	case '!':
		kind = KindNot
	case '<':
		kind = KindLt
	case '>':
		kind = KindGt
	case '(':
		kind = KindLParen
	case ')':
		kind = KindRParen
	case '[':
		kind = KindLBracket
	case ']':
		kind = KindRBracket
	case '{':
		kind = KindLBrace
	case '}':
		kind = KindRBrace
	case '.':
		kind = KindDot
	case ',':
		kind = KindComma
	case '\n', ';':
		kind = KindNewline
	}
	return Token{Kind: kind, Lexeme: string([]byte{b}), Line: line, Column: col}
}

// readTwoChar recognizes the two-character operator spellings. The first
// byte is already consumed; the candidate second byte is consumed and
// then ungot when it does not complete a spelling, which is the one
// production use of the window's backtracking.
func (l *Lexer) readTwoChar(first byte) (Kind, byte, bool) {
	switch first {
	case '-', '=', '!', '<', '>', '+', '*', '/', '%', '&', '|':
	default:
		return 0, 0, false
	}
	second, ok := l.win.Advance()
	if !ok {
		return 0, 0, false
	}
	var kind Kind
	switch {
	case first == '-' && second == '>':
		kind = KindArrow
	case first == '=' && second == '>':
		kind = KindFatArrow
	case first == '=' && second == '=':
		kind = KindEq
	case first == '!' && second == '=':
		kind = KindNe
	case first == '<' && second == '=':
		kind = KindLe
	case first == '>' && second == '=':
		kind = KindGe
	case first == '+' && second == '=':
		kind = KindAddAssign
	case first == '-' && second == '=':
		kind = KindSubAssign
	case first == '*' && second == '=':
		kind = KindMulAssign
	case first == '/' && second == '=':
		kind = KindDivAssign
	case first == '%' && second == '=':
		kind = KindModAssign
	case first == '&' && second == '&':
		kind = KindAnd
	case first == '|' && second == '|':
		kind = KindOr
	default:
		l.win.Unget()
		return 0, 0, false
	}
	return kind, second, true
}

func isLetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || b == '_'
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}
