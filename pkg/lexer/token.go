// Package lexer implements the streaming tokenizer for Zen source code.
//
// The lexer reads bytes through a fixed-size sliding Window that supports
// one byte of lookahead and bounded single-step backtracking, and turns
// them into Tokens one call at a time. Malformed input never produces an
// error: unknown bytes become KindInvalid tokens and truncated literals
// are emitted with their Unterminated flag set, so callers can lex
// arbitrary input to completion.
package lexer

import "fmt"

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	// Special
	KindEOF Kind = iota
	KindInvalid
	KindComment

	// Identifiers and literals
	KindIdentifier
	KindKeyword
	KindType
	KindNull
	KindNumber
	KindString

	// Operators
	KindAssign
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMod
	KindAddAssign
	KindSubAssign
	KindMulAssign
	KindDivAssign
	KindModAssign
	KindAnd
	KindOr
	KindNot
	KindEq
	KindNe
	KindLt
	KindGt
	KindLe
	KindGe

	// Delimiters
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLBrace
	KindRBrace
	KindArrow
	KindFatArrow
	KindDot
	KindComma
	KindNewline
)

var kindNames = [...]string{
	KindEOF:        "EOF",
	KindInvalid:    "INVALID",
	KindComment:    "COMMENT",
	KindIdentifier: "IDENT",
	KindKeyword:    "KEYWORD",
	KindType:       "TYPE",
	KindNull:       "NULL",
	KindNumber:     "NUMBER",
	KindString:     "STRING",
	KindAssign:     "ASSIGN",
	KindAdd:        "ADD",
	KindSub:        "SUB",
	KindMul:        "MUL",
	KindDiv:        "DIV",
	KindMod:        "MOD",
	KindAddAssign:  "ADD_ASSIGN",
	KindSubAssign:  "SUB_ASSIGN",
	KindMulAssign:  "MUL_ASSIGN",
	KindDivAssign:  "DIV_ASSIGN",
	KindModAssign:  "MOD_ASSIGN",
	KindAnd:        "AND",
	KindOr:         "OR",
	KindNot:        "NOT",
	KindEq:         "EQ",
	KindNe:         "NE",
	KindLt:         "LT",
	KindGt:         "GT",
	KindLe:         "LE",
	KindGe:         "GE",
	KindLParen:     "LPAREN",
	KindRParen:     "RPAREN",
	KindLBracket:   "LBRACKET",
	KindRBracket:   "RBRACKET",
	KindLBrace:     "LBRACE",
	KindRBrace:     "RBRACE",
	KindArrow:      "ARROW",
	KindFatArrow:   "FAT_ARROW",
	KindDot:        "DOT",
	KindComma:      "COMMA",
	KindNewline:    "NEWLINE",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Token is one lexical unit of Zen source.
type Token struct {
	Kind   Kind
	Lexeme string // token text; quotes and comment markers excluded
	Line   int    // 1-based line of the token's first byte
	Column int    // 1-based column of the token's first byte

	// Unterminated marks string literals cut off by a newline or EOF and
	// block comments cut off by EOF. The token still carries everything
	// scanned up to that point.
	Unterminated bool
}

// String renders the token in the line:col kind lexeme dump format.
func (t Token) String() string {
	return fmt.Sprintf("%d:%d\t%s\t%q", t.Line, t.Column, t.Kind, t.Lexeme)
}

// Dialect selects which identifier spellings are reserved. The zero value
// reserves nothing; use the package presets or NewDialect.
type Dialect struct {
	keywords map[string]struct{}
	types    map[string]struct{}
	null     string
}

// DefaultDialect reserves the current Zen keyword set. Builtin type names
// and null lex as plain identifiers.
var DefaultDialect = NewDialect([]string{
	"if", "else", "while", "for", "in", "fn", "class",
	"extends", "import", "from", "export", "module",
	"and", "or", "not",
}, nil, "")

// TypedDialect reserves the older keyword set and additionally classifies
// the builtin type names and the null literal.
var TypedDialect = NewDialect([]string{
	"if", "elseif", "else", "for", "in", "while", "fn", "class", "private",
}, []string{
	"int", "float", "complex", "string", "array", "lockedarray",
	"map", "lockedmap", "set", "lockedset", "bool", "nulltype",
}, "null")

// NewDialect builds an immutable dialect from keyword and type-name
// spellings. An empty null spelling disables the null literal.
func NewDialect(keywords, types []string, null string) Dialect {
	d := Dialect{
		keywords: make(map[string]struct{}, len(keywords)),
		types:    make(map[string]struct{}, len(types)),
		null:     null,
	}
	for _, kw := range keywords {
		d.keywords[kw] = struct{}{}
	}
	for _, ty := range types {
		d.types[ty] = struct{}{}
	}
	return d
}

// LookupIdent classifies a fully scanned identifier spelling.
func (d Dialect) LookupIdent(ident string) Kind {
	if _, ok := d.keywords[ident]; ok {
		return KindKeyword
	}
	if _, ok := d.types[ident]; ok {
		return KindType
	}
	if d.null != "" && ident == d.null {
		return KindNull
	}
	return KindIdentifier
}
