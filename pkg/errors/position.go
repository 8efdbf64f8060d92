package errors

// Position is a specific location in the source code. Line and column
// are 1-based, matching the positions carried by lexer tokens.
type Position struct {
	Line   int
	Column int
}
