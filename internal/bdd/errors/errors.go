// Package errors defines the closed set of error kinds the core can raise
// (spec §7): LexicalError, SyntaxError and InvariantViolation. Shaped on
// the teacher's internal/compiler/errors.CompileError, generalized to the
// three phases this tool has (lexer, parser, emitter) instead of GMX's
// (lexer, parser, generator).
package errors

import "fmt"

// Position locates an error in a named source (spec §3.1 "line").
type Position struct {
	Source string
	Line   int
}

func (p Position) String() string {
	if p.Source != "" {
		return fmt.Sprintf("%s:%d", p.Source, p.Line)
	}
	return fmt.Sprintf("%d", p.Line)
}

// LexicalError is raised only by the Catch lexer: unterminated block
// comment, unterminated string literal, or a stray character with no
// transition (spec §7.1).
type LexicalError struct {
	Pos      Position
	Expected string
	Lexeme   string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s: %q expected", e.Pos, e.Expected)
}

// SyntaxError is raised by either parser: the next token was not in the
// expected set (spec §7.2).
type SyntaxError struct {
	Pos      Position
	Expected []string
	Actual   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: expected one of %v, got %s", e.Pos, e.Expected, e.Actual)
}

// InvariantViolation is raised only by the emitter: the tree contains a
// node tag outside the closed set of spec §3.2, or one that is not valid
// where it appears. An and_* node without a matching ancestor is reported
// by tree.CheckInvariants as a tree.InvariantError instead. Always a
// programming bug (spec §7.3).
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}
