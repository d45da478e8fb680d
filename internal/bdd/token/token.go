// Package token defines the shared lexical alphabet used by both the
// feature-source lexer and the Catch-source lexer (spec §3.1, §4.1, §4.2).
package token

// Sym is a lexical symbol. The feature lexer and the Catch lexer each use
// their own subset of the alphabet, but both produce the same Token shape
// so a single parser core (see parser/shared) can drive either of them.
type Sym string

const (
	// Shared structural symbols (feature §4.1, Catch §4.2 keyword set).
	Story    Sym = "story"
	Feature  Sym = "feature"
	Scenario Sym = "scenario"
	TestCase Sym = "test_case"
	Section  Sym = "section"
	Given    Sym = "given"
	When     Sym = "when"
	Then     Sym = "then"
	AndWhen  Sym = "and_when"
	AndThen  Sym = "and_then"

	// Feature-lexer only.
	And       Sym = "and"
	But       Sym = "but"
	EmptyLine Sym = "emptyline"
	Line      Sym = "line"

	// Catch-lexer only.
	Identifier            Sym = "identifier"
	Num                   Sym = "num"
	StringLit             Sym = "stringlit"
	Comment               Sym = "comment"
	PreprocessorDirective Sym = "preprocessor_directive"
	Newline               Sym = "newline"
	LParen                Sym = "lpar"
	RParen                Sym = "rpar"
	LBrace                Sym = "lbrace"
	RBrace                Sym = "rbrace"
	Comma                 Sym = "comma"
	Colon                 Sym = "colon"
	Semic                 Sym = "semic"
	Hash                  Sym = "hash"
	Assignment            Sym = "assignment"
	Eq                    Sym = "eq"

	// Terminal sentinel and error, shared by both lexers (spec §3.1, §7).
	EndOfData Sym = "$"
	Error     Sym = "error"
)

// Token is the value type produced by both lexers (spec §3.1).
type Token struct {
	Sym    Sym
	Value  string
	Lexeme string
	Tags   string // zero value ("") means absent; only meaningful for Scenario/TestCase
	Line   int
}

// HasTags reports whether this token carries a bracketed tag suffix.
func (t Token) HasTags() bool {
	return t.Tags != ""
}

// IsStructural reports whether sym is a structural symbol: a
// Given/When/Then family keyword, AND_WHEN/AND_THEN, or Scenario,
// TestCase, Section, Story or Feature.
func IsStructural(s Sym) bool {
	switch s {
	case Given, When, Then, AndWhen, AndThen, Scenario, TestCase, Section, Story, Feature:
		return true
	default:
		return false
	}
}
