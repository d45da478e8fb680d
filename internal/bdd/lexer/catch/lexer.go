// Package catch implements the character-level lexer for Catch/C++
// sources (spec §4.2): a finite automaton over a C++-like surface that
// recognizes Catch keywords, identifiers, literals and punctuation, folds
// Story/Feature metadata out of comments, and terminates with a $
// sentinel. Shaped on the teacher's internal/compiler/lexer.Lexer
// (readChar/peekChar over an input string, tracked line/column,
// braceDepth counter) generalized to the richer token alphabet this
// domain needs instead of GMX's.
package catch

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/btouchard/bddtool/internal/bdd/diagnostics"
	"github.com/btouchard/bddtool/internal/bdd/token"
)

// keywords are the exact-case Catch macro identifiers (spec §4.2 token
// set); anything else that looks like a C identifier is token.Identifier.
var keywords = map[string]token.Sym{
	"SCENARIO":  token.Scenario,
	"GIVEN":     token.Given,
	"WHEN":      token.When,
	"THEN":      token.Then,
	"AND_WHEN":  token.AndWhen,
	"AND_THEN":  token.AndThen,
	"TEST_CASE": token.TestCase,
	"SECTION":   token.Section,
}

// storyCommentRe / featureCommentRe recognize the Story:/Feature: labels
// (and Czech synonyms) a comment's payload may carry (spec §4.2 "Comment
// post-processing").
var (
	storyCommentRe   = regexp.MustCompile(`(?is)^\s*(?:user\s+)?story\s*:\s*(.+?)\s*$`)
	storyCommentCzRe = regexp.MustCompile(`(?is)^\s*(?:uživatelský\s+)?požadavek\s*:\s*(.+?)\s*$`)
	featureCommentRe = regexp.MustCompile(`(?is)^\s*feature\s*:\s*(.+?)\s*$`)
	featureCommentCz = regexp.MustCompile(`(?is)^\s*rys\s*:\s*(.+?)\s*$`)
)

// Lexer is a pull-style iterator over a Catch/C++ source.
type Lexer struct {
	sourceName  string
	input       string
	pos         int  // byte offset of the current rune
	readPos     int  // byte offset of the next rune
	ch          rune // current rune, 0 at EOF
	line        int
	atLineStart bool // true at the start of a logical line (for '#')
	sink        diagnostics.Sink
}

// halt forces the lexer into the end-of-data state. Called after a stray
// character (including a bare '/') produces an error token: spec
// §4.2/§7.1 say the lexer "advances to $ and terminates" once an error
// has been reported. The other two LexicalError causes (unterminated
// comment, unterminated string) are only detected at end of input, where
// the next token is already $.
func (l *Lexer) halt() {
	l.ch = 0
	l.pos = len(l.input)
	l.readPos = len(l.input)
}

// New constructs a Lexer over source, identified by sourceName for
// diagnostics. sink may be nil, in which case warnings are discarded.
func New(source, sourceName string, sink diagnostics.Sink) *Lexer {
	if sink == nil {
		sink = diagnostics.Discard
	}
	l := &Lexer{
		sourceName:  sourceName,
		input:       source,
		line:        1,
		atLineStart: true,
		sink:        sink,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// NextToken implements the finite automaton of spec §4.2, state 0 being
// the dispatch state and states 1..9 the nested sub-machines for
// comments, strings, identifiers, assignment/eq and numbers.
func (l *Lexer) NextToken() token.Token {
	if l.ch == 0 {
		return token.Token{Sym: token.EndOfData, Line: l.line}
	}

	switch {
	case l.ch == '\n':
		line := l.line
		l.line++
		l.atLineStart = true
		l.readChar()
		return token.Token{Sym: token.Newline, Lexeme: "\n", Line: line}

	case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
		l.readChar()
		return l.NextToken()

	case l.ch == '/':
		return l.lexSlash()

	case l.ch == '"':
		return l.lexString()

	case l.ch == '#':
		if l.atLineStart {
			return l.lexPreprocessor()
		}
		return l.lexPunct(token.Hash, "#")

	case l.ch == '(':
		return l.lexPunct(token.LParen, "(")
	case l.ch == ')':
		return l.lexPunct(token.RParen, ")")
	case l.ch == '{':
		return l.lexPunct(token.LBrace, "{")
	case l.ch == '}':
		return l.lexPunct(token.RBrace, "}")
	case l.ch == ',':
		return l.lexPunct(token.Comma, ",")
	case l.ch == ':':
		return l.lexPunct(token.Colon, ":")
	case l.ch == ';':
		return l.lexPunct(token.Semic, ";")

	case l.ch == '=':
		return l.lexAssignOrEq()

	case isLetter(l.ch):
		return l.lexIdentifier()

	case isDigit(l.ch):
		return l.lexNumber()

	default:
		// No transition defined for this rune in the FA of §4.2: a stray
		// character with no transition is a LexicalError (spec §7.1), and
		// the lexer halts to $ afterward like the other two error causes.
		ch := l.ch
		line := l.line
		l.atLineStart = false
		l.halt()
		return token.Token{Sym: token.Error, Value: string(ch), Lexeme: string(ch), Line: line}
	}
}

func (l *Lexer) lexPunct(sym token.Sym, lit string) token.Token {
	line := l.line
	l.readChar()
	l.atLineStart = false
	return token.Token{Sym: sym, Value: lit, Lexeme: lit, Line: line}
}

func (l *Lexer) lexAssignOrEq() token.Token {
	line := l.line
	l.atLineStart = false
	if l.peekChar() == '=' {
		l.readChar()
		l.readChar()
		return token.Token{Sym: token.Eq, Value: "==", Lexeme: "==", Line: line}
	}
	l.readChar()
	return token.Token{Sym: token.Assignment, Value: "=", Lexeme: "=", Line: line}
}

func (l *Lexer) lexIdentifier() token.Token {
	line := l.line
	l.atLineStart = false
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	if sym, ok := keywords[lit]; ok {
		return token.Token{Sym: sym, Value: lit, Lexeme: lit, Line: line}
	}
	return token.Token{Sym: token.Identifier, Value: lit, Lexeme: lit, Line: line}
}

func (l *Lexer) lexNumber() token.Token {
	line := l.line
	l.atLineStart = false
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	return token.Token{Sym: token.Num, Value: lit, Lexeme: lit, Line: line}
}

// lexString implements FA states 5/6: collect until closing '"', honoring
// backslash escapes; EOF before the closing quote is a LexicalError
// (spec §4.2 state 5, "EOF: error: '\"' expected").
func (l *Lexer) lexString() token.Token {
	line := l.line
	l.atLineStart = false
	var lexeme strings.Builder
	lexeme.WriteByte('"')
	l.readChar() // consume opening quote
	start := l.pos

	for {
		if l.ch == 0 {
			return token.Token{Sym: token.Error, Value: `"`, Lexeme: lexeme.String(), Line: line}
		}
		if l.ch == '"' {
			value := l.input[start:l.pos]
			lexeme.WriteString(value)
			lexeme.WriteByte('"')
			l.readChar() // consume closing quote
			return token.Token{Sym: token.StringLit, Value: value, Lexeme: lexeme.String(), Line: line}
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				return token.Token{Sym: token.Error, Value: `"`, Lexeme: lexeme.String(), Line: line}
			}
		}
		l.readChar()
	}
}

// lexSlash dispatches '/' into a // comment, a /* */ comment, or (no
// transition defined for bare '/' in §4.2) an error token, after which
// the lexer halts to $.
func (l *Lexer) lexSlash() token.Token {
	line := l.line
	switch l.peekChar() {
	case '/':
		l.readChar() // consume first /
		l.readChar() // consume second /
		return l.lexLineComment(line)
	case '*':
		l.readChar()
		l.readChar()
		return l.lexBlockComment(line)
	default:
		l.atLineStart = false
		l.halt()
		return token.Token{Sym: token.Error, Value: "/", Lexeme: "/", Line: line}
	}
}

func (l *Lexer) lexLineComment(line int) token.Token {
	l.atLineStart = false
	start := l.pos
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	payload := l.input[start:l.pos]
	return l.postprocessComment(payload, line)
}

// lexBlockComment implements FA states 3/4: unterminated block comment is
// a LexicalError (spec §4.2 state 3/4).
func (l *Lexer) lexBlockComment(line int) token.Token {
	l.atLineStart = false
	start := l.pos
	for {
		if l.ch == 0 {
			return token.Token{Sym: token.Error, Value: "*/", Lexeme: l.input[start:l.pos], Line: line}
		}
		if l.ch == '*' && l.peekChar() == '/' {
			payload := l.input[start:l.pos]
			l.readChar() // consume *
			l.readChar() // consume /
			return l.postprocessComment(payload, line)
		}
		if l.ch == '\n' {
			l.line++
		}
		l.readChar()
	}
}

// postprocessComment re-matches a collected comment payload against the
// Story:/Feature: label family and rewrites the token accordingly
// (spec §4.2 "Comment post-processing").
func (l *Lexer) postprocessComment(payload string, line int) token.Token {
	type candidate struct {
		sym  token.Sym
		text string
	}
	var matches []candidate
	if m := storyCommentRe.FindStringSubmatch(payload); m != nil {
		matches = append(matches, candidate{token.Story, m[1]})
	}
	if m := storyCommentCzRe.FindStringSubmatch(payload); m != nil {
		matches = append(matches, candidate{token.Story, m[1]})
	}
	if m := featureCommentRe.FindStringSubmatch(payload); m != nil {
		matches = append(matches, candidate{token.Feature, m[1]})
	}
	if m := featureCommentCz.FindStringSubmatch(payload); m != nil {
		matches = append(matches, candidate{token.Feature, m[1]})
	}

	if len(matches) == 0 {
		return token.Token{Sym: token.Comment, Value: payload, Lexeme: payload, Line: line}
	}
	if len(matches) > 1 {
		l.sink.Warn(l.sourceName, line, "comment payload matched more than one Story/Feature label; using the first match")
	}
	return token.Token{Sym: matches[0].sym, Value: matches[0].text, Lexeme: payload, Line: line}
}

// lexPreprocessor collects a '#...' directive up to an unescaped newline,
// following a trailing '\' line-continuation across physical lines
// (spec §4.2 "Preprocessor directives").
func (l *Lexer) lexPreprocessor() token.Token {
	line := l.line
	l.atLineStart = false
	var b strings.Builder
	b.WriteRune(l.ch) // leading '#'
	l.readChar()
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '\\' && l.peekChar() == '\n' {
			b.WriteByte('\\')
			b.WriteByte('\n')
			l.readChar() // consume backslash
			l.readChar() // consume newline
			l.line++
			continue
		}
		if l.ch == '\n' {
			break
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	lit := b.String()
	return token.Token{Sym: token.PreprocessorDirective, Value: lit, Lexeme: lit, Line: line}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}
