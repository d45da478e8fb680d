// Package feature implements the line-aware lexer for *.feature sources
// (spec §4.1). It is a pull-style iterator over pre-split lines, mirroring
// the teacher's character-level lexer shape (a New constructor plus a
// NextToken method) at the granularity the feature source actually needs:
// one token per line.
package feature

import (
	"regexp"
	"strings"

	"github.com/btouchard/bddtool/internal/bdd/token"
)

// Lexer turns a feature source into a finite sequence of tokens ending
// with exactly one token.EndOfData (spec §4.1 contract).
type Lexer struct {
	sourceName string
	lines      []string
	idx        int
	line       int
}

// New constructs a Lexer over source, identified by sourceName for
// diagnostics (spec §3.1 "line" is 1-based against this source).
func New(source, sourceName string) *Lexer {
	return &Lexer{
		sourceName: sourceName,
		lines:      splitLines(source),
	}
}

// splitLines breaks source into lines, each one keeping its trailing
// newline when the source had one (spec §3.1 invariant: "the lexeme
// always includes the original line's newline if one was present").
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// NextToken returns the next token, or token.EndOfData once the source is
// exhausted. The feature lexer never fails (spec §4.1 error model): any
// line matching no label becomes token.Line.
func (l *Lexer) NextToken() token.Token {
	if l.idx >= len(l.lines) {
		return token.Token{Sym: token.EndOfData, Line: len(l.lines) + 1}
	}
	raw := l.lines[l.idx]
	l.idx++
	l.line++

	tok := classify(raw)
	tok.Line = l.line
	return tok
}

// SourceName returns the name this lexer was constructed with.
func (l *Lexer) SourceName() string { return l.sourceName }

// label is one recognized line-start keyword (spec §4.1 table); words are
// matched case-insensitively after whitespace-folding.
type label struct {
	sym   token.Sym
	words []string
}

// labels is the closed set from spec §4.1, English and Czech forms.
// Longest label wins is moot here since words are matched as a whole
// against the text before the first colon on the line, so a shorter word
// such as "a" never matches a longer one such as "ale".
var labels = []label{
	{token.Story, []string{"user story", "story", "požadavek", "uživatelský požadavek"}},
	{token.Feature, []string{"feature", "rys"}},
	{token.Scenario, []string{"scenario", "example", "scénář", "příklad"}},
	{token.TestCase, []string{"test"}},
	{token.Section, []string{"section", "sec"}},
	{token.Given, []string{"given", "dáno"}},
	{token.When, []string{"when", "když"}},
	{token.Then, []string{"then", "pak"}},
	{token.And, []string{"and", "a"}},
	{token.But, []string{"but", "ale"}},
}

// trailingTags matches a trailing run of bracketed tags, spec §8:
// "(\[[A-Za-z0-9_]+\])+" anchored to the end of the line.
var trailingTags = regexp.MustCompile(`(\[[A-Za-z0-9_]+\])+$`)

// classify implements the leftmost-label-word classification of spec
// §4.1: "a label word followed by a colon" rule, "colon required".
func classify(rawLine string) token.Token {
	stripped := strings.TrimRight(rawLine, "\r\n")

	if strings.TrimSpace(stripped) == "" {
		return token.Token{Sym: token.EmptyLine, Value: "", Lexeme: rawLine}
	}

	idx := strings.IndexByte(stripped, ':')
	if idx >= 0 {
		head := foldSpace(stripped[:idx])
		if sym, ok := matchLabel(head); ok {
			rest := strings.TrimSpace(stripped[idx+1:])
			value, tags := splitTags(sym, rest)
			return token.Token{Sym: sym, Value: value, Tags: tags, Lexeme: rawLine}
		}
	}

	return token.Token{Sym: token.Line, Value: strings.TrimRight(stripped, " \t"), Lexeme: rawLine}
}

func foldSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func matchLabel(head string) (token.Sym, bool) {
	for _, l := range labels {
		for _, w := range l.words {
			if strings.EqualFold(head, w) {
				return l.sym, true
			}
		}
	}
	return "", false
}

// splitTags extracts the "[tag1][tag2]..." suffix for scenario/test_case
// lines only (spec §4.1); for every other label the brackets are part of
// the payload.
func splitTags(sym token.Sym, rest string) (value, tags string) {
	if sym != token.Scenario && sym != token.TestCase {
		return rest, ""
	}
	loc := trailingTags.FindStringIndex(rest)
	if loc == nil {
		return strings.TrimSpace(rest), ""
	}
	return strings.TrimSpace(rest[:loc[0]]), rest[loc[0]:loc[1]]
}
