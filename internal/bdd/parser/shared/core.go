// Package shared factors the token-cursor plumbing common to both
// recursive-descent parsers (spec §4.3, §4.4). Grounded directly on the
// teacher's internal/compiler/parser/shared.ParserCore, which exists for
// exactly the same reason in GMX: a main parser and a script parser need
// the same curToken/peekToken/expect machinery. Generalized here to be
// generic over token.Sym so it can drive either the feature lexer or the
// Catch lexer.
package shared

import "github.com/btouchard/bddtool/internal/bdd/token"

// TokenSource is anything that can be pulled for the next token — both
// lexer.Lexer implementations (feature and catch) satisfy it.
type TokenSource interface {
	NextToken() token.Token
}

// Core holds one token of lookahead (cur/peek) over a TokenSource.
type Core struct {
	src  TokenSource
	cur  token.Token
	peek token.Token
}

// NewCore primes cur/peek by reading two tokens from src, mirroring the
// teacher's New(l *lexer.Lexer) priming of curToken/peekToken.
func NewCore(src TokenSource) *Core {
	c := &Core{src: src}
	c.Advance()
	c.Advance()
	return c
}

// Advance shifts peek into cur and pulls a fresh peek token.
func (c *Core) Advance() {
	c.cur = c.peek
	c.peek = c.src.NextToken()
}

// Cur returns the current lookahead token.
func (c *Core) Cur() token.Token { return c.cur }

// Peek returns the token after Cur.
func (c *Core) Peek() token.Token { return c.peek }

// CurIs reports whether Cur's symbol is s.
func (c *Core) CurIs(s token.Sym) bool { return c.cur.Sym == s }

// PeekIs reports whether Peek's symbol is s.
func (c *Core) PeekIs(s token.Sym) bool { return c.peek.Sym == s }
