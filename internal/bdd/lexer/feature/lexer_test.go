package feature

import (
	"testing"

	"github.com/btouchard/bddtool/internal/bdd/token"
)

func collect(l *Lexer) []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Sym == token.EndOfData {
			return toks
		}
	}
}

func TestMinimalScenario(t *testing.T) {
	src := "Scenario: scenario identifier\n" +
		"   Given: given identifier\n" +
		"    When: when identifier\n" +
		"    Then: then identifier\n"

	toks := collect(New(src, "t.feature"))

	want := []token.Sym{token.Scenario, token.Given, token.When, token.Then, token.EndOfData}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Sym != w {
			t.Fatalf("token[%d] = %s, want %s", i, toks[i].Sym, w)
		}
	}
	if toks[0].Value != "scenario identifier" {
		t.Fatalf("scenario value = %q", toks[0].Value)
	}
}

func TestCzechKeywords(t *testing.T) {
	src := "Scénář: x\nDáno: a\nKdyž: b\na: c\nPak: d\n"
	toks := collect(New(src, "t.feature"))
	want := []token.Sym{token.Scenario, token.Given, token.When, token.And, token.Then, token.EndOfData}
	for i, w := range want {
		if toks[i].Sym != w {
			t.Fatalf("token[%d] = %s, want %s (%+v)", i, toks[i].Sym, w, toks[i])
		}
	}
}

func TestScenarioTags(t *testing.T) {
	src := "Scenario: name for scenario [slow][net]\n"
	toks := collect(New(src, "t.feature"))
	if toks[0].Value != "name for scenario" {
		t.Fatalf("value = %q", toks[0].Value)
	}
	if toks[0].Tags != "[slow][net]" {
		t.Fatalf("tags = %q", toks[0].Tags)
	}
}

func TestEmptyLineAndPlainLine(t *testing.T) {
	src := "\nnarrative line\n"
	toks := collect(New(src, "t.feature"))
	if toks[0].Sym != token.EmptyLine {
		t.Fatalf("want emptyline, got %s", toks[0].Sym)
	}
	if toks[1].Sym != token.Line || toks[1].Value != "narrative line" {
		t.Fatalf("want line %q, got %s %q", "narrative line", toks[1].Sym, toks[1].Value)
	}
}

func TestLabelWithoutColonIsText(t *testing.T) {
	src := "Scenario without a colon is just narration\n"
	toks := collect(New(src, "t.feature"))
	if toks[0].Sym != token.Line {
		t.Fatalf("want line, got %s", toks[0].Sym)
	}
}

func TestLineNumbersAreOneBased(t *testing.T) {
	src := "Scenario: s\nGiven: g\n"
	l := New(src, "t.feature")
	first := l.NextToken()
	second := l.NextToken()
	if first.Line != 1 || second.Line != 2 {
		t.Fatalf("line numbers = %d, %d", first.Line, second.Line)
	}
}

func TestEmptySource(t *testing.T) {
	toks := collect(New("", "t.feature"))
	if len(toks) != 1 || toks[0].Sym != token.EndOfData {
		t.Fatalf("want single $ token, got %+v", toks)
	}
}
