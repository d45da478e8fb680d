// Package featureparser implements the recursive-descent parser for
// *.feature sources (spec §4.3): FeatureLexer tokens in, a BDD tree out.
// Shaped on the teacher's internal/compiler/parser.Parser (a struct wrapping
// parser/shared.Core, one method per grammar production, each returning an
// *ast.Node/error pair) but producing tree.Node instead of GMX's AST.
package featureparser

import (
	"strings"

	bdderrors "github.com/btouchard/bddtool/internal/bdd/errors"
	"github.com/btouchard/bddtool/internal/bdd/lexer/feature"
	"github.com/btouchard/bddtool/internal/bdd/parser/shared"
	"github.com/btouchard/bddtool/internal/bdd/token"
	"github.com/btouchard/bddtool/internal/bdd/tree"
)

// Parser drives a feature.Lexer through the grammar of spec §4.3.
type Parser struct {
	core       *shared.Core
	sourceName string
}

// New constructs a Parser over an already-built feature lexer.
func New(l *feature.Lexer, sourceName string) *Parser {
	return &Parser{core: shared.NewCore(l), sourceName: sourceName}
}

// Parse lexes and parses a complete feature source into its root nodes
// (spec §4.3 top-level production: FeatureOrStory TestCaseOrScenarioSerie $).
func Parse(source, sourceName string) ([]*tree.Node, error) {
	l := feature.New(source, sourceName)
	return New(l, sourceName).Parse()
}

// Parse runs the grammar from the current lexer position to $.
func (p *Parser) Parse() ([]*tree.Node, error) {
	var roots []*tree.Node
	if err := p.featureOrStory(&roots); err != nil {
		return nil, err
	}
	if err := p.series(&roots); err != nil {
		return nil, err
	}
	if !p.core.CurIs(token.EndOfData) {
		return nil, p.syntaxErr([]string{"$"})
	}
	if err := tree.CheckInvariants(roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// featureOrStory implements:
//
//	FeatureOrStory := EmptyLines (story | feature) EmptyLines Description?
//	               |  ε   (if the next symbol is scenario | test_case | $)
//
// Leading empty lines ahead of a bare scenario/test_case serie (no story or
// feature header at all) are tolerated the same way TestCaseOrScenarioSerie
// tolerates interior ones, rather than forcing every source to open with a
// header line.
func (p *Parser) featureOrStory(roots *[]*tree.Node) error {
	for p.core.CurIs(token.EmptyLine) {
		p.core.Advance()
	}

	switch p.core.Cur().Sym {
	case token.Story:
		*roots = append(*roots, tree.New(tree.KindStory, p.core.Cur().Value))
	case token.Feature:
		*roots = append(*roots, tree.New(tree.KindFeature, p.core.Cur().Value))
	case token.EndOfData, token.Scenario, token.TestCase:
		return nil
	default:
		return p.syntaxErr([]string{"story", "feature", "scenario", "test_case", "$"})
	}
	p.core.Advance()

	for p.core.CurIs(token.EmptyLine) {
		p.core.Advance()
	}
	lines := p.description()
	if len(lines) > 0 {
		*roots = append(*roots, tree.NewDescription(lines))
	}
	return nil
}

// description collects narrative lines until a scenario, test_case or $ is
// seen. A line that the lexer happened to classify as a structural label
// (e.g. a "Given:" sentence inside free-form narrative prose) is absorbed
// verbatim via its original lexeme rather than ending the description —
// only scenario/test_case/$ actually terminate it (spec §4.3, "Description
// boundary").
func (p *Parser) description() []string {
	var lines []string
	for {
		switch p.core.Cur().Sym {
		case token.Scenario, token.TestCase, token.EndOfData:
			return lines
		case token.Line, token.EmptyLine:
			lines = append(lines, p.core.Cur().Value)
		default:
			lines = append(lines, strings.TrimRight(p.core.Cur().Lexeme, "\r\n"))
		}
		p.core.Advance()
	}
}

// series implements TestCaseOrScenarioSerie := (EmptyLines | TestCase | Scenario)*.
func (p *Parser) series(roots *[]*tree.Node) error {
	for {
		switch p.core.Cur().Sym {
		case token.EmptyLine:
			p.core.Advance()
		case token.TestCase:
			n, err := p.testCase()
			if err != nil {
				return err
			}
			*roots = append(*roots, n)
		case token.Scenario:
			n, err := p.scenario()
			if err != nil {
				return err
			}
			*roots = append(*roots, n)
		case token.EndOfData:
			return nil
		default:
			return p.syntaxErr([]string{"test_case", "scenario", "$"})
		}
	}
}

// testCase implements TestCase := test_case (EmptyLines | section Section)*.
func (p *Parser) testCase() (*tree.Node, error) {
	tok := p.core.Cur()
	node := tree.New(tree.KindTestCase, tok.Value)
	node.Tags = tok.Tags
	p.core.Advance()

	for {
		switch p.core.Cur().Sym {
		case token.EmptyLine:
			p.core.Advance()
		case token.Section:
			node.Add(p.section())
		default:
			return node, nil
		}
	}
}

// section implements Section := section (this grammar does not nest
// sections further under a feature-side test_case).
func (p *Parser) section() *tree.Node {
	n := tree.New(tree.KindSection, p.core.Cur().Value)
	p.core.Advance()
	return n
}

// scenario implements Scenario := scenario (EmptyLines GivenSerie)?.
// A Section token here is rejected: the spec leaves Section-under-Scenario
// unspecified and directs implementations to reject it with SyntaxError.
func (p *Parser) scenario() (*tree.Node, error) {
	tok := p.core.Cur()
	node := tree.New(tree.KindScenario, tok.Value)
	node.Tags = tok.Tags
	p.core.Advance()

	for p.core.CurIs(token.EmptyLine) {
		p.core.Advance()
	}
	switch p.core.Cur().Sym {
	case token.Given:
		givens, err := p.givenSerie()
		if err != nil {
			return nil, err
		}
		for _, g := range givens {
			node.Add(g)
		}
	case token.Scenario, token.TestCase, token.EndOfData:
		// empty body
	default:
		return nil, p.syntaxErr([]string{"given"})
	}
	return node, nil
}

// givenSerie implements GivenSerie := (EmptyLines | Given)+.
func (p *Parser) givenSerie() ([]*tree.Node, error) {
	var givens []*tree.Node
	for {
		switch p.core.Cur().Sym {
		case token.EmptyLine:
			p.core.Advance()
		case token.Given:
			g, err := p.given()
			if err != nil {
				return nil, err
			}
			givens = append(givens, g)
		case token.Scenario, token.TestCase, token.EndOfData:
			return givens, nil
		default:
			return nil, p.syntaxErr([]string{"given", "scenario", "test_case", "$"})
		}
	}
}

// given implements Given := given GivenContinuation.
func (p *Parser) given() (*tree.Node, error) {
	node := tree.New(tree.KindGiven, p.core.Cur().Value)
	p.core.Advance()
	if err := p.givenContinuation(node); err != nil {
		return nil, err
	}
	return node, nil
}

// givenContinuation implements the shared tail of Given and AndGiven:
//
//	GivenContinuation := EmptyLines (WhenSerie | (and | but) GivenContinuation)?
//
// Seeing a sibling given/scenario/test_case/$ ends the body with no When
// children: a given never nests into another given, only into and_given
// (spec §9, "given never nests").
func (p *Parser) givenContinuation(node *tree.Node) error {
	for p.core.CurIs(token.EmptyLine) {
		p.core.Advance()
	}
	switch p.core.Cur().Sym {
	case token.When:
		whens, err := p.whenSerie()
		if err != nil {
			return err
		}
		for _, w := range whens {
			node.Add(w)
		}
	case token.And, token.But:
		ag := tree.New(tree.KindAndGiven, p.core.Cur().Value)
		p.core.Advance()
		if err := p.givenContinuation(ag); err != nil {
			return err
		}
		node.Add(ag)
	case token.Given, token.Scenario, token.TestCase, token.EndOfData:
		// empty continuation
	default:
		return p.syntaxErr([]string{"when", "and", "but", "given", "scenario", "test_case", "$"})
	}
	return nil
}

// whenSerie implements WhenSerie := (EmptyLines | When)+.
func (p *Parser) whenSerie() ([]*tree.Node, error) {
	var whens []*tree.Node
	for {
		switch p.core.Cur().Sym {
		case token.EmptyLine:
			p.core.Advance()
		case token.When:
			w, err := p.when()
			if err != nil {
				return nil, err
			}
			whens = append(whens, w)
		case token.Given, token.Scenario, token.TestCase, token.EndOfData:
			return whens, nil
		default:
			return nil, p.syntaxErr([]string{"when", "given", "scenario", "test_case", "$"})
		}
	}
}

// when implements When := when WhenContinuation.
func (p *Parser) when() (*tree.Node, error) {
	node := tree.New(tree.KindWhen, p.core.Cur().Value)
	p.core.Advance()
	if err := p.whenContinuation(node); err != nil {
		return nil, err
	}
	return node, nil
}

// whenContinuation implements the shared tail of When and AndWhen:
//
//	WhenContinuation := EmptyLines (Then | (and | but) WhenContinuation)?
//
// A when never nests into another when, only into and_when; a sibling
// given/when/scenario/test_case/$ ends the body with no Then child.
func (p *Parser) whenContinuation(node *tree.Node) error {
	for p.core.CurIs(token.EmptyLine) {
		p.core.Advance()
	}
	switch p.core.Cur().Sym {
	case token.Then:
		t, err := p.then()
		if err != nil {
			return err
		}
		node.Add(t)
	case token.And, token.But:
		aw := tree.New(tree.KindAndWhen, p.core.Cur().Value)
		p.core.Advance()
		if err := p.whenContinuation(aw); err != nil {
			return err
		}
		node.Add(aw)
	case token.When, token.Given, token.Scenario, token.TestCase, token.EndOfData:
		// empty continuation
	default:
		return p.syntaxErr([]string{"then", "and", "but", "when", "given", "scenario", "test_case", "$"})
	}
	return nil
}

// then implements Then := then ThenContinuation.
func (p *Parser) then() (*tree.Node, error) {
	node := tree.New(tree.KindThen, p.core.Cur().Value)
	p.core.Advance()
	if err := p.thenContinuation(node); err != nil {
		return nil, err
	}
	return node, nil
}

// thenContinuation implements:
//
//	ThenContinuation := EmptyLines ((and | but) ThenContinuation)?
//
// A then never nests into another then, only into and_then.
func (p *Parser) thenContinuation(node *tree.Node) error {
	for p.core.CurIs(token.EmptyLine) {
		p.core.Advance()
	}
	switch p.core.Cur().Sym {
	case token.And, token.But:
		at := tree.New(tree.KindAndThen, p.core.Cur().Value)
		p.core.Advance()
		if err := p.thenContinuation(at); err != nil {
			return err
		}
		node.Add(at)
	case token.When, token.Given, token.Scenario, token.TestCase, token.EndOfData:
		// empty continuation
	default:
		return p.syntaxErr([]string{"and", "but", "when", "given", "scenario", "test_case", "$"})
	}
	return nil
}

func (p *Parser) syntaxErr(expected []string) error {
	return &bdderrors.SyntaxError{
		Pos:      bdderrors.Position{Source: p.sourceName, Line: p.core.Cur().Line},
		Expected: expected,
		Actual:   string(p.core.Cur().Sym),
	}
}
