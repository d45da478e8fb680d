// Package tree holds the language-neutral BDD tree (spec §3.2) produced by
// both FeatureParser and CatchParser and consumed by CatchEmitter.
package tree

// Kind is the closed set of node tags (spec §3.2).
type Kind string

const (
	KindStory       Kind = "story"
	KindFeature     Kind = "feature"
	KindDescription Kind = "description"
	KindTestCase    Kind = "test_case"
	KindScenario    Kind = "scenario"
	KindSection     Kind = "section"
	KindGiven       Kind = "given"
	KindAndGiven    Kind = "and_given"
	KindWhen        Kind = "when"
	KindAndWhen     Kind = "and_when"
	KindThen        Kind = "then"
	KindAndThen     Kind = "and_then"
)

// Node is a single BDD tree node. Every variant carries a title and an
// ordered child vector, except description which carries lines instead.
//
// Ownership is tree-shaped and acyclic: each node exclusively owns its
// children (spec §9, "Tree representation").
type Node struct {
	Kind     Kind
	Title    string
	Lines    []string // only populated for KindDescription
	Tags     string   // only meaningful for KindScenario / KindTestCase
	Children []*Node
}

// New constructs a node of the given kind and title with no children yet.
func New(kind Kind, title string) *Node {
	return &Node{Kind: kind, Title: title}
}

// NewDescription constructs a description node from its ordered lines.
func NewDescription(lines []string) *Node {
	return &Node{Kind: KindDescription, Lines: append([]string(nil), lines...)}
}

// Add appends a child, preserving source order (spec §3.2 invariant 4).
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

// Family returns the non-and_* ancestor kind a given and_* kind belongs to.
// Used by CheckInvariants to check invariant 3 of §3.2 ("every and_* has
// a matching non-and_* ancestor of the same family").
func Family(k Kind) Kind {
	switch k {
	case KindAndGiven:
		return KindGiven
	case KindAndWhen:
		return KindWhen
	case KindAndThen:
		return KindThen
	default:
		return k
	}
}

// IsAndVariant reports whether k is one of the and_* continuation kinds.
func IsAndVariant(k Kind) bool {
	switch k {
	case KindAndGiven, KindAndWhen, KindAndThen:
		return true
	default:
		return false
	}
}

// Walk visits n and every descendant in source order, depth-first.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// CheckInvariants validates the §3.2 invariants that are not already
// guaranteed by construction — namely invariant 3 (and_* ancestry). Both
// parsers call it before returning a tree, so a malformed tree is reported
// as a parse failure; the emitter itself does not check ancestry.
func CheckInvariants(roots []*Node) error {
	var walk func(n *Node, ancestors []Kind) error
	walk = func(n *Node, ancestors []Kind) error {
		if IsAndVariant(n.Kind) {
			want := Family(n.Kind)
			found := false
			for _, a := range ancestors {
				if a == want {
					found = true
					break
				}
			}
			if !found {
				return &InvariantError{Kind: n.Kind, Title: n.Title}
			}
		}
		next := append(append([]Kind(nil), ancestors...), n.Kind)
		for _, c := range n.Children {
			if err := walk(c, next); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := walk(r, nil); err != nil {
			return err
		}
	}
	return nil
}

// InvariantError reports a §3.2 invariant violation found by CheckInvariants.
type InvariantError struct {
	Kind  Kind
	Title string
}

func (e *InvariantError) Error() string {
	return "bdd tree: " + string(e.Kind) + " (" + e.Title + ") has no matching ancestor of family " + string(Family(e.Kind))
}
