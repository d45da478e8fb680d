// Package diagnostics carries non-fatal warnings out of the core without
// coupling it to any particular logging library (spec §7: "Warnings ...
// are sent to a diagnostic sink supplied by the caller but do not block
// the pass").
package diagnostics

// Sink receives warnings emitted during a lex/parse pass. Implementations
// are supplied by the caller; the core never constructs one itself.
type Sink interface {
	Warn(source string, line int, message string)
}

// Discard is a Sink that drops every warning. Useful in tests and as the
// default when a caller does not care about diagnostics.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Warn(string, int, string) {}

// Collecting is a Sink that accumulates warnings in memory, in order.
// cmd/bddtool uses one per pass to decide whether to log at the end.
type Collecting struct {
	Warnings []Warning
}

// Warning is one recorded diagnostic.
type Warning struct {
	Source  string
	Line    int
	Message string
}

func (c *Collecting) Warn(source string, line int, message string) {
	c.Warnings = append(c.Warnings, Warning{Source: source, Line: line, Message: message})
}
