// Package rule is the event dispatch core: rules register handlers per
// node kind and phase, and a single Visitor runs all of them in one walk,
// turning the problems they yield into diagnostics.
package rule

import (
	"iter"

	"esfix/internal/ast"
	"esfix/internal/fix"
	"esfix/internal/source"
)

// Phase selects when a handler runs relative to a node's subtree.
type Phase uint8

const (
	// PhaseEnter runs when the walk reaches the node.
	PhaseEnter Phase = iota
	// PhaseExit runs after the node's whole subtree.
	PhaseExit
)

func (p Phase) String() string {
	if p == PhaseExit {
		return "exit"
	}
	return "enter"
}

// EventKey identifies one dispatch slot.
type EventKey struct {
	Kind  ast.Kind
	Phase Phase
}

// Handler inspects one node and yields zero or more problems.
// A nil sequence means no problem.
type Handler func(n *ast.Node) iter.Seq[*Problem]

// Report yields the single problem p.
func Report(p *Problem) iter.Seq[*Problem] {
	return func(yield func(*Problem) bool) {
		yield(p)
	}
}

// Patch computes the edits of a fix; see package fix.
type Patch = fix.Patch

// Suggestion is a fix offered for review only.
type Suggestion struct {
	MessageID string
	Data      map[string]string
	Fix       Patch
}

// Problem is what a handler reports. Either Node or Span locates it and
// either MessageID or Message describes it.
type Problem struct {
	Node        *ast.Node
	Span        source.Span
	MessageID   string
	Message     string
	Data        map[string]string
	Fix         Patch
	Suggestions []Suggestion
}

func (p *Problem) span() source.Span {
	if p.Node != nil {
		return p.Node.Span
	}
	return p.Span
}

// Definition describes a rule.
type Definition struct {
	Name           string
	Description    string
	Fixable        bool
	HasSuggestions bool
	// Messages maps message IDs to templates with {{name}} placeholders.
	Messages map[string]string
	// Create registers the rule's handlers for one file.
	Create func(ctx *Context) error
}
