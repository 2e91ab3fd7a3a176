// Package testkit holds assertions shared by the parser and rule tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"esfix/internal/ast"
	"esfix/internal/source"
)

// CheckSpanInvariants walks a parsed program and checks the span
// invariants the fixers rely on:
// 1) the Program span covers the whole file
// 2) every node points into the same file and is non-empty
// 3) every child lies within its parent and links back to it
func CheckSpanInvariants(program *ast.Node, sf *source.File) error {
	if program == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	if program.Kind != ast.Program {
		return fmt.Errorf("root is %s, not Program", program.Kind)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if program.Span.File != sf.ID {
		return fmt.Errorf("program span points to different file id: got=%d want=%d", program.Span.File, sf.ID)
	}
	if program.Span.Start != 0 || program.Span.End != lenContent {
		return fmt.Errorf("program span %v does not cover file of %d bytes", program.Span, lenContent)
	}
	return checkNode(program, sf.ID)
}

func checkNode(n *ast.Node, file source.FileID) error {
	for _, c := range n.Children() {
		sp := c.Span
		if sp.File != file {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", c.Kind, sp.File, file)
		}
		// пустой quasi в `${a}${b}` имеет нулевую длину
		if sp.End < sp.Start || (sp.End == sp.Start && c.Kind != ast.TemplateElement) {
			return fmt.Errorf("empty %s span: %v", c.Kind, sp)
		}
		if !n.Span.Encloses(sp) {
			return fmt.Errorf("%s span %v is outside parent %s span %v", c.Kind, sp, n.Kind, n.Span)
		}
		if c.Parent != n {
			return fmt.Errorf("%s at %v is not linked to its parent %s", c.Kind, sp, n.Kind)
		}
		if err := checkNode(c, file); err != nil {
			return err
		}
	}
	return nil
}
