// Package verify re-parses fixed output with an independent JavaScript
// grammar so that a broken patch never reaches disk.
package verify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/javascript"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// ErrInvalidSyntax is returned when the reference grammar rejects the content.
var ErrInvalidSyntax = errors.New("verify: output does not parse")

var (
	langOnce sync.Once
	lang     *sitter.Language
)

func language() *sitter.Language {
	langOnce.Do(func() {
		lang = sitter.NewLanguage(javascript.GetLanguage())
	})
	return lang
}

// Check parses content with tree-sitter and reports the first error node.
// Parser instances are not shared; each call builds its own.
func Check(ctx context.Context, content []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := sitter.NewParser()
	p.SetLanguage(language())

	tree, err := p.ParseString(ctx, nil, content)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	root := tree.RootNode()
	if root.IsNull() {
		return fmt.Errorf("%w: empty tree", ErrInvalidSyntax)
	}
	if root.HasError() {
		if at, ok := firstError(root); ok {
			return fmt.Errorf("%w at %d:%d", ErrInvalidSyntax, at.Row+1, at.Column+1)
		}
		return ErrInvalidSyntax
	}
	// грамматика пропускает пустые слоты вроде `f(,)`
	if at, ok := emptySlot(root); ok {
		return fmt.Errorf("%w: empty argument at %d:%d", ErrInvalidSyntax, at.Row+1, at.Column+1)
	}
	return nil
}

// slotLists: узлы, где запятая не может идти сразу за '(' или другой запятой.
var slotLists = map[string]bool{
	"arguments":         true,
	"formal_parameters": true,
}

// emptySlot finds a comma that directly follows the opening parenthesis or
// another comma in an argument or parameter list.
func emptySlot(n sitter.Node) (sitter.Point, bool) {
	if slotLists[n.Type()] {
		prev := ""
		for idx := range n.ChildCount() {
			child := n.Child(idx)
			if child.IsNull() {
				continue
			}
			typ := child.Type()
			if typ == "," && (prev == "(" || prev == ",") {
				return child.StartPoint(), true
			}
			if typ != "comment" {
				prev = typ
			}
		}
	}
	for idx := range n.ChildCount() {
		child := n.Child(idx)
		if child.IsNull() {
			continue
		}
		if at, ok := emptySlot(child); ok {
			return at, true
		}
	}
	return sitter.Point{}, false
}

// firstError спускается по дереву до первого ERROR/MISSING узла
func firstError(n sitter.Node) (sitter.Point, bool) {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n.StartPoint(), true
	}
	for idx := range n.ChildCount() {
		child := n.Child(idx)
		if child.IsNull() || !child.HasError() {
			continue
		}
		if at, ok := firstError(child); ok {
			return at, true
		}
	}
	return sitter.Point{}, false
}
