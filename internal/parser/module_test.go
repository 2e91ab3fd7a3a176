package parser

// Тесты разбора import/export.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfix/internal/ast"
)

func TestParseImports(t *testing.T) {
	src := `import "side-effect";
import def, * as ns from "a";
import {x, y as z, default as w} from "b"
import json from "./data.json" with { type: "json" };
`
	res, _ := parseString(t, src)
	require.Len(t, res.Program.Stmts, 4)
	for _, s := range res.Program.Stmts {
		assert.Equal(t, ast.ImportDeclaration, s.Kind)
	}
	assert.Empty(t, res.Program.Stmts[0].Specifiers)

	second := res.Program.Stmts[1].Specifiers
	require.Len(t, second, 2)
	assert.Equal(t, ast.ImportDefaultSpecifier, second[0].Kind)
	assert.Equal(t, ast.ImportNamespaceSpecifier, second[1].Kind)
	assert.Equal(t, "ns", second[1].Local.Name)

	named := res.Program.Stmts[2].Specifiers
	require.Len(t, named, 3)
	assert.Equal(t, "x", named[0].Local.Name)
	assert.Equal(t, "y", named[1].Imported.Name)
	assert.Equal(t, "z", named[1].Local.Name)
	assert.Equal(t, "default", named[2].Imported.Name)
	assert.Equal(t, `"b"`, res.Program.Stmts[2].Source.Raw)
}

func TestParseExports(t *testing.T) {
	src := `export const a = 1;
export function f() {}
export default class {}
export {a as b, f};
export * from "m";
export * as ns from "m";
export {x} from "n";
`
	res, _ := parseString(t, src)
	stmts := res.Program.Stmts
	require.Len(t, stmts, 7)

	assert.Equal(t, ast.ExportNamedDeclaration, stmts[0].Kind)
	assert.Equal(t, ast.VariableDeclaration, stmts[0].Declaration.Kind)
	assert.Equal(t, ast.FunctionDeclaration, stmts[1].Declaration.Kind)

	assert.Equal(t, ast.ExportDefaultDeclaration, stmts[2].Kind)
	assert.Equal(t, ast.ClassDeclaration, stmts[2].Declaration.Kind)
	assert.Nil(t, stmts[2].Declaration.ID)

	require.Len(t, stmts[3].Specifiers, 2)
	assert.Equal(t, "b", stmts[3].Specifiers[0].Exported.Name)

	assert.Equal(t, ast.ExportAllDeclaration, stmts[4].Kind)
	assert.Nil(t, stmts[4].Exported)
	assert.Equal(t, "ns", stmts[5].Exported.Name)
	assert.NotNil(t, stmts[6].Source)
}

func TestParseExportDefaultExpression(t *testing.T) {
	res, file := parseString(t, "export default a + b\n")
	decl := res.Program.Stmts[0]
	require.Equal(t, ast.ExportDefaultDeclaration, decl.Kind)
	assert.Equal(t, ast.BinaryExpression, decl.Declaration.Kind)
	assert.Equal(t, "export default a + b", file.Text(decl.Span))
}
