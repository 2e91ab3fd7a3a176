package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"esfix/internal/diag"
	"esfix/internal/lexer"
	"esfix/internal/parser"
	"esfix/internal/source"
)

func parseSnippet(t *testing.T, src string) (*source.FileSet, *parser.Result) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte(src))
	res, err := parser.ParseFile(fs.Get(id), parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return fs, res
}

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("// hi\nf(1);\n"))
	toks, comments := lexer.Tokenize(fs.Get(id), lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, comments, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "  -: LineComment") {
		t.Errorf("comment must come first, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  1: Ident") || !strings.Contains(lines[1], "at 2:1-2:2") {
		t.Errorf("unexpected identifier line %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "(newline before)") {
		t.Errorf("expected newline marker on %q", lines[1])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.js", []byte("a /* c */ + b"))
	toks, comments := lexer.Tokenize(fs.Get(id), lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks, comments); err != nil {
		t.Fatal(err)
	}
	var out TokensOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out.Tokens) != 3 || len(out.Comments) != 1 {
		t.Fatalf("unexpected dump: %+v", out)
	}
	if out.Tokens[1].Kind != "+" || out.Comments[0].Kind != "BlockComment" {
		t.Errorf("unexpected kinds: %+v", out)
	}
}

func TestFormatASTPretty(t *testing.T) {
	fs, res := parseSnippet(t, "f(1, [, x]);\n")
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, res.Program, fs); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{
		"a.js (span:",
		"└─ body[0]: ExpressionStatement",
		"   └─ expression: CallExpression",
		"      ├─ callee: Identifier f",
		`      ├─ arguments[0]: Literal "1"`,
		"      └─ arguments[1]: ArrayExpression",
		"         ├─ elements[0]: <hole>",
		"         └─ elements[1]: Identifier x",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestFormatASTJSON(t *testing.T) {
	_, res := parseSnippet(t, "let s = 'x';\n")
	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, res.Program); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if root.Type != "Program" || len(root.Children) != 1 {
		t.Fatalf("unexpected root: %+v", root)
	}
	decl := root.Children[0]
	if decl.Type != "VariableDeclaration" || decl.Field != "body[0]" || decl.Fields["kind"] != "let" {
		t.Fatalf("unexpected declaration: %+v", decl)
	}
	init := decl.Children[0].Children[1]
	if init.Field != "init" || init.Fields["cooked"] != "x" {
		t.Errorf("unexpected init: %+v", init)
	}
}

func TestFormatASTTree(t *testing.T) {
	_, res := parseSnippet(t, "a + b;")
	var buf bytes.Buffer
	if err := FormatASTTree(&buf, res.Program); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{"Program", "expression: BinaryExpression op=+", "left: Identifier a", "right: Identifier b"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in tree:\n%s", want, output)
		}
	}
	if err := FormatASTTree(&buf, nil); err == nil {
		t.Error("expected error for empty tree")
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/work")
	id := fs.AddVirtual("/work/src/a.js", []byte("throw Error('x');\n"))

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, "throw-new-error", source.Span{File: id, Start: 6, End: 16}, "Use `new` when creating an error.")
	d = d.WithFix("Add `new`", diag.TextEdit{Span: source.Span{File: id, Start: 6, End: 6}, NewText: "new "})
	bag.Add(&d)
	s := diag.New(diag.SevInfo, "no-useless-undefined", source.Span{File: id, Start: 0, End: 5}, "suggestion only")
	s = s.WithFixSuggestion(&diag.Fix{Title: "manual", Applicability: diag.FixApplicabilityManualReview,
		Edits: []diag.TextEdit{{Span: source.Span{File: id, Start: 0, End: 5}}}})
	bag.Add(&s)
	timing := diag.New(diag.SevInfo, diag.ObsTimings, source.Nowhere, "timings")
	bag.Add(&timing)

	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{
		ToolName:       "esfix",
		ToolVersion:    "1.2.3",
		InvocationArgs: []string{"lint", "src"},
		Rules:          []SarifRule{{ID: "throw-new-error", Description: "Require `new` when creating an error."}},
	})
	if err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "esfix" || len(run.Tool.Driver.Rules) != 1 || len(run.Invocations) != 1 {
		t.Errorf("unexpected driver: %+v", run.Tool)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected timings to be skipped, got %d results", len(run.Results))
	}

	res := run.Results[0]
	if res.RuleID != "throw-new-error" || res.Level != "error" {
		t.Errorf("unexpected result: %+v", res)
	}
	loc := res.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/a.js" || loc.Region.StartColumn != 7 || loc.Region.ByteLength != 10 {
		t.Errorf("unexpected location: %+v", loc)
	}
	if len(res.Fixes) != 1 || res.Fixes[0].ArtifactChanges[0].Replacements[0].InsertedContent.Text != "new " {
		t.Errorf("unexpected fixes: %+v", res.Fixes)
	}
	if run.Results[1].Level != "note" || len(run.Results[1].Fixes) != 0 {
		t.Errorf("suggestions must not become SARIF fixes: %+v", run.Results[1])
	}
}
