package lsp

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"esfix/internal/rules"
)

const testURI = protocol.DocumentUri("file:///work/src/app.js")

type notifications struct {
	mu   sync.Mutex
	sent []*protocol.PublishDiagnosticsParams
}

func (n *notifications) notify(method string, params any) {
	if method != methodPublishDiagnostics {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, params.(*protocol.PublishDiagnosticsParams))
}

func (n *notifications) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

// newTestServer runs only the named rules; `throw Error()` is reported by
// both throw-new-error and new-for-builtins, so most tests pick one.
func newTestServer(t *testing.T, names ...string) (*Server, *glsp.Context, *notifications) {
	t.Helper()
	defs := rules.All()
	if len(names) > 0 {
		defs = nil
		reg := rules.Builtin()
		for _, name := range names {
			def, ok := reg.Get(name)
			require.True(t, ok, name)
			defs = append(defs, def)
		}
	}
	srv := NewServer(Options{Rules: defs, Debounce: -1})
	n := &notifications{}
	return srv, &glsp.Context{Notify: n.notify}, n
}

func openDoc(t *testing.T, srv *Server, ctx *glsp.Context, text string) {
	t.Helper()
	require.NoError(t, srv.didOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "javascript", Version: 1, Text: text},
	}))
}

func codes(ds []protocol.Diagnostic) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.Code.Value.(string))
	}
	return out
}

// applyEdits применяет правки как это делает редактор: с конца документа.
func applyEdits(text string, edits []protocol.TextEdit) string {
	sorted := append([]protocol.TextEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool {
		return offsetInText(text, sorted[i].Range.Start) > offsetInText(text, sorted[j].Range.Start)
	})
	for _, e := range sorted {
		text = replaceRange(text, e.Range, e.NewText)
	}
	return text
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	srv, ctx, n := newTestServer(t, "throw-new-error", "no-useless-undefined")
	openDoc(t, srv, ctx, "const a = 1;\nthrow Error('x');\n")

	params := n.last(t)
	assert.Equal(t, testURI, params.URI)
	require.NotNil(t, params.Version)
	assert.EqualValues(t, 1, *params.Version)
	require.Equal(t, []string{"throw-new-error"}, codes(params.Diagnostics))

	d := params.Diagnostics[0]
	assert.Equal(t, protocol.Position{Line: 1, Character: 6}, d.Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 16}, d.Range.End)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "esfix", *d.Source)
}

func TestSyntaxErrorIsPublished(t *testing.T) {
	srv, ctx, n := newTestServer(t)
	openDoc(t, srv, ctx, "let = ;\n")

	params := n.last(t)
	require.Len(t, params.Diagnostics, 1)
	assert.Contains(t, params.Diagnostics[0].Code.Value.(string), "SYN")
}

func TestDidChangeIncremental(t *testing.T) {
	srv, ctx, n := newTestServer(t, "throw-new-error", "no-useless-undefined")
	openDoc(t, srv, ctx, "throw Error('x');\n")
	require.Len(t, n.last(t).Diagnostics, 1)

	// вставляем `new ` перед Error
	require.NoError(t, srv.didChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 6}, End: protocol.Position{Line: 0, Character: 6}},
			Text:  "new ",
		}},
	}))

	params := n.last(t)
	assert.EqualValues(t, 2, *params.Version)
	assert.Empty(t, params.Diagnostics)
	assert.Equal(t, "throw new Error('x');\n", srv.docs[testURI].text)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	srv, ctx, n := newTestServer(t, "throw-new-error", "no-useless-undefined")
	openDoc(t, srv, ctx, "throw Error('x');\n")
	require.NoError(t, srv.didClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	params := n.last(t)
	assert.Empty(t, params.Diagnostics)
	assert.NotContains(t, srv.docs, testURI)
}

func TestCodeActionQuickFix(t *testing.T) {
	srv, ctx, _ := newTestServer(t, "throw-new-error", "no-useless-undefined")
	text := "throw Error('x');\nfoo(1, undefined);\n"
	openDoc(t, srv, ctx, text)

	res, err := srv.codeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        protocol.Range{Start: protocol.Position{Line: 0, Character: 8}, End: protocol.Position{Line: 0, Character: 8}},
		Context:      protocol.CodeActionContext{Only: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix}},
	})
	require.NoError(t, err)
	actions := res.([]protocol.CodeAction)
	require.Len(t, actions, 1)

	action := actions[0]
	assert.Equal(t, protocol.CodeActionKindQuickFix, *action.Kind)
	assert.True(t, *action.IsPreferred)
	require.Len(t, action.Diagnostics, 1)
	assert.Equal(t, "throw-new-error", action.Diagnostics[0].Code.Value.(string))
	edits := action.Edit.Changes[testURI]
	assert.Equal(t, "throw new Error('x');\nfoo(1, undefined);\n", applyEdits(text, edits))
}

func TestCodeActionFixAll(t *testing.T) {
	srv, ctx, _ := newTestServer(t, "throw-new-error", "no-useless-undefined")
	text := "throw Error('x');\r\nfoo(1, undefined);\r\n"
	openDoc(t, srv, ctx, text)

	res, err := srv.codeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Context:      protocol.CodeActionContext{Only: []protocol.CodeActionKind{"source.fixAll"}},
	})
	require.NoError(t, err)
	actions := res.([]protocol.CodeAction)
	require.Len(t, actions, 1)
	assert.Equal(t, codeActionKindFixAll, *actions[0].Kind)

	edits := actions[0].Edit.Changes[testURI]
	require.Len(t, edits, 1)
	assert.Equal(t, protocol.Position{Line: 2, Character: 0}, edits[0].Range.End)
	assert.Equal(t, "throw new Error('x');\r\nfoo(1);\r\n", edits[0].NewText)
}

func TestOverlappingRulesShareOneRepair(t *testing.T) {
	srv, ctx, n := newTestServer(t)
	text := "throw Error('x');\n"
	openDoc(t, srv, ctx, text)
	assert.ElementsMatch(t, []string{"new-for-builtins", "throw-new-error"}, codes(n.last(t).Diagnostics))

	res, err := srv.codeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        protocol.Range{Start: protocol.Position{Line: 0, Character: 8}, End: protocol.Position{Line: 0, Character: 8}},
		Context:      protocol.CodeActionContext{Only: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix}},
	})
	require.NoError(t, err)
	actions := res.([]protocol.CodeAction)
	require.Len(t, actions, 2)
	for _, action := range actions {
		assert.Equal(t, "throw new Error('x');\n", applyEdits(text, action.Edit.Changes[testURI]))
	}

	// fix-all применяет один из двух фиксов, повторный lint второй уже не находит
	res, err = srv.codeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Context:      protocol.CodeActionContext{Only: []protocol.CodeActionKind{"source.fixAll"}},
	})
	require.NoError(t, err)
	actions = res.([]protocol.CodeAction)
	require.Len(t, actions, 1)
	assert.Equal(t, "throw new Error('x');\n", applyEdits(text, actions[0].Edit.Changes[testURI]))
}

func TestCodeActionUnknownDocument(t *testing.T) {
	srv, ctx, _ := newTestServer(t)
	res, err := srv.codeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.js"},
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestKindAllowed(t *testing.T) {
	assert.True(t, kindAllowed(protocol.CodeActionKindQuickFix, nil))
	assert.True(t, kindAllowed(codeActionKindFixAll, []protocol.CodeActionKind{"source"}))
	assert.True(t, kindAllowed("refactor.rewrite", []protocol.CodeActionKind{"refactor"}))
	assert.False(t, kindAllowed("refactorx", []protocol.CodeActionKind{"refactor"}))
	assert.False(t, kindAllowed(protocol.CodeActionKindQuickFix, []protocol.CodeActionKind{"source"}))
}
