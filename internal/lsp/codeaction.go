package lsp

import (
	"context"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"esfix/internal/diag"
	"esfix/internal/driver"
	"esfix/internal/pkgmeta"
	"esfix/internal/source"
)

const codeActionKindFixAll = protocol.CodeActionKind("source.fixAll.esfix")

func (srv *Server) codeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	a := srv.current(params.TextDocument.URI)
	if a == nil {
		return nil, nil
	}
	only := params.Context.Only
	want := spanForRange(a.file, params.Range)
	ctx := diag.FixBuildContext{FileSet: a.fs}

	actions := []protocol.CodeAction{}
	hasAuto := false
	for _, d := range a.diags {
		if d.AutoFix() != nil {
			hasAuto = true
		}
		if !touches(d.Primary, want) {
			continue
		}
		for i, f := range d.Fixes {
			kind := protocol.CodeActionKind(f.Kind.String())
			if !kindAllowed(kind, only) {
				continue
			}
			resolved, err := f.Resolve(ctx)
			if err != nil {
				srv.log.Debug("fix unavailable", "code", d.Code.ID(), "fix", f.Title, "err", err)
				continue
			}
			preferred := resolved.IsPreferred || (i == 0 && resolved.IsAutomatic())
			actions = append(actions, protocol.CodeAction{
				Title:       resolved.Title,
				Kind:        &kind,
				Diagnostics: []protocol.Diagnostic{a.protocolDiagnostic(d)},
				IsPreferred: &preferred,
				Edit:        &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{a.uri: a.textEdits(resolved.Edits)}},
			})
		}
	}

	if hasAuto && kindAllowed(codeActionKindFixAll, only) {
		if action, ok := srv.fixAll(a); ok {
			actions = append(actions, action)
		}
	}
	return actions, nil
}

func (a *analysis) textEdits(edits []diag.TextEdit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{Range: a.rangeFor(e.Span), NewText: e.NewText})
	}
	return out
}

// fixAll runs the fix loop over the buffer and returns a whole-document edit.
func (srv *Server) fixAll(a *analysis) (protocol.CodeAction, bool) {
	content, flags := source.Normalize([]byte(a.text))
	res := driver.FixContent(context.Background(), a.file.Path, content, flags,
		driver.Options{Config: srv.opts.Config, Rules: srv.opts.Rules, Logger: srv.log},
		driver.FixOptions{Mode: driver.ApplyModeAll, DryRun: true},
		pkgmeta.NewCache())
	if res.Err != nil || !res.Changed() {
		return protocol.CodeAction{}, false
	}
	kind := codeActionKindFixAll
	whole := protocol.Range{End: endPosition(a.text)}
	return protocol.CodeAction{
		Title: "Fix all auto-fixable problems",
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			a.uri: {{Range: whole, NewText: string(source.Denormalize(res.Fixed, flags))}},
		}},
	}, true
}

// touches reports whether diagnostic span d overlaps or borders the
// requested range; an empty request range is a cursor position.
func touches(d, want source.Span) bool {
	return d.Start <= want.End && want.Start <= d.End
}

func kindAllowed(kind protocol.CodeActionKind, only []protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	k := string(kind)
	for _, o := range only {
		prefix := string(o)
		if k == prefix || strings.HasPrefix(k, prefix+".") {
			return true
		}
	}
	return false
}

// endPosition: позиция конца исходного текста (с BOM и CRLF как есть).
func endPosition(text string) protocol.Position {
	line := strings.Count(text, "\n")
	last := text[strings.LastIndexByte(text, '\n')+1:]
	var units uint32
	for _, r := range last {
		units += utf16Len(r)
	}
	return protocol.Position{Line: safeUint32(line), Character: units}
}
