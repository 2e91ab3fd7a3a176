package lsp

import (
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"esfix/internal/diag"
	"esfix/internal/linter"
	"esfix/internal/pkgmeta"
	"esfix/internal/source"
)

// analysis is the lint result for one version of a document.
type analysis struct {
	uri     protocol.DocumentUri
	version protocol.Integer
	text    string
	fs      *source.FileSet
	file    *source.File
	diags   []*diag.Diagnostic
}

// documentPath: путь для линтера: файловый путь или сам URI для
// несохранённых буферов.
func documentPath(uri protocol.DocumentUri) string {
	if path := uriToPath(uri); path != "" {
		return path
	}
	return string(uri)
}

func (srv *Server) analyze(uri protocol.DocumentUri, ver protocol.Integer, text string) *analysis {
	started := time.Now()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(documentPath(uri), []byte(text)))
	a := &analysis{uri: uri, version: ver, text: text, fs: fs, file: file}

	// package.json мог поменяться между правками, поэтому кеш на анализ
	res, err := linter.LintFile(file, linter.Options{
		Rules:    srv.opts.Rules,
		Config:   srv.opts.Config,
		Packages: pkgmeta.NewCache(),
	})
	if err != nil {
		d := diag.New(diag.SevError, diag.EngRuleFailed, source.Point(file.ID, 0), err.Error())
		a.diags = []*diag.Diagnostic{&d}
		srv.log.Warn("lint failed", "uri", uri, "err", err)
		return a
	}
	a.diags = res.Diagnostics
	for _, f := range res.Failures {
		srv.log.Warn("rule failed", "uri", uri, "rule", f.Rule, "err", f.Err)
	}
	srv.log.Debug("analyzed", "uri", uri, "version", ver,
		"diagnostics", len(a.diags), "elapsed", time.Since(started))
	return a
}

func (a *analysis) protocolDiagnostics() []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(a.diags))
	for _, d := range a.diags {
		if d.Code == diag.ObsTimings {
			continue
		}
		out = append(out, a.protocolDiagnostic(d))
	}
	return out
}

func (a *analysis) protocolDiagnostic(d *diag.Diagnostic) protocol.Diagnostic {
	sev := severityFor(d.Severity)
	code := protocol.IntegerOrString{Value: d.Code.ID()}
	src := serverName
	pd := protocol.Diagnostic{
		Range:    a.rangeFor(d.Primary),
		Severity: &sev,
		Code:     &code,
		Source:   &src,
		Message:  d.Message,
	}
	for _, note := range d.Notes {
		pd.RelatedInformation = append(pd.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: a.uri, Range: a.rangeFor(note.Span)},
			Message:  note.Msg,
		})
	}
	return pd
}

func (a *analysis) rangeFor(span source.Span) protocol.Range {
	if span.IsNowhere() || span.File != a.file.ID {
		return protocol.Range{}
	}
	return rangeForSpan(a.file, span)
}

func severityFor(sev diag.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}
