// Package lsp serves lint diagnostics and quick fixes over the Language
// Server Protocol.
package lsp

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"esfix/internal/config"
	"esfix/internal/observ"
	"esfix/internal/rule"
	"esfix/internal/version"
)

const (
	serverName      = "esfix"
	defaultDebounce = 200 * time.Millisecond

	methodPublishDiagnostics = "textDocument/publishDiagnostics"
)

// Options configures the language server.
type Options struct {
	Config *config.Config
	Rules  []*rule.Definition
	Logger *slog.Logger
	// Debounce delays re-analysis after didChange; 0 selects the default,
	// a negative value analyses synchronously.
	Debounce time.Duration
}

type document struct {
	uri      protocol.DocumentUri
	version  protocol.Integer
	text     string
	analysis *analysis // последний анализ, может отставать от text
	timer    *time.Timer
}

// Server is the esfix language server. Each document is analysed on its
// own; analyses of outdated versions are dropped instead of published.
type Server struct {
	opts    Options
	log     *slog.Logger
	handler protocol.Handler

	mu       sync.Mutex
	docs     map[protocol.DocumentUri]*document
	shutdown bool
}

// NewServer creates a server with the default handlers.
func NewServer(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = observ.Discard()
	}
	if opts.Debounce == 0 {
		opts.Debounce = defaultDebounce
	}
	srv := &Server{
		opts: opts,
		log:  opts.Logger.With("component", "lsp"),
		docs: make(map[protocol.DocumentUri]*document),
	}
	srv.handler = protocol.Handler{
		Initialize:             srv.initialize,
		Initialized:            srv.initialized,
		Shutdown:               srv.shutdownHandler,
		SetTrace:               srv.setTrace,
		TextDocumentDidOpen:    srv.didOpen,
		TextDocumentDidChange:  srv.didChange,
		TextDocumentDidSave:    srv.didSave,
		TextDocumentDidClose:   srv.didClose,
		TextDocumentCodeAction: srv.codeAction,
	}
	return srv
}

// RunStdio serves JSON-RPC over stdin/stdout until the client exits.
func (srv *Server) RunStdio() error {
	return server.NewServer(&srv.handler, serverName, false).RunStdio()
}

func (srv *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	capabilities.CodeActionProvider = protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{
			protocol.CodeActionKindQuickFix,
			protocol.CodeActionKindRefactor,
			codeActionKindFixAll,
		},
	}
	ver := version.Version
	if params.ClientInfo != nil {
		srv.log.Info("client connected", "client", params.ClientInfo.Name)
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &ver,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdownHandler(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.shutdown = true
	for _, doc := range srv.docs {
		if doc.timer != nil {
			doc.timer.Stop()
		}
	}
	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.mu.Lock()
	srv.docs[uri] = &document{uri: uri, version: params.TextDocument.Version, text: params.TextDocument.Text}
	srv.mu.Unlock()
	srv.refresh(ctx.Notify, uri)
	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.mu.Lock()
	doc, ok := srv.docs[uri]
	if !ok {
		srv.mu.Unlock()
		return nil
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	if srv.opts.Debounce < 0 {
		srv.mu.Unlock()
		srv.refresh(ctx.Notify, uri)
		return nil
	}
	if doc.timer != nil {
		doc.timer.Stop()
	}
	notify := ctx.Notify
	doc.timer = time.AfterFunc(srv.opts.Debounce, func() { srv.refresh(notify, uri) })
	srv.mu.Unlock()
	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.mu.Lock()
	doc, ok := srv.docs[uri]
	if ok && params.Text != nil {
		doc.text = *params.Text
	}
	srv.mu.Unlock()
	if ok {
		srv.refresh(ctx.Notify, uri)
	}
	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.mu.Lock()
	if doc, ok := srv.docs[uri]; ok && doc.timer != nil {
		doc.timer.Stop()
	}
	delete(srv.docs, uri)
	srv.mu.Unlock()
	// закрытый документ не должен оставлять диагностики в редакторе
	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// refresh analyses the current text of uri and publishes the result,
// unless the document changed or closed meanwhile.
func (srv *Server) refresh(notify glsp.NotifyFunc, uri protocol.DocumentUri) {
	srv.mu.Lock()
	doc, ok := srv.docs[uri]
	if !ok || srv.shutdown {
		srv.mu.Unlock()
		return
	}
	text, ver := doc.text, doc.version
	srv.mu.Unlock()

	a := srv.analyze(uri, ver, text)

	srv.mu.Lock()
	doc, ok = srv.docs[uri]
	if !ok || doc.version != ver || doc.text != text {
		srv.mu.Unlock()
		srv.log.Debug("dropping stale analysis", "uri", uri, "version", ver)
		return
	}
	doc.analysis = a
	srv.mu.Unlock()

	published := safeUint32(int(ver))
	notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &published,
		Diagnostics: a.protocolDiagnostics(),
	})
}

// current returns an up-to-date analysis of uri, running one when the last
// published analysis is stale.
func (srv *Server) current(uri protocol.DocumentUri) *analysis {
	srv.mu.Lock()
	doc, ok := srv.docs[uri]
	if !ok {
		srv.mu.Unlock()
		return nil
	}
	if a := doc.analysis; a != nil && a.version == doc.version && a.text == doc.text {
		srv.mu.Unlock()
		return a
	}
	text, ver := doc.text, doc.version
	srv.mu.Unlock()
	return srv.analyze(uri, ver, text)
}
