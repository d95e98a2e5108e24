// Package lsp serves grammar diagnostics over the Language Server Protocol:
// open documents are parsed with a compiled grammar, syntax errors are
// published as diagnostics and hover shows the syntax tree path under the
// cursor.
package lsp

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/comb/ebnf"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "comb"

var log = commonlog.GetLogger("comb.lsp")

type Server struct {
	grammar *ebnf.Grammar
	handler protocol.Handler
	server  *server.Server
	version string

	mu   sync.Mutex
	docs map[string][]byte
}

// NewServer returns a server checking documents against grammar. The
// grammar stays owned by the caller.
func NewServer(grammar *ebnf.Grammar, version string) *Server {
	ls := &Server{
		grammar: grammar,
		version: version,
		docs:    make(map[string][]byte),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("serving grammar %s", ls.grammar.Start)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, []byte(*params.Text))
	}
	return nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	ls.mu.Lock()
	text, ok := ls.docs[params.TextDocument.URI]
	ls.mu.Unlock()
	if !ok {
		return nil, nil
	}

	path, node := Hover(ls.grammar, text, params.Position)
	if node == nil {
		return nil, nil
	}
	rng := toRange(text, node.Span.Start, node.Span.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: strings.Join(path, " > "),
		},
		Range: &rng,
	}, nil
}

func (ls *Server) update(ctx *glsp.Context, uri string, text []byte) {
	ls.mu.Lock()
	ls.docs[uri] = text
	ls.mu.Unlock()

	diagnostics := Diagnose(ls.grammar, text)
	log.Debugf("%s: %d diagnostics", displayPath(uri), len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnose parses text and returns one diagnostic per syntax error. The
// diagnostic starts where the longest matching prefix ends.
func Diagnose(g *ebnf.Grammar, text []byte) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	err := g.Check(text)
	if err == nil {
		return diagnostics
	}

	offset := 0
	var serr *ebnf.SyntaxError
	if errors.As(err, &serr) {
		offset = serr.Offset
	}
	end := offset
	if end < len(text) {
		end++
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName
	diagnostics = append(diagnostics, protocol.Diagnostic{
		Range:    toRange(text, offset, end),
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	})
	return diagnostics
}

// Hover returns the production path from the root to the innermost node
// covering pos.
func Hover(g *ebnf.Grammar, text []byte, pos protocol.Position) ([]string, *ebnf.Node) {
	root, err := g.Parse(text)
	if err != nil {
		return nil, nil
	}
	offset := toOffset(text, pos)

	var path []string
	var found *ebnf.Node
	n := root
	for n != nil && n.Span.Start <= offset && offset < n.Span.End {
		path = append(path, n.Kind)
		found = n
		var next *ebnf.Node
		for _, c := range n.Children {
			if c.Span.Start <= offset && offset < c.Span.End {
				next = c
				break
			}
		}
		n = next
	}
	return path, found
}

// toPosition converts a byte offset into a zero-based line and byte column.
func toPosition(text []byte, offset int) protocol.Position {
	pos := ebnf.PositionAt("", text, offset)
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line - 1),
		Character: protocol.UInteger(pos.Column - 1),
	}
}

func toRange(text []byte, start, end int) protocol.Range {
	return protocol.Range{
		Start: toPosition(text, start),
		End:   toPosition(text, end),
	}
}

func toOffset(text []byte, pos protocol.Position) int {
	line := 0
	for i, c := range text {
		if line == int(pos.Line) {
			if off := i + int(pos.Character); off <= len(text) {
				return off
			}
			return len(text)
		}
		if c == '\n' {
			line++
		}
	}
	return len(text)
}

func displayPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		if parsed, err := url.Parse(uri); err == nil {
			return filepath.Clean(parsed.Path)
		}
	}
	return uri
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
