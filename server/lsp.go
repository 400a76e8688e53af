package server

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/lox/compiler"
	"github.com/chazu/lox/internal/logging"
)

const lspName = "lox-lsp"

// LspServer publishes scanner errors as diagnostics and offers keyword and
// identifier completion for open Lox documents.
type LspServer struct {
	mu   sync.Mutex
	docs map[string]string // URI → full document content

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server.
func NewLSP() *LspServer {
	s := &LspServer{
		docs:    make(map[string]string),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	logging.GetLogger("lox.lsp").Info("initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	s.docs = make(map[string]string)
	s.mu.Unlock()
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.mu.Lock()
	s.docs[string(uri)] = text
	s.mu.Unlock()

	logging.GetLogger("lox.lsp").Debugf("opened %s", uri)
	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.mu.Lock()
			s.docs[string(uri)] = whole.Text
			s.mu.Unlock()

			s.publishDiagnostics(ctx, uri, whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	logging.GetLogger("lox.lsp").Debugf("closed %s", uri)
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// document returns the tracked text for uri.
func (s *LspServer) document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[string(uri)]
	return text, ok
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	prefix := extractPrefix(text, params.Position)
	if prefix == "" {
		return nil, nil
	}
	return complete(text, prefix), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return hover(text, params.Position), nil
}

// complete offers keywords first, then identifiers already used in the
// document, that start with prefix. The prefix itself is not offered.
func complete(text, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem

	for _, kw := range compiler.Keywords() {
		if kw != prefix && strings.HasPrefix(kw, prefix) {
			kind := protocol.CompletionItemKindKeyword
			detail := "keyword"
			items = append(items, protocol.CompletionItem{
				Label:  kw,
				Kind:   &kind,
				Detail: &detail,
			})
		}
	}

	seen := make(map[string]bool)
	var names []string
	for _, tok := range compiler.Tokens(text) {
		if tok.Type != compiler.TokenIdentifier {
			continue
		}
		name := tok.Lexeme(text)
		if name == prefix || seen[name] || !strings.HasPrefix(name, prefix) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		kind := protocol.CompletionItemKindVariable
		detail := "identifier"
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: &detail,
		})
	}

	return items
}

// hover describes the token under pos, or returns nil between tokens.
func hover(text string, pos protocol.Position) *protocol.Hover {
	offset := offsetAt(text, pos)
	for _, tok := range compiler.Tokens(text) {
		if tok.Type == compiler.TokenEOF {
			break
		}
		if offset < tok.Start || offset >= tok.Start+tok.Length {
			continue
		}

		var b strings.Builder
		switch {
		case tok.IsError():
			fmt.Fprintf(&b, "**error**: %s", tok.Payload)
		case tok.Type.IsKeyword():
			fmt.Fprintf(&b, "**keyword** `%s`", tok.Lexeme(text))
		case tok.Type == compiler.TokenIdentifier:
			fmt.Fprintf(&b, "**identifier** `%s`", tok.Lexeme(text))
		case tok.Type == compiler.TokenNumber:
			fmt.Fprintf(&b, "**number** `%s`", tok.Lexeme(text))
		case tok.Type == compiler.TokenString:
			fmt.Fprintf(&b, "**string**, %d bytes", len(tok.Payload))
		default:
			fmt.Fprintf(&b, "**operator** `%s`", tok.Type)
		}
		fmt.Fprintf(&b, "\n\nline %d", tok.Line)

		start, end := positionAt(text, tok.Start), positionAt(text, tok.Start+tok.Length)
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: b.String(),
			},
			Range: &protocol.Range{Start: start, End: end},
		}
	}
	return nil
}

// --- Diagnostics ---

// Diagnostics scans text and returns one error diagnostic per error token.
// Columns count bytes, which matches UTF-16 units for ASCII sources.
func Diagnostics(text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	for _, tok := range compiler.Tokens(text) {
		if !tok.IsError() {
			continue
		}
		severity := protocol.DiagnosticSeverityError
		source := lspName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionAt(text, tok.Start),
				End:   positionAt(text, tok.Start+tok.Length),
			},
			Severity: &severity,
			Source:   &source,
			Message:  tok.Payload,
		})
	}
	return diagnostics
}

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics := Diagnostics(text)
	logging.GetLogger("lox.lsp").Debugf("%s: %d diagnostics", uri, len(diagnostics))

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// --- Text position helpers ---

// positionAt converts a byte offset into a zero-based line and column.
func positionAt(text string, offset int) protocol.Position {
	if offset > len(text) {
		offset = len(text)
	}
	line := strings.Count(text[:offset], "\n")
	col := offset - (strings.LastIndexByte(text[:offset], '\n') + 1)
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(col),
	}
}

// offsetAt converts a position back into a byte offset, clamping the
// column to the end of its line.
func offsetAt(text string, pos protocol.Position) int {
	offset := 0
	for line := 0; line < int(pos.Line); line++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return len(text)
		}
		offset += nl + 1
	}
	lineEnd := len(text)
	if nl := strings.IndexByte(text[offset:], '\n'); nl >= 0 {
		lineEnd = offset + nl
	}
	if col := offset + int(pos.Character); col < lineEnd {
		return col
	}
	return lineEnd
}

// extractPrefix returns the word fragment before the cursor for completion.
func extractPrefix(text string, pos protocol.Position) string {
	end := offsetAt(text, pos)
	start := end
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	return text[start:end]
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func boolPtr(b bool) *bool {
	return &b
}
