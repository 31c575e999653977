// Package lsp implements a Language Server Protocol front end over the
// lex/parse/lower pipeline: document tracking, parse/lower diagnostics,
// and token-based semantic highlighting, served over tliron/glsp.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/glint-lang/glint/internal/ast"
)

// SemanticTokenTypes is the legend glint's handler advertises during
// Initialize; TextDocumentSemanticTokensFull's TokenType indices index
// into this slice.
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"string",
	"operator",
}

// SemanticTokenModifiers is the matching modifier legend.
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
}

// Handler implements the glsp server callbacks for glint source files. It
// caches each open document's text and last-good parse, so semantic-token
// requests read the text without going back to disk; they still re-lex
// that text on every call, and completion does not consult the cache.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	stmts   map[string][]ast.Statement
}

// NewHandler creates an empty Handler ready to be wired into a glsp server.
func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		stmts:   make(map[string][]ast.Statement),
	}
}

// Initialize advertises glint's LSP capabilities: full-document sync,
// a keyword/builtin completion provider, and full semantic tokens.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("glint LSP Initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is a no-op acknowledgement.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("glint LSP Initialized")
	return nil
}

// Shutdown is a no-op acknowledgement.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("glint LSP Shutdown")
	return nil
}

// TextDocumentDidOpen parses the newly opened file and publishes any
// resulting diagnostics. The document's text is re-read from disk rather
// than taken from params: glint syncs full documents, so the on-disk copy
// (just saved/opened by the editor) and the notification's payload agree.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	diags, err := h.reparse(params.TextDocument.URI)
	if err != nil {
		return err
	}
	sendDiagnostics(ctx, params.TextDocument.URI, diags)
	return nil
}

// TextDocumentDidChange re-reads the document from disk (not from the
// change payload), re-parses it, and republishes diagnostics.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	diags, err := h.reparse(params.TextDocument.URI)
	if err != nil {
		return err
	}
	sendDiagnostics(ctx, params.TextDocument.URI, diags)
	return nil
}

// TextDocumentDidClose drops the document's cached state.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	delete(h.stmts, path)
	h.mu.Unlock()
	return nil
}

// TextDocumentCompletion returns the closed keyword and builtin-function
// list; glint has no type checker to drive context-sensitive completion.
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	items := make([]protocol.CompletionItem, 0, len(keywordCompletions)+len(builtinCompletions))
	kind := protocol.CompletionItemKindKeyword
	for _, kw := range keywordCompletions {
		items = append(items, protocol.CompletionItem{Label: kw, Kind: &kind})
	}
	fnKind := protocol.CompletionItemKindFunction
	for _, fn := range builtinCompletions {
		items = append(items, protocol.CompletionItem{Label: fn, Kind: &fnKind})
	}
	return &protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

var keywordCompletions = []string{
	"fn", "type", "struct", "let", "const", "if", "elif", "else",
	"while", "for", "in", "break", "continue", "return",
	"null", "unit", "true", "false",
}

var builtinCompletions = []string{
	"print", "println", "log", "equal", "neq", "lt", "gt", "leq", "geq",
	"add", "sub", "mul", "div",
}

// TextDocumentSemanticTokensFull tokenizes the cached document and encodes
// the result in the LSP delta-line/delta-start wire format.
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	source, ok := h.content[path]
	h.mu.RUnlock()
	if !ok {
		return &protocol.SemanticTokens{}, nil
	}

	tokens := collectSemanticTokens(source)

	var data []uint32
	var prevLine, prevStart uint32
	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		deltaStart := tok.StartChar
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, tok.Length, uint32(tok.TokenType), uint32(tok.TokenModifiers))
		prevLine, prevStart = tok.Line, tok.StartChar
	}

	return &protocol.SemanticTokens{Data: data}, nil
}

// reparse reads the document from disk, then lexes/parses/lowers its
// text, caching the result on success and building diagnostics from
// whichever stage first failed.
func (h *Handler) reparse(uri protocol.DocumentUri) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	text := string(content)

	stmts, diags := Validate(text)

	h.mu.Lock()
	h.content[path] = text
	if stmts != nil {
		h.stmts[path] = stmts
	}
	h.mu.Unlock()

	return diags, nil
}

func uriToPath(rawURI protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(rawURI))
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diags []protocol.Diagnostic) {
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
