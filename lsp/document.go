// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"sync"

	"github.com/luthersystems/mlisp/parser"
	"github.com/luthersystems/mlisp/parser/ast"
)

// DefKind classifies a global definition found in a document.
type DefKind int

// Possible DefKind values
const (
	DefVariable DefKind = iota
	DefFunction
)

// Definition is a global binding made by a top-level def, = or fun
// statement.
type Definition struct {
	Name    string
	Kind    DefKind
	Formals []string
	// Line and Col are the 0-based position of the defined symbol.
	Line int
	Col  int
}

// Signature returns the call form of a function definition, e.g. "(f x y)".
func (d *Definition) Signature() string {
	return "(" + strings.Join(append([]string{d.Name}, d.Formals...), " ") + ")"
}

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu       sync.Mutex
	URI      string
	Version  int32
	Content  string
	roots    []*ast.Node
	defs     []*Definition
	parseErr error
}

// parse parses the document content and collects its definitions.  When the
// content cannot be parsed the definitions of the last successful parse are
// kept so that hover and completion keep working during edits.
func (d *Document) parse() {
	roots, err := parser.Parse([]byte(d.Content))
	d.parseErr = err
	if err != nil {
		return
	}
	d.roots = roots
	lines := newLineStarts(d.Content)
	d.defs = nil
	for _, root := range roots {
		d.defs = append(d.defs, statementDefs(root, lines)...)
	}
}

// Definitions returns the definitions found by the last successful parse.
func (d *Document) Definitions() []*Definition {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.defs
}

// Lookup returns the definition of name in the document or nil.
func (d *Document) Lookup(name string) *Definition {
	for _, def := range d.Definitions() {
		if def.Name == name {
			return def
		}
	}
	return nil
}

// statementDefs returns the definitions made by one top-level statement.
// Both "(def {x} 1)" and the bare form "def {x} 1" are recognized.
func statementDefs(root *ast.Node, lines lineStarts) []*Definition {
	exprs := values(root.Children)
	if len(exprs) == 1 && exprs[0].Is(ast.TagSExpr) {
		exprs = values(exprs[0].Children)
	}
	if len(exprs) < 2 || !exprs[0].Is(ast.TagSymbol) || !exprs[1].Is(ast.TagQExpr) {
		return nil
	}
	syms := values(exprs[1].Children)
	var defs []*Definition
	switch exprs[0].Contents {
	case "fun":
		if len(syms) == 0 || !syms[0].Is(ast.TagSymbol) {
			return nil
		}
		def := newDefinition(syms[0], DefFunction, lines)
		for _, formal := range syms[1:] {
			def.Formals = append(def.Formals, formal.Contents)
		}
		defs = append(defs, def)
	case "def", "=":
		for i, sym := range syms {
			if !sym.Is(ast.TagSymbol) {
				continue
			}
			def := newDefinition(sym, DefVariable, lines)
			if i+2 < len(exprs) {
				def.Kind, def.Formals = valueKind(exprs[i+2])
			}
			defs = append(defs, def)
		}
	}
	return defs
}

// valueKind recognizes lambda expressions bound by def.
func valueKind(value *ast.Node) (DefKind, []string) {
	if !value.Is(ast.TagSExpr) {
		return DefVariable, nil
	}
	exprs := values(value.Children)
	if len(exprs) < 2 || exprs[0].Contents != "lambda" || !exprs[1].Is(ast.TagQExpr) {
		return DefVariable, nil
	}
	var formals []string
	for _, f := range values(exprs[1].Children) {
		formals = append(formals, f.Contents)
	}
	return DefFunction, formals
}

func newDefinition(sym *ast.Node, kind DefKind, lines lineStarts) *Definition {
	line, col := lines.position(sym.Pos)
	return &Definition{Name: sym.Contents, Kind: kind, Line: line, Col: col}
}

// values filters delimiters and anchors out of nodes.
func values(nodes []*ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, n := range nodes {
		if !n.IsDelimiter() {
			out = append(out, n)
		}
	}
	return out
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}
