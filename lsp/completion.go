// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	prefix := prefixAtPosition(doc.Content, int(params.Position.Line), int(params.Position.Character))
	doc.mu.Unlock()
	return s.completions(doc, prefix), nil
}

// completions returns the document definitions and global bindings which
// begin with prefix, ordered by label.
func (s *Server) completions(doc *Document, prefix string) []protocol.CompletionItem {
	seen := make(map[string]bool)
	var items []protocol.CompletionItem
	for _, def := range doc.Definitions() {
		if seen[def.Name] || !strings.HasPrefix(def.Name, prefix) {
			continue
		}
		seen[def.Name] = true
		kind := protocol.CompletionItemKindVariable
		item := protocol.CompletionItem{Label: def.Name, Kind: &kind}
		if def.Kind == DefFunction {
			kind = protocol.CompletionItemKindFunction
			item.Detail = strPtr(def.Signature())
		}
		items = append(items, item)
	}
	for _, b := range s.env.Root().Bindings() {
		if seen[b.Name] || !strings.HasPrefix(b.Name, prefix) {
			continue
		}
		seen[b.Name] = true
		items = append(items, bindingItem(b))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func bindingItem(b lisp.Binding) protocol.CompletionItem {
	kind := protocol.CompletionItemKindVariable
	item := protocol.CompletionItem{Label: b.Name, Kind: &kind}
	if b.Value.Type != lisp.LFun {
		item.Detail = strPtr(b.Value.Type.String())
		return item
	}
	kind = protocol.CompletionItemKindFunction
	if b.Value.IsBuiltin() {
		item.Detail = strPtr(b.Value.String())
		return item
	}
	sig := lisp.SExpr(append([]*lisp.LVal{lisp.Symbol(b.Name)}, b.Value.Formals().Cells...))
	item.Detail = strPtr(sig.String())
	return item
}
