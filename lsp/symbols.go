// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	symbols := []protocol.DocumentSymbol{}
	for _, def := range doc.Definitions() {
		r := definitionRange(def)
		sym := protocol.DocumentSymbol{
			Name:           def.Name,
			Kind:           protocol.SymbolKindVariable,
			Range:          r,
			SelectionRange: r,
		}
		if def.Kind == DefFunction {
			sym.Kind = protocol.SymbolKindFunction
			sym.Detail = strPtr(def.Signature())
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// textDocumentDefinition handles the textDocument/definition request.
// Only definitions made in the same document can be navigated to.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	word := wordAtPosition(doc.Content, int(params.Position.Line), int(params.Position.Character))
	doc.mu.Unlock()
	def := doc.Lookup(word)
	if def == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: definitionRange(def),
	}, nil
}
