// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const testURI = "file:///tmp/test.lisp"

const testSource = `; helpers
(fun {add-one x} {+ x 1})
(def {limit square} 10 (lambda {n} {* n n}))
def {total} (add-one limit)
`

func testServer(t *testing.T) *Server {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	s.exitFn = func(int) {}
	return s
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *[]*protocol.PublishDiagnosticsParams) {
	var captured []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
	return ctx, &captured
}

func openTestDoc(t *testing.T, s *Server, content string) *[]*protocol.PublishDiagnosticsParams {
	t.Helper()
	ctx, captured := capturingContext()
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "lisp", Version: 1, Text: content},
	})
	require.NoError(t, err)
	return captured
}

func position(uri string, line, col int) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)},
	}
}

func TestWordAtPosition(t *testing.T) {
	content := "(fun {add-one x}\n  {+ x 1})"
	assert.Equal(t, "fun", wordAtPosition(content, 0, 1))
	assert.Equal(t, "add-one", wordAtPosition(content, 0, 9))
	assert.Equal(t, "add-one", wordAtPosition(content, 0, 13))
	assert.Equal(t, "+", wordAtPosition(content, 1, 3))
	assert.Equal(t, "", wordAtPosition(content, 0, 0))
	assert.Equal(t, "", wordAtPosition(content, 5, 0))
	assert.Equal(t, "add", prefixAtPosition(content, 0, 9))
}

func TestLineStarts(t *testing.T) {
	ls := newLineStarts("ab\n\ncd")
	for _, test := range []struct{ pos, line, col int }{
		{0, 0, 0},
		{1, 0, 1},
		{3, 1, 0},
		{4, 2, 0},
		{5, 2, 1},
	} {
		line, col := ls.position(test.pos)
		assert.Equal(t, test.line, line, "pos %d", test.pos)
		assert.Equal(t, test.col, col, "pos %d", test.pos)
	}
}

func TestDefinitions(t *testing.T) {
	s := testServer(t)
	openTestDoc(t, s, testSource)
	defs := s.docs.Get(testURI).Definitions()
	require.Len(t, defs, 4)

	assert.Equal(t, &Definition{Name: "add-one", Kind: DefFunction, Formals: []string{"x"}, Line: 1, Col: 6}, defs[0])
	assert.Equal(t, &Definition{Name: "limit", Kind: DefVariable, Line: 2, Col: 6}, defs[1])
	assert.Equal(t, &Definition{Name: "square", Kind: DefFunction, Formals: []string{"n"}, Line: 2, Col: 12}, defs[2])
	assert.Equal(t, &Definition{Name: "total", Kind: DefVariable, Line: 3, Col: 5}, defs[3])
	assert.Equal(t, "(add-one x)", defs[0].Signature())
}

func TestDiagnostics(t *testing.T) {
	s := testServer(t)
	captured := openTestDoc(t, s, testSource)
	require.Len(t, *captured, 1)
	assert.Empty(t, (*captured)[0].Diagnostics)

	captured = openTestDoc(t, s, "(+ 1 2)\n(head {1 2}\n")
	require.Len(t, *captured, 1)
	diags := (*captured)[0].Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.UInteger(1), diags[0].Range.Start.Line)
	assert.Contains(t, diags[0].Message, `unmatched "("`)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)

	// Definitions of the last good parse survive a syntax error.
	ctx, _ := capturingContext()
	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	assert.Nil(t, s.docs.Get(testURI))
	openTestDoc(t, s, testSource)
	s.docs.Change(testURI, 2, testSource+"(fun {broken")
	assert.Len(t, s.docs.Get(testURI).Definitions(), 4)
}

func TestHover(t *testing.T) {
	s := testServer(t)
	openTestDoc(t, s, testSource)

	hover, err := s.textDocumentHover(nil, &protocol.HoverParams{TextDocumentPositionParams: position(testURI, 3, 14)})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content := hover.Contents.(protocol.MarkupContent)
	assert.Equal(t, "**function** `add-one`\n\n```lisp\n(add-one x)\n```\n\n*Defined on line 2*", content.Value)

	hover, err = s.textDocumentHover(nil, &protocol.HoverParams{TextDocumentPositionParams: position(testURI, 1, 18)})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content = hover.Contents.(protocol.MarkupContent)
	assert.Contains(t, content.Value, "builtin (+ & x)")

	hover, err = s.textDocumentHover(nil, &protocol.HoverParams{TextDocumentPositionParams: position(testURI, 0, 3)})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestCompletion(t *testing.T) {
	s := testServer(t)
	openTestDoc(t, s, testSource)
	s.docs.Change(testURI, 2, testSource+"(ad")

	result, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: position(testURI, 4, 3),
	})
	require.NoError(t, err)
	items := result.([]protocol.CompletionItem)
	require.Len(t, items, 1)
	assert.Equal(t, "add-one", items[0].Label)

	items = s.completions(s.docs.Get(testURI), "fi")
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"filter"}, labels)
	assert.Equal(t, protocol.CompletionItemKindFunction, *items[0].Kind)
	assert.Equal(t, "(filter f l)", *items[0].Detail)
}

func TestDocumentSymbolAndDefinition(t *testing.T) {
	s := testServer(t)
	openTestDoc(t, s, testSource)

	result, err := s.textDocumentDocumentSymbol(nil, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	symbols := result.([]protocol.DocumentSymbol)
	require.Len(t, symbols, 4)
	assert.Equal(t, "add-one", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[0].Kind)
	assert.Equal(t, protocol.SymbolKindVariable, symbols[1].Kind)

	result, err = s.textDocumentDefinition(nil, &protocol.DefinitionParams{
		TextDocumentPositionParams: position(testURI, 3, 21),
	})
	require.NoError(t, err)
	loc := result.(protocol.Location)
	assert.Equal(t, testURI, loc.URI)
	assert.Equal(t, protocol.UInteger(2), loc.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(6), loc.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(11), loc.Range.End.Character)

	result, err = s.textDocumentDefinition(nil, &protocol.DefinitionParams{
		TextDocumentPositionParams: position(testURI, 1, 20),
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}
