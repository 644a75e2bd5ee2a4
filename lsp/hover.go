// Copyright © 2024 The ELPS authors

package lsp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/luthersystems/mlisp/lisp/lisplib/libhelp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	word := wordAtPosition(doc.Content, int(params.Position.Line), int(params.Position.Character))
	doc.mu.Unlock()
	if word == "" {
		return nil, nil
	}

	content := s.hoverContent(doc, word)
	if content == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}, nil
}

// hoverContent builds Markdown hover text for word.  Definitions in the
// document shadow global bindings.
func (s *Server) hoverContent(doc *Document, word string) string {
	if def := doc.Lookup(word); def != nil {
		return definitionHover(def)
	}
	var buf bytes.Buffer
	if err := libhelp.RenderVar(&buf, s.env, word); err != nil {
		return ""
	}
	return "```\n" + strings.TrimSuffix(buf.String(), "\n") + "\n```"
}

func definitionHover(def *Definition) string {
	var sb strings.Builder
	if def.Kind == DefFunction {
		fmt.Fprintf(&sb, "**function** `%s`\n\n```lisp\n%s\n```", def.Name, def.Signature())
	} else {
		fmt.Fprintf(&sb, "**variable** `%s`", def.Name)
	}
	fmt.Fprintf(&sb, "\n\n*Defined on line %d*", def.Line+1)
	return sb.String()
}
