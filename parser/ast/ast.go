// Copyright © 2018 The ELPS authors

// Package ast defines the syntax tree produced by the parser and consumed by
// lisp.Read.
//
// A Node carries a classification tag, its literal text, and its ordered
// children.  Tags are '|' separated lists of rule names, innermost last, in
// the same shape as the tags produced by parser combinator libraries like
// mpc:
//
//	>                  the root of a statement
//	expr|integer|regex an integer literal
//	expr|real|regex    a real literal
//	expr|boolean|regex a boolean literal
//	expr|symbol|regex  a symbol
//	expr|string|regex  a string literal, quotes and escapes intact
//	expr|sexpr|>       a parenthesized expression
//	expr|qexpr|>       a braced (quoted) expression
//	char               a structural delimiter
//	regex              a zero-width anchor
package ast

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tag components recognized by lisp.Read.
const (
	TagRoot    = ">"
	TagExpr    = "expr"
	TagInteger = "integer"
	TagReal    = "real"
	TagBoolean = "boolean"
	TagSymbol  = "symbol"
	TagString  = "string"
	TagSExpr   = "sexpr"
	TagQExpr   = "qexpr"
	TagChar    = "char"
	TagRegex   = "regex"
)

// Node is a syntax tree node.
type Node struct {
	Tag      string  `yaml:"tag"`
	Contents string  `yaml:"contents,omitempty"`
	Pos      int     `yaml:"pos"`
	Line     int     `yaml:"line,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// Leaf returns a terminal node with the given rule path and text.
func Leaf(contents string, pos int, rules ...string) *Node {
	return &Node{
		Tag:      strings.Join(rules, "|"),
		Contents: contents,
		Pos:      pos,
	}
}

// Group returns a non-terminal node with the given rule path.
func Group(children []*Node, rules ...string) *Node {
	n := &Node{
		Tag:      strings.Join(rules, "|"),
		Children: children,
	}
	if len(children) > 0 {
		n.Pos = children[0].Pos
		n.Line = children[0].Line
	}
	return n
}

// Root wraps the nodes of one top-level statement.  Like the trees produced
// by mpc the statement is bracketed by zero-width regex anchors.
func Root(exprs []*Node) *Node {
	children := make([]*Node, 0, len(exprs)+2)
	start, end := 0, 0
	if len(exprs) > 0 {
		start = exprs[0].Pos
		end = exprs[len(exprs)-1].Pos
	}
	children = append(children, Leaf("", start, TagRegex))
	children = append(children, exprs...)
	children = append(children, Leaf("", end, TagRegex))
	n := Group(children, TagRoot)
	if len(exprs) > 0 {
		n.Line = exprs[0].Line
	}
	return n
}

// Is reports whether rule is one of the '|' separated components of n.Tag.
func (n *Node) Is(rule string) bool {
	for _, r := range strings.Split(n.Tag, "|") {
		if r == rule {
			return true
		}
	}
	return false
}

// IsDelimiter reports whether n is structural punctuation which carries no
// value.
func (n *Node) IsDelimiter() bool {
	switch n.Contents {
	case "(", ")", "{", "}":
		return true
	}
	return n.Tag == TagRegex
}

func (n *Node) String() string {
	var b strings.Builder
	_ = Fprint(&b, n)
	return b.String()
}

// Fprint writes an indented listing of n to w.  Each level of depth is marked
// by a leading '>'.
func Fprint(w io.Writer, n *Node) error {
	return fprint(w, n, 0)
}

func fprint(w io.Writer, n *Node, level int) error {
	pad := strings.Repeat(">", level)
	if n.Tag != "" {
		if _, err := fmt.Fprintf(w, "%sTag: %s\n", pad, n.Tag); err != nil {
			return err
		}
	}
	if n.Contents != "" {
		if _, err := fmt.Fprintf(w, "%sContents: %s\n", pad, n.Contents); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%sNumber of children: %d\n", pad, len(n.Children)); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := fprint(w, c, level+1); err != nil {
			return err
		}
	}
	return nil
}

// EncodeYAML writes the trees in nodes to w as a YAML sequence.
func EncodeYAML(w io.Writer, nodes []*Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nodes); err != nil {
		return fmt.Errorf("encode syntax tree: %w", err)
	}
	return enc.Close()
}

// DecodeYAML reads a sequence of trees previously written by EncodeYAML.
func DecodeYAML(r io.Reader) ([]*Node, error) {
	var nodes []*Node
	if err := yaml.NewDecoder(r).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("decode syntax tree: %w", err)
	}
	return nodes, nil
}
