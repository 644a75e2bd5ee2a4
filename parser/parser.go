// Copyright © 2018 The ELPS authors

// Package parser turns source text into syntax trees.
//
//	statement := <expr>+
//	expr      := <comment> | <string> | <atom> | <sexpr> | <qexpr>
//	sexpr     := '(' <expr>* ')'
//	qexpr     := '{' <expr>* '}'
//	atom      := /[a-zA-Z0-9_+\-*\/\\=<>!&%^?.:]+/
//	string    := '"' (/\\./ | /[^"\\]/)* '"'
//	comment   := ';' /[^\n]*/
//
// Atoms are classified after matching as integer, real, boolean or symbol.
// Top-level expressions are grouped into statements: loose atoms accumulate
// until a parenthesized expression closes the statement.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/parser/ast"
	parsec "github.com/prataprc/goparsec"
)

const (
	termOpenP   = "OPENP"
	termCloseP  = "CLOSEP"
	termOpenB   = "OPENB"
	termCloseB  = "CLOSEB"
	termComment = "COMMENT"
	termString  = "STRING"
	termAtom    = "ATOM"
)

var (
	integerRegexp = regexp.MustCompile(`^-?[0-9]+$`)
	realRegexp    = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
)

// NewReader returns a lisp.Reader which parses source text into statements.
func NewReader() lisp.Reader {
	return &reader{}
}

type reader struct{}

func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	nodes, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", name, err)
	}
	vals := make([]*lisp.LVal, len(nodes))
	for i, n := range nodes {
		vals[i] = lisp.Read(n)
	}
	return vals, nil
}

// Parse parses text and returns one root node per top-level statement.
// Statements containing only comments produce no node.
func Parse(text []byte) ([]*ast.Node, error) {
	exprs, err := parseExprs(text)
	if err != nil {
		return nil, err
	}
	return Statements(exprs), nil
}

// Statements groups top-level expressions into statement roots.
func Statements(exprs []*ast.Node) []*ast.Node {
	var roots []*ast.Node
	var pending []*ast.Node
	for _, x := range exprs {
		pending = append(pending, x)
		if x.Is(ast.TagSExpr) {
			roots = append(roots, ast.Root(pending))
			pending = nil
		}
	}
	if len(pending) > 0 {
		roots = append(roots, ast.Root(pending))
	}
	return roots
}

func parseExprs(text []byte) ([]*ast.Node, error) {
	lines := newLineIndex(text)
	var exprs []*ast.Node
	s := parsec.NewScanner(text)
	p := newParsecParser(lines)
	root, s := p(s)
	for root != nil {
		nodes, err := cleanParsecNodeList([]parsec.ParsecNode{root}, lines)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, nodes...)
		root, s = p(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		pos := s.GetCursor()
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		if len(b) > 0 && (b[0] == ')' || b[0] == '}') {
			return nil, syntaxErrorf(lines.line(pos), "unmatched %q", b[0])
		}
		return nil, syntaxErrorf(lines.line(pos), "unexpected source text possibly starting: %s", b)
	}
	return exprs, nil
}

func newParsecParser(lines lineIndex) parsec.Parser {
	openP := parsec.Atom("(", termOpenP)
	closeP := parsec.Atom(")", termCloseP)
	openB := parsec.Atom("{", termOpenB)
	closeB := parsec.Atom("}", termCloseB)
	comment := parsec.Token(`;[^\n]*`, termComment)
	str := parsec.Token(`"(?:\\[\s\S]|[^"\\])*"`, termString)
	atom := parsec.Token(`[a-zA-Z0-9_+\-*/\\=<>!&%^?.:]+`, termAtom)

	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(groupNode(ast.TagSExpr, lines), openP, exprList, closeP)
	qexpr := parsec.And(groupNode(ast.TagQExpr, lines), openB, exprList, closeB)
	sexprOUnmatched := parsec.And(unmatchedNode(lines), openP, exprList, endOfInput())
	qexprOUnmatched := parsec.And(unmatchedNode(lines), openB, exprList, endOfInput())
	expr = parsec.OrdChoice(nil,
		comment,
		str,
		atom,
		sexpr,
		qexpr,
		// Error matching cases come last because they have the lowest
		// precedence.
		sexprOUnmatched,
		qexprOUnmatched,
	)
	return expr
}

// endOfInput matches the end of the source after any trailing whitespace.
func endOfInput() parsec.Parser {
	end := parsec.End()
	return func(s parsec.Scanner) (parsec.ParsecNode, parsec.Scanner) {
		_, rest := s.SkipWS()
		if node, rest := end(rest); node != nil {
			return node, rest
		}
		return nil, s
	}
}

func groupNode(tag string, lines lineIndex) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		children, err := cleanParsecNodeList(nodes, lines)
		if err != nil {
			return err
		}
		return ast.Group(children, ast.TagExpr, tag, ast.TagRoot)
	}
}

func unmatchedNode(lines lineIndex) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		children, err := cleanParsecNodeList(nodes, lines)
		if err != nil {
			return err
		}
		if len(children) == 0 {
			return fmt.Errorf("unmatched delimiter")
		}
		open := children[0]
		rest := open.Contents + stringifyNodes(children[1:])
		if len(rest) > 10 {
			rest = rest[:10] + "..."
		}
		return syntaxErrorf(open.Line, "unmatched %q starting: %v", open.Contents, rest)
	}
}

// cleanParsecNodeList flattens the nested node lists produced by goparsec
// combinators and converts terminals to syntax tree leaves.  Comments are
// dropped.
func cleanParsecNodeList(lis []parsec.ParsecNode, lines lineIndex) ([]*ast.Node, error) {
	var nodes []*ast.Node
	for _, n := range lis {
		switch node := n.(type) {
		case nil:
		case error:
			return nil, node
		case *ast.Node:
			nodes = append(nodes, node)
		case *parsec.Terminal:
			leaf := terminalLeaf(node)
			if leaf == nil {
				continue
			}
			leaf.Line = lines.line(leaf.Pos)
			nodes = append(nodes, leaf)
		case []parsec.ParsecNode:
			clean, err := cleanParsecNodeList(node, lines)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, clean...)
		}
	}
	return nodes, nil
}

func terminalLeaf(t *parsec.Terminal) *ast.Node {
	switch t.Name {
	case termComment:
		return nil
	case termOpenP, termCloseP, termOpenB, termCloseB:
		return ast.Leaf(t.Value, t.Position, ast.TagChar)
	case termString:
		return ast.Leaf(t.Value, t.Position, ast.TagExpr, ast.TagString, ast.TagRegex)
	case termAtom:
		return ast.Leaf(t.Value, t.Position, ast.TagExpr, classifyAtom(t.Value), ast.TagRegex)
	}
	// End and other zero-width matches.
	return nil
}

func classifyAtom(s string) string {
	switch {
	case integerRegexp.MatchString(s):
		return ast.TagInteger
	case realRegexp.MatchString(s):
		return ast.TagReal
	case s == "true" || s == "false":
		return ast.TagBoolean
	default:
		return ast.TagSymbol
	}
}

func stringifyNodes(nodes []*ast.Node) string {
	var buf bytes.Buffer
	for i, n := range nodes {
		if i > 0 && !n.IsDelimiter() {
			buf.WriteString(" ")
		}
		if len(n.Children) > 0 {
			buf.WriteString(stringifyNodes(n.Children))
			continue
		}
		buf.WriteString(n.Contents)
	}
	return buf.String()
}

// SyntaxError is returned for source text which cannot be parsed.
type SyntaxError struct {
	// Line is the 1-based line at which the error was detected.
	Line int
	Msg  string
}

func syntaxErrorf(line int, format string, v ...interface{}) *SyntaxError {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, v...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d: %s", e.Line, e.Msg)
}

// lineIndex holds the byte offset at which each line of the source begins.
type lineIndex []int

func newLineIndex(text []byte) lineIndex {
	idx := lineIndex{0}
	for i, c := range text {
		if c == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// line returns the 1-based line containing byte offset pos.
func (idx lineIndex) line(pos int) int {
	lo, hi := 0, len(idx)
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if idx[mid] <= pos {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + 1
}
