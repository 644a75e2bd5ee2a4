// Copyright © 2024 The ELPS authors

package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/parser/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader("(+ 1 2) x"))
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, lisp.LSExpr, exprs[0].Type)
	assert.Equal(t, "((+ 1 2))", exprs[0].String())
	assert.Equal(t, "(x)", exprs[1].String())
}

func TestNewReader_Literals(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader(`42 -7 1.5 true "a\tb" sym {1 (2)}`))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	cells := exprs[0].Cells
	require.Len(t, cells, 7)
	assert.Equal(t, int64(42), cells[0].Int)
	assert.Equal(t, int64(-7), cells[1].Int)
	assert.Equal(t, 1.5, cells[2].Float)
	assert.Equal(t, lisp.LBool, cells[3].Type)
	assert.True(t, cells[3].Bool)
	assert.Equal(t, "a\tb", cells[4].Str)
	assert.Equal(t, lisp.LSymbol, cells[5].Type)
	assert.Equal(t, lisp.LQExpr, cells[6].Type)
	assert.Equal(t, "{1 (2)}", cells[6].String())
}

func TestNewReader_ParseError(t *testing.T) {
	r := NewReader()
	_, err := r.Read("test.lisp", strings.NewReader("(unclosed"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "test.lisp:"), err.Error())
}

func TestParse_Statements(t *testing.T) {
	nodes, err := Parse([]byte("1 2 (+ 1 2) 3"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	first := nodes[0]
	assert.Equal(t, ast.TagRoot, first.Tag)
	require.Len(t, first.Children, 5)
	assert.Equal(t, ast.TagRegex, first.Children[0].Tag)
	assert.Equal(t, "expr|integer|regex", first.Children[1].Tag)
	assert.Equal(t, "expr|sexpr|>", first.Children[3].Tag)
	assert.Equal(t, ast.TagRegex, first.Children[4].Tag)

	sexpr := first.Children[3]
	require.Len(t, sexpr.Children, 5)
	assert.Equal(t, ast.TagChar, sexpr.Children[0].Tag)
	assert.Equal(t, "(", sexpr.Children[0].Contents)
	assert.Equal(t, "expr|symbol|regex", sexpr.Children[1].Tag)
	assert.Equal(t, ")", sexpr.Children[4].Contents)

	require.Len(t, nodes[1].Children, 3)
	assert.Equal(t, "3", nodes[1].Children[1].Contents)
}

func TestParse_Atoms(t *testing.T) {
	tests := []struct {
		text string
		tag  string
	}{
		{"12", ast.TagInteger},
		{"-12", ast.TagInteger},
		{"1.25", ast.TagReal},
		{"-0.5", ast.TagReal},
		{"1.", ast.TagSymbol},
		{"-", ast.TagSymbol},
		{"true", ast.TagBoolean},
		{"false", ast.TagBoolean},
		{"truth", ast.TagSymbol},
		{"<=", ast.TagSymbol},
		{"&", ast.TagSymbol},
		{"foo_bar?", ast.TagSymbol},
	}
	for _, test := range tests {
		nodes, err := Parse([]byte(test.text))
		if assert.NoError(t, err, test.text) && assert.Len(t, nodes, 1, test.text) {
			leaf := nodes[0].Children[1]
			assert.True(t, leaf.Is(test.tag), "%s: %s", test.text, leaf.Tag)
			assert.Equal(t, test.text, leaf.Contents)
		}
	}
}

func TestParse_Strings(t *testing.T) {
	nodes, err := Parse([]byte(`"a \"b\" c" "x;y"`))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 4)
	assert.Equal(t, `"a \"b\" c"`, nodes[0].Children[1].Contents)
	assert.True(t, nodes[0].Children[1].Is(ast.TagString))
	assert.Equal(t, `"x;y"`, nodes[0].Children[2].Contents)
}

func TestParse_Comments(t *testing.T) {
	nodes, err := Parse([]byte("; leading\n(+ 1 2) ; trailing\n"))
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	nodes, err = Parse([]byte("; nothing but a comment"))
	require.NoError(t, err)
	assert.Empty(t, nodes)

	nodes, err = Parse([]byte("{1 ; inside\n 2}"))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Len(t, nodes[0].Children[1].Children, 4)
}

func TestParse_Lines(t *testing.T) {
	nodes, err := Parse([]byte("(a)\n\n(b\n c)"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, 1, nodes[0].Line)
	assert.Equal(t, 3, nodes[1].Line)
	c := nodes[1].Children[1].Children[2]
	assert.Equal(t, "c", c.Contents)
	assert.Equal(t, 4, c.Line)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		text string
		msg  string
		line int
	}{
		{"\n(+ 1", `2: unmatched "("`, 2},
		{"{1 2", `1: unmatched "{"`, 1},
		{"(+ 1\n", `1: unmatched "(" starting: (+ 1`, 1},
		{"{1 2\n\n  ", `1: unmatched "{"`, 1},
		{"(def {x} 1)\n(+ x 2\n", `2: unmatched "("`, 2},
		{"(head {1 2}\n; trailing\n", `1: unmatched "("`, 1},
		{"(+ 1 2))", `1: unmatched ')'`, 1},
		{"1\n}", `2: unmatched '}'`, 2},
		{`"open`, `1: unexpected source text possibly starting: "open`, 1},
	}
	for _, test := range tests {
		_, err := Parse([]byte(test.text))
		if assert.Error(t, err, test.text) {
			assert.Contains(t, err.Error(), test.msg, test.text)
			var serr *SyntaxError
			if assert.True(t, errors.As(err, &serr), test.text) {
				assert.Equal(t, test.line, serr.Line, test.text)
			}
		}
	}
}

func TestLineIndex(t *testing.T) {
	idx := newLineIndex([]byte("a\nb\n\nc"))
	assert.Equal(t, lineIndex{0, 2, 4, 5}, idx)
	assert.Equal(t, 1, idx.line(0))
	assert.Equal(t, 1, idx.line(1))
	assert.Equal(t, 2, idx.line(2))
	assert.Equal(t, 3, idx.line(4))
	assert.Equal(t, 4, idx.line(5))
	assert.Equal(t, 4, idx.line(100))
}
