// Copyright © 2018 The ELPS authors

package lisp

import (
	"strconv"

	"github.com/luthersystems/mlisp/parser/ast"
)

// Read converts a syntax tree into a value.  Literals which cannot be
// represented produce an LError in place of the literal.
func Read(n *ast.Node) *LVal {
	switch {
	case n.Is(ast.TagInteger):
		return readInt(n.Contents)
	case n.Is(ast.TagReal):
		return readFloat(n.Contents)
	case n.Is(ast.TagBoolean):
		return readBool(n.Contents)
	case n.Is(ast.TagString):
		return readString(n.Contents)
	case n.Is(ast.TagSymbol):
		return Symbol(n.Contents)
	}

	var v *LVal
	switch {
	case n.Is(ast.TagQExpr):
		v = QExpr(nil)
	case n.Tag == ast.TagRoot, n.Is(ast.TagSExpr):
		v = SExpr(nil)
	default:
		return ErrorConditionf(CondBadLiteral, "Unrecognized syntax '%s'", n.Tag)
	}
	for _, c := range n.Children {
		if c.IsDelimiter() {
			continue
		}
		v.Cells = append(v.Cells, Read(c))
	}
	return v
}

func readInt(s string) *LVal {
	x, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ErrorConditionf(CondBadLiteral, "Bad Integer")
	}
	return Int(x)
}

func readFloat(s string) *LVal {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ErrorConditionf(CondBadLiteral, "Bad real")
	}
	return Float(x)
}

func readBool(s string) *LVal {
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return ErrorConditionf(CondBadLiteral, "Invalid boolean")
}

func readString(s string) *LVal {
	if len(s) < 2 {
		return ErrorConditionf(CondBadLiteral, "Invalid string")
	}
	return String(Unescape(s[1 : len(s)-1]))
}
