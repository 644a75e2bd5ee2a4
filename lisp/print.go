// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"strconv"
	"strings"
)

func writeLiteral(buf *bytes.Buffer, v *LVal) {
	switch v.Type {
	case LInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case LFloat:
		buf.WriteString(strconv.FormatFloat(v.Float, 'f', 6, 64))
	case LBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case LSymbol:
		buf.WriteString(v.Str)
	case LString:
		buf.WriteByte('"')
		buf.WriteString(Escape(v.Str))
		buf.WriteByte('"')
	case LError:
		buf.WriteString("Error: ")
		buf.WriteString(v.Str)
	case LSExpr:
		writeCells(buf, v.Cells, '(', ')')
	case LQExpr:
		writeCells(buf, v.Cells, '{', '}')
	case LFun:
		fd := v.FunData()
		if fd.Builtin != nil {
			buf.WriteString("<builtin ")
			buf.WriteString(fd.Name)
			buf.WriteString(">")
			return
		}
		buf.WriteString("(lambda ")
		writeLiteral(buf, v.Formals())
		buf.WriteByte(' ')
		writeLiteral(buf, v.Body())
		buf.WriteByte(')')
	default:
		buf.WriteString("<invalid>")
	}
}

func writeCells(buf *bytes.Buffer, cells []*LVal, open, close byte) {
	buf.WriteByte(open)
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(' ')
		}
		writeLiteral(buf, c)
	}
	buf.WriteByte(close)
}

// writeDisplay only differs from writeLiteral at the top level.  Nested
// values are always written in literal form.
func writeDisplay(buf *bytes.Buffer, v *LVal) {
	switch v.Type {
	case LString:
		buf.WriteString(v.Str)
	case LSExpr, LQExpr:
		if len(v.Cells) == 0 {
			return
		}
		writeLiteral(buf, v)
	default:
		writeLiteral(buf, v)
	}
}

var escapes = map[byte]byte{
	'\a': 'a',
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	'\v': 'v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	0:    '0',
}

var unescapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'0':  0,
	'?':  '?',
}

// Escape returns s with control characters, quotes and backslashes replaced
// by their backslash escape sequences.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if e, ok := escapes[s[i]]; ok {
			b.WriteByte('\\')
			b.WriteByte(e)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Unescape reverses Escape.  Unknown escape sequences are kept verbatim.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		if c, ok := unescapes[s[i+1]]; ok {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
