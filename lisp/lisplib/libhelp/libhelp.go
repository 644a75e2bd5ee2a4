// Copyright © 2021 The ELPS authors

// Package libhelp renders documentation for the builtins and the values
// bound in an environment.
package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// WrapWidth is the maximum width of rendered documentation lines, including
// their indentation.
const WrapWidth = 72

const docIndent = 2

// CheckMissing returns the names of builtins without documentation.
func CheckMissing(defs []lisp.LBuiltinDef) []string {
	var missing []string
	for _, def := range defs {
		if strings.TrimSpace(def.Docstring()) == "" {
			missing = append(missing, def.Name())
		}
	}
	return missing
}

// RenderBuiltins writes the signature and documentation of each builtin in
// defs to w.
func RenderBuiltins(w io.Writer, defs []lisp.LBuiltinDef) error {
	for i, def := range defs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		err := renderFun(w, "builtin", def.Name(), def.Formals(), def.Docstring())
		if err != nil {
			return fmt.Errorf("builtin %s: %w", def.Name(), err)
		}
	}
	return nil
}

// RenderVar writes to w formatted documentation for the object referenced by
// sym in the context of env.
func RenderVar(w io.Writer, env *lisp.LEnv, sym string) error {
	v := env.Get(sym)
	err := lisp.GoError(v)
	if err != nil {
		return err
	}
	if v.Type != lisp.LFun {
		_, err := fmt.Fprintf(w, "%s %s %v\n", v.Type, sym, v)
		return err
	}
	if !v.IsBuiltin() {
		return renderFun(w, "lambda", sym, v.Formals(), "")
	}
	name := v.FunData().Name
	for _, def := range lisp.DefaultBuiltins() {
		if def.Name() == name {
			return renderFun(w, "builtin", sym, def.Formals(), def.Docstring())
		}
	}
	return renderFun(w, "builtin", sym, lisp.QExpr(nil), "")
}

func renderFun(w io.Writer, kind string, sym string, formals *lisp.LVal, doc string) error {
	siglist := lisp.SExpr(make([]*lisp.LVal, 1+formals.Len()))
	siglist.Cells[0] = lisp.Symbol(sym)
	copy(siglist.Cells[1:], formals.Cells)
	_, err := fmt.Fprintf(w, "%s %v\n", kind, siglist)
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	doc = cleanDocstring(doc)
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
		return err
	}
	return nil
}

func cleanDocstring(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	width := WrapWidth - docIndent
	doc = wrap.String(wordwrap.String(doc, width), width)
	doc = indent.String(doc, docIndent)
	return strings.TrimSuffix(doc, "\n")
}
