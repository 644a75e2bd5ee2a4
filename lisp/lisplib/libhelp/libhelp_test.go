// Copyright © 2021 The ELPS authors

package libhelp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisp/lisplib/libhelp"
	"github.com/luthersystems/mlisp/lisptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMissing(t *testing.T) {
	assert.Empty(t, libhelp.CheckMissing(lisp.DefaultBuiltins()))
}

func TestRenderBuiltins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderBuiltins(&buf, lisp.DefaultBuiltins()))
	out := buf.String()
	assert.Contains(t, out, "builtin (+ & x)\n  Returns the sum of its arguments.\n")
	assert.Contains(t, out, "builtin (list & args)\n")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), libhelp.WrapWidth, line)
	}
}

func TestRenderBuiltinsLongDocs(t *testing.T) {
	long := strings.Repeat("non-empty-list ", 12) + strings.Repeat("x", 100)
	defs := []lisp.LBuiltinDef{testDef{name: "wide", docs: long}}
	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderBuiltins(&buf, defs))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "builtin (wide x)", lines[0])
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "  "), line)
		assert.LessOrEqual(t, len(line), libhelp.WrapWidth, line)
	}
}

type testDef struct {
	name string
	docs string
}

func (d testDef) Name() string { return d.name }
func (d testDef) Formals() *lisp.LVal { return lisp.QExpr([]*lisp.LVal{lisp.Symbol("x")}) }
func (d testDef) Eval(env *lisp.LEnv, args *lisp.LVal) (*lisp.LVal, error) {
	return lisp.Nil(), nil
}
func (d testDef) Docstring() string { return d.docs }

func TestRenderVar(t *testing.T) {
	var out bytes.Buffer
	env, err := lisptest.NewEnv(t, &out)
	require.NoError(t, err)
	rc := env.LoadString("test", "(def {x} 5) (fun {sq n} {* n n}) (def {plus} +)")
	require.NoError(t, lisp.GoError(rc))

	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderVar(&buf, env, "x"))
	assert.Equal(t, "Integer x 5\n", buf.String())

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "sq"))
	assert.Equal(t, "lambda (sq n)\n", buf.String())

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "plus"))
	assert.True(t, strings.HasPrefix(buf.String(), "builtin (plus & x)\n  Returns the sum"), buf.String())

	assert.Error(t, libhelp.RenderVar(&buf, env, "nope"))
}
