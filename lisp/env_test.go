// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisptest"
	"github.com/luthersystems/mlisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func BenchmarkEnvFunCallBuiltin(b *testing.B) {
	lisptest.RunBenchmark(b, `
	(fun {loop n} {if (== n 0) {0} {do (+ 0 1 2 3 4 5 6 7 8 9) (loop (- n 1))}})
	(loop 1000)
	`)
}

func BenchmarkEnvPrelude(b *testing.B) {
	lisptest.RunBenchmark(b, `
	(def {xs} (map (lambda {x} {* x x}) {1 2 3 4 5 6 7 8 9 10}))
	(foldl + 0 (filter (lambda {x} {> x 10}) xs))
	`)
}

func newEnv(t *testing.T) *lisp.LEnv {
	var out bytes.Buffer
	env, err := lisptest.NewEnv(t, &out)
	require.NoError(t, err)
	return env
}

func TestEnvGetPut(t *testing.T) {
	env := lisp.NewEnv(nil)
	v := lisp.QExpr([]*lisp.LVal{lisp.Int(1), lisp.Int(2)})
	env.Put("x", v)
	v.Cells[0] = lisp.Int(100)
	assert.Equal(t, "{1 2}", env.Get("x").String())

	got := env.Get("x")
	got.Cells = nil
	assert.Equal(t, "{1 2}", env.Get("x").String())

	child := lisp.NewEnv(env)
	assert.Equal(t, "{1 2}", child.Get("x").String())
	child.Put("x", lisp.Int(3))
	assert.Equal(t, "3", child.Get("x").String())
	assert.Equal(t, "{1 2}", env.Get("x").String())

	missing := env.Get("y")
	require.Equal(t, lisp.LError, missing.Type)
	assert.Equal(t, "Unbound symbol 'y'", missing.Str)
	assert.Equal(t, lisp.CondUnboundSymbol, (*lisp.ErrorVal)(missing).Condition())
}

func TestEnvDef(t *testing.T) {
	root := lisp.NewEnv(nil)
	child := lisp.NewEnv(lisp.NewEnv(root))
	child.Def("g", lisp.Int(7))
	assert.Equal(t, "7", root.Get("g").String())
	assert.Empty(t, child.Bindings())
	assert.Same(t, root, child.Root())
}

func TestEnvCopy(t *testing.T) {
	parent := lisp.NewEnv(nil)
	env := lisp.NewEnv(parent)
	env.Put("a", lisp.QExpr([]*lisp.LVal{lisp.Int(1)}))
	cp := env.Copy()
	cp.Put("a", lisp.Int(2))
	cp.Put("b", lisp.Int(3))
	assert.Equal(t, "{1}", env.Get("a").String())
	assert.Equal(t, lisp.LError, env.Get("b").Type)
	assert.Same(t, parent, cp.Parent)
}

func TestEnvBindings(t *testing.T) {
	env := lisp.NewEnv(nil)
	env.Put("b", lisp.Int(1))
	env.Put("a", lisp.Int(2))
	env.Put("b", lisp.Int(3))
	bindings := env.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "b", bindings[0].Name)
	assert.Equal(t, "3", bindings[0].Value.String())
	assert.Equal(t, "a", bindings[1].Name)
	assert.Equal(t, "b = 3\na = 2\n", env.String())
}

func TestEnvEvalNode(t *testing.T) {
	env := newEnv(t)
	nodes, err := parser.Parse([]byte("(def {x} 40) (+ x 2)"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.True(t, env.EvalNode(nodes[0]).IsNil())
	assert.Equal(t, "42", env.EvalNode(nodes[1]).String())
}

func TestEnvFunCall(t *testing.T) {
	env := newEnv(t)
	args := lisp.QExpr([]*lisp.LVal{lisp.Int(1), lisp.Int(2)})
	assert.Equal(t, "3", env.FunCall(env.Get("+"), args).String())
	assert.Equal(t, "{1 2}", args.String())

	rc := env.LoadString("test", "(def {add} (lambda {x y} {+ x y}))")
	require.True(t, rc.IsNil(), rc.String())
	add := env.Get("add")
	assert.Equal(t, "3", env.FunCall(add, args).String())
	assert.Equal(t, "(lambda {x y} {+ x y})", add.String())

	partial := env.FunCall(add, lisp.QExpr([]*lisp.LVal{lisp.Int(5)}))
	assert.Equal(t, "(lambda {y} {+ x y})", partial.String())
	assert.Equal(t, "6", env.FunCall(partial, lisp.QExpr([]*lisp.LVal{lisp.Int(1)})).String())

	rc = env.FunCall(lisp.Int(1), args)
	require.Equal(t, lisp.LError, rc.Type)
	assert.Equal(t, lisp.CondNotAFunction, (*lisp.ErrorVal)(rc).Condition())
}

func TestEnvLoad(t *testing.T) {
	var out bytes.Buffer
	env, err := lisptest.NewEnv(t, &out)
	require.NoError(t, err)
	rc := env.LoadString("test", `(print "a") (error "stop") (print "b")`)
	require.Equal(t, lisp.LError, rc.Type)
	assert.Equal(t, "stop", rc.Str)
	assert.Equal(t, "a", out.String())

	rc = env.LoadString("test", "(+ 1")
	require.Equal(t, lisp.LError, rc.Type)
	assert.Equal(t, lisp.CondLoadError, (*lisp.ErrorVal)(rc).Condition())

	rc = env.LoadFile("testdata/does-not-exist.lisp")
	require.Equal(t, lisp.LError, rc.Type)
	assert.Equal(t, lisp.CondLoadError, (*lisp.ErrorVal)(rc).Condition())

	rc = lisp.NewEnv(nil).LoadString("test", "1")
	require.Equal(t, lisp.LError, rc.Type)
	assert.Equal(t, "no reader for environment runtime", rc.Str)
}

func TestTextLoader(t *testing.T) {
	var out bytes.Buffer
	loader, err := lisp.TextLoader(parser.NewReader(), "init.lisp", strings.NewReader("(def {x} 2) (println (* x 21))"))
	require.NoError(t, err)
	env := lisp.NewEnv(nil)
	rc := lisp.InitializeUserEnv(env, lisp.WithStdout(&out), lisp.WithLoader(loader))
	require.True(t, rc.IsNil(), rc.String())
	assert.Equal(t, "42\n", out.String())
	assert.Equal(t, "2", env.Get("x").String())

	_, err = lisp.TextLoader(parser.NewReader(), "bad.lisp", strings.NewReader("(+ 1"))
	assert.Error(t, err)
}

func TestEnvMaximumDepth(t *testing.T) {
	var out bytes.Buffer
	env, err := lisptest.NewEnv(t, &out, lisp.WithMaximumDepth(50))
	require.NoError(t, err)
	rc := env.LoadString("test", "(fun {forever n} {forever (+ n 1)}) (forever 0)")
	require.Equal(t, lisp.LError, rc.Type)
	assert.Equal(t, lisp.CondStackOverflow, (*lisp.ErrorVal)(rc).Condition())
	assert.Equal(t, "Maximum call depth exceeded (50)", rc.Str)
	assert.Equal(t, 0, env.Runtime.Depth())

	rc = env.LoadString("test", "(fun {count n} {if (== n 0) {0} {count (- n 1)}}) (count 20)")
	assert.Equal(t, "0", rc.String())
}

type countingProfiler struct {
	enabled bool
	calls   map[string]int
	open    int
}

func (p *countingProfiler) IsEnabled() bool { return p.enabled }

func (p *countingProfiler) Enable() error {
	p.enabled = true
	p.calls = make(map[string]int)
	return nil
}

func (p *countingProfiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *countingProfiler) Start(fun *lisp.LVal) func() {
	name := "lambda"
	if fun.IsBuiltin() {
		name = fun.FunData().Name
	}
	p.calls[name]++
	p.open++
	return func() { p.open-- }
}

func TestEnvProfiler(t *testing.T) {
	p := &countingProfiler{}
	var out bytes.Buffer
	env, err := lisptest.NewEnv(t, &out, lisp.WithProfiler(p))
	require.NoError(t, err)
	require.True(t, p.IsEnabled())
	p.calls = make(map[string]int)
	rc := env.LoadString("test", "(+ 1 (* 2 3))")
	assert.Equal(t, "7", rc.String())
	assert.Equal(t, 1, p.calls["+"])
	assert.Equal(t, 1, p.calls["*"])
	assert.Equal(t, 0, p.open)
	require.NoError(t, p.Complete())
}
