// Copyright © 2018 The ELPS authors

// Package lisptest runs sequences of lisp expressions in fresh environments
// and compares their results with expectations.
package lisptest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisp/lisplib"
	"github.com/luthersystems/mlisp/parser"
)

// TestSequence is a sequence of lisp expressions which are evaluated sequentially
// by a lisp.LEnv.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the literal form of the evaluated result
	Output string // output written by print and println
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv returns an environment with the builtins and the prelude loaded.
// Program output is written to stdout and logs go to t.
func NewEnv(t testing.TB, stdout io.Writer, config ...lisp.Config) (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	config = append([]lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(NewLogger(t)),
		lisp.WithLogger(testr.NewWithInterface(t, testr.Options{})),
		lisp.WithMaximumDepth(10000),
	}, config...)
	err := lisp.GoError(lisp.InitializeUserEnv(env, config...))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lisp environment: %w", err)
	}
	err = lisp.GoError(lisplib.LoadLibrary(env))
	if err != nil {
		return nil, fmt.Errorf("failed to load prelude: %w", err)
	}
	return env, nil
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			var out bytes.Buffer
			env, err := NewEnv(t, &out)
			if err != nil {
				t.Fatalf("test %d %q: %v", i, test.Name, err)
			}
			for j, expr := range test.TestSequence {
				out.Reset()
				v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
				if err != nil {
					t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
					continue
				}
				if len(v) == 0 {
					t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
					continue
				}
				if len(v) != 1 {
					t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
					continue
				}
				result := env.Eval(v[0]).String()
				if result != expr.Result {
					t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
				}
				if out.String() != expr.Output {
					t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
				}
			}
		})
	}
}

// RunBenchmark runs a standard benchmark that executes statements parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := NewEnv(b, io.Discard)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		for i, expr := range exprs {
			lerr := env.Eval(expr.Copy())
			if lerr.Type == lisp.LError {
				b.Fatalf("expr %d: %v", i, lerr)
			}
		}
		b.StopTimer()
	}
}
