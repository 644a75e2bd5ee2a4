// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"bytes"
	"testing"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisptest"
	"github.com/stretchr/testify/require"
)

const testDefs = `
(fun {add-it x y} {+ x y})
(fun {recurse-it x} {if (< x 4) {add-it x 3} {recurse-it (- x 1)}})
`

const testCall = `(add-it (add-it 3 (recurse-it 5)) 8)`

// runProfiled defines the test functions, enables p and evaluates testCall.
func runProfiled(t *testing.T, env *lisp.LEnv, p lisp.Profiler) {
	rc := env.LoadString("defs.lisp", testDefs)
	require.NoError(t, lisp.GoError(rc))
	require.NoError(t, lisp.GoError(lisp.WithProfiler(p)(env)))
	require.True(t, p.IsEnabled())
	rc = env.LoadString("test.lisp", testCall)
	require.Equal(t, "17", rc.String())
	require.NoError(t, p.Complete())
}

func newEnv(t *testing.T) *lisp.LEnv {
	var out bytes.Buffer
	env, err := lisptest.NewEnv(t, &out)
	require.NoError(t, err)
	return env
}
