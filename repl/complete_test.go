// Copyright © 2018 The ELPS authors

package repl

import (
	"testing"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisp/lisplib"
	"github.com/luthersystems/mlisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolCompleter(t *testing.T) {
	env := lisp.NewEnv(nil)
	rc := lisp.InitializeUserEnv(env,
		lisp.WithReader(parser.NewReader()),
	)
	require.True(t, rc.IsNil())
	require.True(t, lisplib.LoadLibrary(env).IsNil())

	c := &symbolCompleter{env: env}

	// "fi" should match filter.
	candidates, offset := c.Do([]rune("(fi"), 3)
	assert.Equal(t, 2, offset)
	assert.Equal(t, [][]rune{[]rune("lter")}, candidates)

	// Words inside Q-expressions complete too.
	candidates, offset = c.Do([]rune("{pri"), 4)
	assert.Equal(t, 3, offset)
	assert.Equal(t, [][]rune{[]rune("nt"), []rune("ntln")}, candidates)

	// "zzz-nonexistent" should have no completions.
	candidates, _ = c.Do([]rune("(zzz-nonexistent"), 16)
	assert.Empty(t, candidates)

	candidates, offset = c.Do([]rune("("), 1)
	assert.Nil(t, candidates)
	assert.Equal(t, 0, offset)
}
