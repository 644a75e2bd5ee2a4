// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/mlisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
)

func TestNewPprofAnnotator(t *testing.T) {
	env := newEnv(t)
	p := profiler.NewPprofAnnotator(env.Runtime, context.Background())
	runProfiled(t, env, p)
	assert.False(t, p.IsEnabled())
}
