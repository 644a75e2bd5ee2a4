// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"bytes"
	"testing"

	"github.com/luthersystems/mlisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

func TestNewCallgrind(t *testing.T) {
	env := newEnv(t)
	p := profiler.NewCallgrindProfiler(env.Runtime, profiler.WithBuiltinsSkipped())
	assert.Error(t, p.Enable(), "enabled without output")

	var out closingBuffer
	require.NoError(t, p.SetWriter(&out))
	runProfiled(t, env, p)
	assert.True(t, out.closed)

	profile := out.String()
	assert.Contains(t, profile, "events: Time_(ns) Memory_(bytes)\n")
	assert.Contains(t, profile, "fl=(1) -\nfn=(2) add-it\n")
	assert.Contains(t, profile, "cfn=(2)\ncalls=1 0 0\n")
	assert.Contains(t, profile, "fn=(3) recurse-it\n")
	assert.Contains(t, profile, "fn=(4) ENTRYPOINT\n")
	assert.Contains(t, profile, "summary: ")
	assert.NotContains(t, profile, "fn=(5)")
}
