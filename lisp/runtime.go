// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
	"os"

	"github.com/go-logr/logr"
)

// Runtime is an object underlying a family of tree of LEnv values.  It is
// responsible for holding shared environment state and the streams that
// programs write to.
type Runtime struct {
	// Root is the global environment.  Definitions made with def are
	// stored here regardless of the scope they are evaluated in.
	Root     *LEnv
	Stdout   io.Writer
	Stderr   io.Writer
	Reader   Reader
	Profiler Profiler
	Logger   logr.Logger
	// MaxDepth limits the number of nested closure applications.  Zero
	// means no limit.
	MaxDepth int
	depth    int
}

// StandardRuntime returns a new Runtime writing to os.Stdout and os.Stderr
// with logging discarded.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logr.Discard(),
	}
}

// Depth returns the number of closure applications in progress.
func (r *Runtime) Depth() int {
	return r.depth
}

func (r *Runtime) enter() error {
	if r.MaxDepth > 0 && r.depth >= r.MaxDepth {
		return errorf(CondStackOverflow, "Maximum call depth exceeded (%d)", r.MaxDepth)
	}
	r.depth++
	return nil
}

func (r *Runtime) exit() {
	r.depth--
}
