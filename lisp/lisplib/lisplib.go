// Copyright © 2018 The ELPS authors

// Package lisplib loads the prelude, library functions written in the
// language itself, into an environment.
package lisplib

import (
	_ "embed"

	"github.com/luthersystems/mlisp/lisp"
)

//go:embed prelude.lisp
var prelude string

// Source returns the source text of the prelude.
func Source() string {
	return prelude
}

// LoadLibrary evaluates the prelude in env.  The environment must have a
// Reader.  Nil is returned on success.
func LoadLibrary(env *lisp.LEnv) *lisp.LVal {
	env.Runtime.Logger.V(1).Info("loading prelude")
	rc := env.LoadString("prelude.lisp", prelude)
	if rc.Type == lisp.LError {
		return rc
	}
	return lisp.Nil()
}
