// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
)

// Loader evaluates code in an environment, typically definitions.
type Loader func(*LEnv) *LVal

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of LVals that it
	// contains, one per top-level statement.
	Read(name string, r io.Reader) ([]*LVal, error)
}

// TextLoader parses a text stream using r and returns a Loader which evaluates
// the stream's statements when called.  The reader will be invoked only once.
func TextLoader(r Reader, name string, stream io.Reader) (Loader, error) {
	exprs, err := r.Read(name, stream)
	if err != nil {
		return nil, err
	}
	fn := func(env *LEnv) *LVal {
		lval := Nil()
		for _, expr := range exprs {
			lval = env.Eval(expr.Copy())
			if lval.Type == LError {
				return lval
			}
		}
		return lval
	}
	return fn, nil
}
