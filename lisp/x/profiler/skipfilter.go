// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/mlisp/lisp"
)

// SkipFilter returns true for functions which should not be traced.
type SkipFilter func(fun *lisp.LVal) bool

func defaultSkipFilter(fun *lisp.LVal) bool {
	return fun.Type != lisp.LFun
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithBuiltinsSkipped only traces closures.
func WithBuiltinsSkipped() Option {
	return WithSkipFilter(func(fun *lisp.LVal) bool {
		return fun.IsBuiltin()
	})
}

// WithNameFilter only traces functions whose FunName matches pattern.
func WithNameFilter(pattern *regexp.Regexp) Option {
	return WithSkipFilter(func(fun *lisp.LVal) bool {
		return !pattern.MatchString(FunName(fun))
	})
}
