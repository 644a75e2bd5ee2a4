// Copyright © 2018 The ELPS authors

// Package profiler implements lisp.Profiler backends which report function
// applications to tracing systems and profile files.
package profiler

import (
	"fmt"

	"github.com/luthersystems/mlisp/lisp"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

// Option configures a profiler.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *profiler) Start(fun *lisp.LVal) func() {
	return func() {}
}

// FunName returns the name of a primitive or the first symbol a closure was
// bound to.  Anonymous closures are named "lambda".
func FunName(fun *lisp.LVal) string {
	fd := fun.FunData()
	if fd == nil {
		return ""
	}
	if fd.Name == "" {
		return "lambda"
	}
	return fd.Name
}

// FunKind returns "builtin" for primitives and "lambda" for closures.
func FunKind(fun *lisp.LVal) string {
	if fun.IsBuiltin() {
		return "builtin"
	}
	return "lambda"
}

// prettyFunName returns a pretty name and original name for a fun. If there is
// no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(fun *lisp.LVal) (string, string) {
	origLabel := FunName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = sanitizeLabel(p.funLabeler(p.runtime, fun))
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *lisp.LVal) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}
