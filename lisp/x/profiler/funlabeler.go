// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/mlisp/lisp"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(runtime *lisp.Runtime, fun *lisp.LVal) string

// WithFunLabeler sets the labeler for tracing spans.  Labels are sanitized
// and an empty label falls back to the function's name.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithKindLabeler labels spans with the function's kind and name, like
// "builtin:+" or "lambda:fact".
func WithKindLabeler() Option {
	return WithFunLabeler(kindFunLabeler)
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace spaces with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}

func kindFunLabeler(runtime *lisp.Runtime, fun *lisp.LVal) string {
	return FunKind(fun) + ":" + FunName(fun)
}
