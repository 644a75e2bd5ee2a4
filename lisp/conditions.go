// Copyright © 2018 The ELPS authors

package lisp

// Error condition names.  Every LError carries one of these so that hosts can
// classify failures without parsing messages.
const (
	CondUnboundSymbol  = "unbound-symbol"
	CondArityError     = "arity-error"
	CondTypeError      = "type-error"
	CondDivisionByZero = "division-by-zero"
	CondBadLiteral     = "bad-literal"
	CondEmptyList      = "empty-list"
	CondBadFormals     = "bad-formals"
	CondUserError      = "user-error"
	CondNotAFunction   = "not-a-function"
	CondStackOverflow  = "stack-overflow"
	CondLoadError      = "load-error"
)
