// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
)

// ErrorVal implements the error interface so that errors can be first class lisp
// objects.  The error message is stored in the Str field and the condition in
// the Native field.
type ErrorVal LVal

// Error implements the error interface.
func (e *ErrorVal) Error() string {
	return e.Str
}

// Condition returns the error condition name (e.g. "unbound-symbol").
func (e *ErrorVal) Condition() string {
	cond, _ := e.Native.(string)
	return cond
}

// LVal returns the error as a lisp value.
func (e *ErrorVal) LVal() *LVal {
	return (*LVal)(e)
}

// Errorf returns an LError value with a formatted message raised by user
// code.
func Errorf(format string, v ...interface{}) *LVal {
	return ErrorConditionf(CondUserError, format, v...)
}

// ErrorCondition returns an LError value representing err with the given
// condition.  The message of err is used verbatim.
func ErrorCondition(condition string, err error) *LVal {
	return &LVal{
		Type:   LError,
		Str:    err.Error(),
		Native: condition,
	}
}

// ErrorConditionf returns an LError value with the given condition and a
// formatted message.
func ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return &LVal{
		Type:   LError,
		Str:    fmt.Sprintf(format, v...),
		Native: condition,
	}
}

// errorf is ErrorConditionf for internal code returning (*LVal, error).
func errorf(condition string, format string, v ...interface{}) error {
	return (*ErrorVal)(ErrorConditionf(condition, format, v...))
}

// GoError returns an error that represents v.  If v is not LError then nil is
// returned.
func GoError(v *LVal) error {
	if v == nil || v.Type != LError {
		return nil
	}
	return (*ErrorVal)(v)
}

// fold returns the value of a (*LVal, error) pair as a single LVal.  Errors
// which did not originate in lisp are wrapped in an LError.
func fold(v *LVal, err error) *LVal {
	if err == nil {
		return v
	}
	if lerr, ok := err.(*ErrorVal); ok {
		return (*LVal)(lerr)
	}
	return ErrorCondition(CondUserError, err)
}
