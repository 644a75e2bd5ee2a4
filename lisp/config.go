// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"

	"github.com/go-logr/logr"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) *LVal

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Reader = r
		return Nil()
	}
}

// WithStdout returns a Config that makes print and println write to w
// instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stdout = w
		return Nil()
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stderr = w
		return Nil()
	}
}

// WithLogger returns a Config that makes the runtime log to logger.
func WithLogger(logger logr.Logger) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Logger = logger
		return Nil()
	}
}

// WithProfiler returns a Config that enables p and makes the runtime report
// function applications to it.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return Nil()
		}
		if err := p.Enable(); err != nil {
			return ErrorConditionf(CondLoadError, "profiler: %v", err)
		}
		env.Runtime.Logger.V(1).Info("profiler enabled")
		return Nil()
	}
}

// WithMaximumDepth returns a Config that will prevent an execution
// environment from nesting more than n closure applications.
func WithMaximumDepth(n int) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.MaxDepth = n
		return Nil()
	}
}

// WithLoader returns a Config that runs fn during initialization.
func WithLoader(fn Loader) Config {
	return func(env *LEnv) *LVal {
		return fn(env)
	}
}
