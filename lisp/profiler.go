// Copyright © 2018 The ELPS authors

package lisp

// Profiler observes function applications.
type Profiler interface {
	// IsEnabled reports whether the profiler is collecting data.
	IsEnabled() bool
	// Enable starts a profiling session.
	Enable() error
	// Complete ends the profiling session and flushes collected data.
	Complete() error
	// Start marks the application of function and returns a function that
	// marks its end.
	Start(function *LVal) func()
}

// trace starts profiling fun when a profiler is enabled.  The returned
// function must be called when the application of fun is complete.
func (env *LEnv) trace(fun *LVal) func() {
	p := env.Runtime.Profiler
	if p == nil || !p.IsEnabled() {
		return func() {}
	}
	return p.Start(fun)
}
