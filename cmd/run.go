// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
	runTrace      traceSettings
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run lisp code",
	Long: `Run lisp code supplied via the command line or files.

Arguments are file paths unless -e is given. A path ending in /... expands
to every .lisp file beneath the directory. Once every file is loaded the
function bound to main, if any, is called with no arguments. Evaluation
stops at the first error, which is written to stderr.

Function applications can be traced with --trace:
  otel        OpenTelemetry spans, summarized on stderr
  opencensus  OpenCensus spans, summarized on stderr
  pprof       CPU profile labeled by function, written to --profile-file
  callgrind   Call graph written to --profile-file (default callgrind.out)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tracing, err := newTracing(runTrace, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		env, err := newEnv(cmd.OutOrStdout(), cmd.ErrOrStderr(), tracing.Config(cmd.Context()))
		if err != nil {
			tracing.Shutdown(cmd.Context()) //nolint:errcheck // initialization error takes precedence
			return err
		}
		err = runArgs(cmd, env, args)
		if serr := tracing.Shutdown(cmd.Context()); serr != nil && err == nil {
			err = serr
		}
		return err
	},
}

func runArgs(cmd *cobra.Command, env *lisp.LEnv, args []string) error {
	load := env.LoadFile
	if runExpression {
		load = func(expr string) *lisp.LVal {
			return env.LoadString("-e", expr)
		}
	} else {
		var err error
		args, err = expandArgs(args)
		if err != nil {
			return err
		}
	}
	for _, arg := range args {
		res := load(arg)
		if res.Type == lisp.LError {
			fmt.Fprintln(cmd.ErrOrStderr(), res)
			return lisp.GoError(res)
		}
		if runPrint {
			fmt.Fprintln(cmd.OutOrStdout(), res)
		}
	}
	if runExpression {
		return nil
	}
	return runMain(cmd, env)
}

// runMain calls the function bound to main, if any, with no arguments.
func runMain(cmd *cobra.Command, env *lisp.LEnv) error {
	fun := env.Get("main")
	if fun.Type != lisp.LFun {
		return nil
	}
	logger.V(1).Info("calling main")
	res := env.FunCall(fun, lisp.Nil())
	if res.Type == lisp.LError {
		fmt.Fprintln(cmd.ErrOrStderr(), res)
		return lisp.GoError(res)
	}
	if runPrint {
		fmt.Fprintln(cmd.OutOrStdout(), res)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().StringVar(&runTrace.mode, "trace", traceNone,
		"Trace function applications: none, otel, opencensus, pprof or callgrind")
	runCmd.Flags().StringVar(&runTrace.file, "profile-file", "",
		"Output file for pprof and callgrind traces")
	runCmd.Flags().StringVar(&runTrace.filter, "trace-filter", "",
		"Only trace functions whose names match this regular expression")
	runCmd.Flags().BoolVar(&runTrace.skipBuiltin, "trace-skip-builtins", false,
		"Do not trace builtin functions")
}
