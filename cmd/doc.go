// Copyright © 2021 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisp/lisplib/libhelp"
	"github.com/spf13/cobra"
)

// DocCommand returns a command which shows documentation for builtins and
// global bindings.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		sourceFile string
		missing    bool
	)
	cmd := &cobra.Command{
		Use:   "doc [flags] [QUERY...]",
		Short: "Show documentation for builtins and global bindings",
		Long: `Show the signature and documentation of each symbol in QUERY.
Without a query every builtin is listed. Use -f to load a source file
first, which makes its definitions available for lookup.

Examples:
  mlisp doc                     List every builtin
  mlisp doc head tail           Show docs for head and tail
  mlisp doc -f lib.lisp helper  Load a file, then show helper`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if missing {
				names := libhelp.CheckMissing(lisp.DefaultBuiltins())
				if len(names) > 0 {
					return fmt.Errorf("builtins missing documentation: %s", strings.Join(names, " "))
				}
				return nil
			}
			if len(args) == 0 {
				return libhelp.RenderBuiltins(w, lisp.DefaultBuiltins())
			}
			env := cfg.env
			if env == nil {
				var err error
				env, err = newEnv(w, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			if sourceFile != "" {
				rc := env.LoadFile(sourceFile)
				if rc.Type == lisp.LError {
					return fmt.Errorf("%s: %w", sourceFile, lisp.GoError(rc))
				}
			}
			var errs []error
			for i, query := range args {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := libhelp.RenderVar(w, env, query); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"A source file to load before looking up symbols")
	cmd.Flags().BoolVar(&missing, "missing", false,
		"Exit with an error if any builtin is undocumented")
	return cmd
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
