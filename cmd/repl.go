// Copyright © 2018 The ELPS authors

package cmd

import (
	"strings"

	"github.com/luthersystems/mlisp/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive mlisp REPL",
	Long: `Start an interactive read-eval-print loop.

The prelude is loaded automatically. Input spanning several lines is
evaluated once every bracket is closed. Line history is saved to
history-file (default ~/.mlisp_history). Use exit, quit or Ctrl-D to leave.

Example REPL session:
  mlisp> (+ 1 2)
  3
  mlisp> fun {square x} {* x x}
  ()
  mlisp> square 5
  25
  mlisp> map square {1 2 3}
  {1 4 9}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		var opts []repl.Option
		if viper.IsSet("history-file") {
			opts = append(opts, repl.WithHistoryFile(viper.GetString("history-file")))
		}
		prompt := viper.GetString("prompt")
		return repl.RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().String("prompt", "mlisp> ", "The prompt shown before each input")
	replCmd.Flags().String("history-file", "", "File that line history is saved to")
	for _, name := range []string{"prompt", "history-file"} {
		if err := viper.BindPFlag(name, replCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}
