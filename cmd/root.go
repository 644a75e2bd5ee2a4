// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

var (
	cfgFile string
	logger  = logr.Discard()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mlisp",
	Short: "mlisp is a small Lisp interpreter",
	Long: `mlisp is a small Lisp interpreter with S-expressions, quoted
Q-expressions, closures with partial application and a prelude of list
functions written in the language itself.

Getting started:
  mlisp run file.lisp          Run a Lisp source file
  mlisp run -e '(+ 1 2)'       Evaluate an expression
  mlisp repl                   Start an interactive REPL
  mlisp doc head               Show documentation for a function
  mlisp ast file.lisp          Print the syntax tree of a file

Settings are read from $HOME/.mlisp.yaml and from MLISP_ environment
variables, for example MLISP_VERBOSITY=2.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetDefault("prompt", "mlisp> ")
	viper.SetDefault("prelude", true)
	viper.SetDefault("max-depth", 10000)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mlisp.yaml)")
	flags.IntP("verbosity", "v", 0, "Log verbosity. Logs are written to stderr.")
	flags.Bool("prelude", true, "Load the prelude before evaluating code.")
	flags.String("init-file", "", "A file evaluated after the prelude.")
	flags.Int("max-depth", 10000, "Maximum nesting of function applications. Zero is unlimited.")
	for _, name := range []string{"verbosity", "prelude", "init-file", "max-depth"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".mlisp" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".mlisp")
		}
	}

	viper.SetEnvPrefix("MLISP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func initLogging() {
	stdr.SetVerbosity(viper.GetInt("verbosity"))
	logger = stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("mlisp")
	otel.SetLogger(logger)
}
