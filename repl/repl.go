// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisp/lisplib"
	"github.com/luthersystems/mlisp/parser"
)

// DefaultPrompt is the prompt shown when no other prompt is configured.
const DefaultPrompt = "mlisp> "

var exitWords = map[string]bool{
	"exit":   true,
	"quit":   true,
	"(exit)": true,
	"(quit)": true,
}

type config struct {
	stdin       io.ReadCloser
	stdout      io.Writer
	stderr      io.Writer
	historyFile string
	envConfig   []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{
		historyFile: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option configures a REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout allows overriding where results and program output are written.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr allows overriding where prompts and diagnostics are written.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file that line history is saved to.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithEnvConfig adds configuration for the environment created by RunRepl.
func WithEnvConfig(envConfig ...lisp.Config) Option {
	return func(c *config) {
		c.envConfig = append(c.envConfig, envConfig...)
	}
}

// RunRepl runs a repl in a new environment with the builtins and the prelude
// loaded.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	env := lisp.NewEnv(nil)
	envOpts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
	}
	if cfg.stdout != nil {
		envOpts = append(envOpts, lisp.WithStdout(cfg.stdout))
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.envConfig...)
	rc := lisp.InitializeUserEnv(env, envOpts...)
	if !rc.IsNil() {
		return fmt.Errorf("language initialization failure: %w", lisp.GoError(rc))
	}
	rc = lisplib.LoadLibrary(env)
	if !rc.IsNil() {
		return fmt.Errorf("prelude initialization failure: %w", lisp.GoError(rc))
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a repl with env as a root environment.  Lines are read until
// every open bracket is closed and then evaluated.  The loop ends at the end
// of input or when an exit word is entered.
func RunEnv(env *lisp.LEnv, prompt, cont string, opts ...Option) error {
	if env.Parent != nil {
		return errors.New("REPL environment is not a root environment")
	}
	if env.Runtime.Reader == nil {
		return errors.New("REPL environment has no reader")
	}
	cfg := newConfig(opts...)
	stdout := cfg.stdout
	if stdout == nil {
		stdout = env.Runtime.Stdout
	}
	stderr := cfg.stderr
	if stderr == nil {
		stderr = env.Runtime.Stderr
	}

	ensureHistoryFilePermissions(cfg.historyFile)
	rlCfg := &readline.Config{
		Stdout:            stderr,
		Stderr:            stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	var buf strings.Builder
	for {
		b, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			buf.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			break
		}
		line := string(b)
		if buf.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if exitWords[trimmed] {
				break
			}
			if trimmed == "" {
				continue
			}
		}
		buf.WriteString(line)
		buf.WriteString("\n")
		if openDepth(buf.String()) > 0 {
			rl.SetPrompt(cont)
			continue
		}
		evalSource(env, stdout, buf.String())
		buf.Reset()
		rl.SetPrompt(prompt)
	}
	fmt.Fprintln(stdout, "\nGoodbye!") //nolint:errcheck // best-effort REPL output
	return nil
}

// evalSource evaluates each statement in src and prints its value in literal
// form.
func evalSource(env *lisp.LEnv, w io.Writer, src string) {
	exprs, err := env.Runtime.Reader.Read("stdin", strings.NewReader(src))
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err) //nolint:errcheck // best-effort REPL output
		return
	}
	for _, expr := range exprs {
		val := env.Eval(expr)
		if val.Type == lisp.LError {
			env.Runtime.Logger.V(1).Info("evaluation failed",
				"condition", (*lisp.ErrorVal)(val).Condition(),
				"message", val.Str)
		}
		fmt.Fprintln(w, val) //nolint:errcheck // best-effort REPL output
	}
}

// openDepth returns the number of brackets in src which are not yet closed.
// Brackets in strings and comments are ignored.
func openDepth(src string) int {
	depth := 0
	inString, inComment := false, false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			}
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == ';':
			inComment = true
		case c == '"':
			inString = true
		case c == '(' || c == '{':
			depth++
		case c == ')' || c == '}':
			depth--
		}
	}
	return depth
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mlisp_history")
}

// ensureHistoryFilePermissions creates the history file if necessary and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
