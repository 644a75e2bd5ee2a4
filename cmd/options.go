// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/mlisp/lisp"
	"github.com/luthersystems/mlisp/lisp/lisplib"
	"github.com/luthersystems/mlisp/parser"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (DocCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env *lisp.LEnv
}

// WithEnv injects a fully configured LEnv to be used instead of one created
// from the command line settings.
func WithEnv(env *lisp.LEnv) Option {
	return func(c *cmdConfig) { c.env = env }
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newEnv returns a root environment configured from the command line
// settings.  Configs in config are applied before the prelude and the init
// file are loaded.
func newEnv(stdout, stderr io.Writer, config ...lisp.Config) (*lisp.LEnv, error) {
	reader := parser.NewReader()
	config = append([]lisp.Config{
		lisp.WithReader(reader),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stderr),
		lisp.WithLogger(logger),
		lisp.WithMaximumDepth(viper.GetInt("max-depth")),
	}, config...)
	if viper.GetBool("prelude") {
		config = append(config, lisp.WithLoader(lisplib.LoadLibrary))
	}
	if path := viper.GetString("init-file"); path != "" {
		loader, err := fileLoader(reader, path)
		if err != nil {
			return nil, err
		}
		config = append(config, lisp.WithLoader(loader))
	}
	env := lisp.NewEnv(nil)
	rc := lisp.InitializeUserEnv(env, config...)
	if rc.Type == lisp.LError {
		return nil, fmt.Errorf("initialization failure: %w", lisp.GoError(rc))
	}
	return env, nil
}

func fileLoader(r lisp.Reader, path string) (lisp.Loader, error) {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lisp.TextLoader(r, path, f)
}
