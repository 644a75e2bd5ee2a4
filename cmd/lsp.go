// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/mlisp/lsp"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass WithEnv to
// offer their own global bindings for hover and completion.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the mlisp Language Server Protocol server",
		Long: `Start an LSP server for mlisp source files.

The language server reports syntax errors and provides hover
documentation, go-to-definition, completion and document symbols.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverOpts := []lsp.Option{lsp.WithLogger(logger.WithName("lsp"))}
			if cfg.env != nil {
				serverOpts = append(serverOpts, lsp.WithEnv(cfg.env))
			}
			srv, err := lsp.New(serverOpts...)
			if err != nil {
				return err
			}
			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				logger.Info("LSP server listening", "addr", addr)
				return srv.RunTCP(addr)
			}
			return srv.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
