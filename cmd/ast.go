// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/mlisp/parser"
	"github.com/luthersystems/mlisp/parser/ast"
	"github.com/spf13/cobra"
)

var (
	astYAML     bool
	astFromYAML bool
)

var astCmd = &cobra.Command{
	Use:   "ast [flags] [FILE...]",
	Short: "Print the syntax tree of lisp source",
	Long: `Print the syntax tree of each statement in the given files, or of
standard input when no file is given. Trees are listed with one '>' per
level of depth, or as YAML with --yaml. With --from-yaml the input is a
YAML tree previously written by --yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"-"}
		}
		for _, path := range args {
			nodes, err := readTrees(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			if err := writeTrees(cmd.OutOrStdout(), nodes); err != nil {
				return err
			}
		}
		return nil
	},
}

func readTrees(stdin io.Reader, path string) ([]*ast.Node, error) {
	var text []byte
	var err error
	if path == "-" {
		text, err = io.ReadAll(stdin)
	} else {
		text, err = os.ReadFile(path) //#nosec G304
	}
	if err != nil {
		return nil, err
	}
	if astFromYAML {
		return ast.DecodeYAML(bytes.NewReader(text))
	}
	nodes, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", path, err)
	}
	return nodes, nil
}

func writeTrees(w io.Writer, nodes []*ast.Node) error {
	if astYAML {
		return ast.EncodeYAML(w, nodes)
	}
	for _, n := range nodes {
		if err := ast.Fprint(w, n); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(astCmd)

	astCmd.Flags().BoolVar(&astYAML, "yaml", false, "Write trees as YAML")
	astCmd.Flags().BoolVar(&astFromYAML, "from-yaml", false, "Read YAML trees instead of lisp source")
}
