// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	sourceExt     = ".lisp"
	recursiveGlob = "/..."
)

// expandArgs replaces each argument ending in "/..." with the source files
// beneath that directory, in lexical order.  Hidden files and directories are
// skipped.  Other arguments are kept as they are.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, recursiveGlob)
		if !ok {
			out = append(out, arg)
			continue
		}
		if dir == "" {
			dir = "."
		}
		files, err := sourceFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("expanding %s: no %s files", arg, sourceExt)
		}
		out = append(out, files...)
	}
	return out, nil
}

func sourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != sourceExt {
			return nil
		}
		logger.V(1).Info("expanded source file", "pattern", root+recursiveGlob, "path", path)
		files = append(files, path)
		return nil
	})
	return files, err
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}
