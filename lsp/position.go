// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// lineStarts holds the byte offset at which each line of a document begins.
type lineStarts []int

func newLineStarts(content string) lineStarts {
	starts := lineStarts{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// position returns the 0-based line and column of byte offset pos.
func (ls lineStarts) position(pos int) (line, col int) {
	line = sort.Search(len(ls), func(i int) bool { return ls[i] > pos }) - 1
	if line < 0 {
		line = 0
	}
	return line, pos - ls[line]
}

// wordAtPosition extracts the symbol-like word at the given 0-based LSP
// position from the document content. The cursor can be inside or at the
// end of a word; in both cases the full word is returned.
func wordAtPosition(content string, line, col int) string {
	start, end, ln := wordBounds(content, line, col)
	return ln[start:end]
}

// prefixAtPosition returns the part of the word at the given position which
// precedes the cursor.
func prefixAtPosition(content string, line, col int) string {
	start, _, ln := wordBounds(content, line, col)
	if col > len(ln) {
		col = len(ln)
	}
	if start > col {
		return ""
	}
	return ln[start:col]
}

func wordBounds(content string, line, col int) (start, end int, ln string) {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return 0, 0, ""
	}
	ln = lines[line]
	if col < 0 || col > len(ln) {
		return 0, 0, ""
	}
	// Scan backwards from cursor.
	start = col
	for start > 0 && isSymbolChar(ln[start-1]) {
		start--
	}
	// Scan forwards from cursor.
	end = col
	for end < len(ln) && isSymbolChar(ln[end]) {
		end++
	}
	return start, end, ln
}

// isSymbolChar reports whether c may appear in a symbol.
func isSymbolChar(c byte) bool {
	if c >= 'a' && c <= 'z' {
		return true
	}
	if c >= 'A' && c <= 'Z' {
		return true
	}
	if c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case '_', '+', '-', '*', '/', '\\', '=', '<', '>', '!', '&', '%', '^', '?', '.', ':':
		return true
	}
	return false
}

func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n)
}

// definitionRange returns the range covering the defined symbol.
func definitionRange(def *Definition) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(def.Line), Character: safeUint(def.Col)},
		End:   protocol.Position{Line: safeUint(def.Line), Character: safeUint(def.Col + len(def.Name))},
	}
}

// lineRange returns the range covering the whole of the 0-based line.
func lineRange(content string, line int) protocol.Range {
	lines := strings.Split(content, "\n")
	width := 0
	if line >= 0 && line < len(lines) {
		width = len(lines[line])
	}
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(line)},
		End:   protocol.Position{Line: safeUint(line), Character: safeUint(width)},
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}
