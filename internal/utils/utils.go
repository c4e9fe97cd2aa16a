package utils

import (
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Converts a "file://" URI to a filesystem path.
func UriToPath(u string) string {
	if strings.HasPrefix(u, "file://") {
		uu, err := url.Parse(u)
		if err == nil {
			return uu.Path
		}
	}
	return u
}

// Converts a filesystem path to a "file://" URI.
func PathToURI(p string) string {
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// Appends a string to a slice only if it's not already present.
func AppendUnique(slice []string, v string) []string {
	if slices.Contains(slice, v) {
		return slice
	}
	return append(slice, v)
}

// LspPosToPoint converts a UTF-16 based LSP position into a tree-sitter point.
func LspPosToPoint(pos protocol.Position, content []byte) (sitter.Point, bool) {
	row := uint(pos.Line)

	var lineStart, i, curRow uint
	for i = 0; i < uint(len(content)) && curRow < row; i++ {
		if content[i] == '\n' {
			curRow++
			lineStart = i + 1
		}
	}
	if curRow != row {
		return sitter.Point{}, false
	}

	need := pos.Character
	var colBytes uint
	for offset := lineStart; offset < uint(len(content)); {
		b := content[offset]
		if b == '\n' || b == '\r' {
			break
		}
		r, size := utf8.DecodeRune(content[offset:])
		var u16len uint32 = 1
		if r > 0xFFFF {
			u16len = 2
		}
		if need < u16len {
			colBytes = offset - lineStart
			return sitter.Point{Row: row, Column: colBytes}, true
		}
		need -= u16len
		offset += uint(size)
		colBytes = offset - lineStart
	}
	return sitter.Point{Row: row, Column: colBytes}, true
}

// LspPosToByteOffset converts an LSP position into a byte offset, clamping the
// column to the line length. It returns -1 when the line does not exist.
func LspPosToByteOffset(content []byte, pos protocol.Position) int {
	point, ok := LspPosToPoint(pos, content)
	if !ok {
		return -1
	}
	offset := 0
	for row := uint(0); row < point.Row; row++ {
		nl := indexByteFrom(content, offset, '\n')
		if nl < 0 {
			return -1
		}
		offset = nl + 1
	}
	offset += int(point.Column)
	if offset > len(content) {
		return -1
	}
	return offset
}

func indexByteFrom(content []byte, from int, b byte) int {
	for i := from; i < len(content); i++ {
		if content[i] == b {
			return i
		}
	}
	return -1
}

// NodeRange converts a node's span into an LSP range. Columns are byte based,
// which matches editors for the ASCII identifiers we point at.
func NodeRange(n sitter.Node) protocol.Range {
	if n.IsNull() {
		return protocol.Range{}
	}
	sp, ep := n.StartPoint(), n.EndPoint()
	return protocol.Range{
		Start: protocol.Position{Line: uint32(sp.Row), Character: uint32(sp.Column)},
		End:   protocol.Position{Line: uint32(ep.Row), Character: uint32(ep.Column)},
	}
}
