package chunker

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/huiyuanXP/racode/pkg/types"
)

// binarySniffLen is how many leading bytes are inspected for a NUL byte.
const binarySniffLen = 8 * 1024

// Chunk splits a file's content into semantic chunks based on its extension.
// It is a pure function: output depends only on the inputs, and syntactically
// invalid input degrades to whole-file chunking rather than failing. Binary
// content (a NUL byte within the first 8 KiB) yields no chunks.
func Chunk(path string, data []byte) []types.Chunk {
	if isBinary(data) {
		return nil
	}

	content := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return chunkMarkdown(path, content)
	case ".py":
		return chunkPython(path, content)
	case ".ts", ".tsx", ".js", ".jsx":
		return chunkTypeScript(path, content)
	case ".txt":
		return wholeFile(path, content, types.ChunkTextFile)
	default:
		// .json, .yaml, .yml, .toml and anything else the indexer admits.
		return wholeFile(path, content, types.ChunkConfigFile)
	}
}

func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// wholeFile produces a single chunk covering the entire file.
func wholeFile(path, content string, chunkType types.ChunkType) []types.Chunk {
	lines := strings.Split(content, "\n")
	return []types.Chunk{{
		FilePath:  path,
		ChunkType: chunkType,
		Content:   content,
		LineStart: 1,
		LineEnd:   len(lines),
		IsDocFile: types.IsDocFile(path),
	}}
}

// trimCR strips a trailing carriage return so line matchers behave the same
// on CRLF input.
func trimCR(line string) string {
	return strings.TrimSuffix(line, "\r")
}
