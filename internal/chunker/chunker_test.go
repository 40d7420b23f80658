package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huiyuanXP/racode/pkg/types"
)

func TestChunkMarkdown_Sections(t *testing.T) {
	content := `# Overview

Some intro text.

## Details

More text here.

### Nested

Deep section.
`
	chunks := Chunk("docs/guide.md", []byte(content))
	require.Len(t, chunks, 3)

	assert.Equal(t, types.ChunkMarkdownSection, chunks[0].ChunkType)
	assert.Equal(t, "Overview", chunks[0].SymbolName)
	assert.Equal(t, 1, chunks[0].LineStart)
	assert.Equal(t, 4, chunks[0].LineEnd)
	assert.Contains(t, chunks[0].Content, "Some intro text.")

	assert.Equal(t, "Details", chunks[1].SymbolName)
	assert.Equal(t, 5, chunks[1].LineStart)

	assert.Equal(t, "Nested", chunks[2].SymbolName)
	assert.Equal(t, 9, chunks[2].LineStart)
}

func TestChunkMarkdown_Preamble(t *testing.T) {
	content := "Intro before any heading.\n\n# First\n\nBody.\n"
	chunks := Chunk("README.md", []byte(content))
	require.Len(t, chunks, 2)

	assert.Equal(t, "", chunks[0].SymbolName)
	assert.Equal(t, 1, chunks[0].LineStart)
	assert.Equal(t, 2, chunks[0].LineEnd)
	assert.Equal(t, "Intro before any heading.\n", chunks[0].Content)

	assert.Equal(t, "First", chunks[1].SymbolName)
	assert.Equal(t, 3, chunks[1].LineStart)
}

func TestChunkMarkdown_BlankPreambleSkipped(t *testing.T) {
	content := "\n\n# Only\n\nBody.\n"
	chunks := Chunk("a.md", []byte(content))
	require.Len(t, chunks, 1)
	assert.Equal(t, "Only", chunks[0].SymbolName)
}

func TestChunkMarkdown_NoHeadings(t *testing.T) {
	content := "just prose\nwith no headings\n"
	chunks := Chunk("notes.md", []byte(content))
	require.Len(t, chunks, 1)
	assert.Equal(t, types.ChunkMarkdownSection, chunks[0].ChunkType)
	assert.Empty(t, chunks[0].SymbolName)
	assert.Equal(t, 1, chunks[0].LineStart)
	assert.Equal(t, content, chunks[0].Content)
}

func TestChunkMarkdown_DocBoostFlag(t *testing.T) {
	chunks := Chunk("docs/FileStructure.md", []byte("# Layout\n\ntext\n"))
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.True(t, c.IsDocFile)
	}

	chunks = Chunk("docs/Other.md", []byte("# Layout\n\ntext\n"))
	for _, c := range chunks {
		assert.False(t, c.IsDocFile)
	}
}

func TestChunkPython_FunctionsAndClasses(t *testing.T) {
	content := `import os

CONSTANT = 1


def login(email, password):
    return os.environ


class Session:
    def close(self):
        pass


print("module level")
`
	chunks := Chunk("src/auth.py", []byte(content))
	require.Len(t, chunks, 3)

	byType := map[types.ChunkType]types.Chunk{}
	for _, c := range chunks {
		byType[c.ChunkType] = c
	}

	fn := byType[types.ChunkPythonFunction]
	assert.Equal(t, "login", fn.SymbolName)
	assert.Equal(t, 6, fn.LineStart)
	assert.Contains(t, fn.Content, "def login")
	assert.Contains(t, fn.Content, "return os.environ")

	cls := byType[types.ChunkPythonClass]
	assert.Equal(t, "Session", cls.SymbolName)
	assert.Contains(t, cls.Content, "def close")

	mod := byType[types.ChunkPythonModule]
	assert.Contains(t, mod.Content, "import os")
	assert.Contains(t, mod.Content, "CONSTANT = 1")
	assert.Contains(t, mod.Content, `print("module level")`)
	assert.NotContains(t, mod.Content, "def login")
	assert.Equal(t, 1, mod.LineStart)
}

func TestChunkPython_Decorators(t *testing.T) {
	content := `@app.route("/login")
@require_auth
def login():
    pass
`
	chunks := Chunk("app.py", []byte(content))
	require.NotEmpty(t, chunks)

	var fn *types.Chunk
	for i := range chunks {
		if chunks[i].ChunkType == types.ChunkPythonFunction {
			fn = &chunks[i]
		}
	}
	require.NotNil(t, fn)
	assert.Equal(t, 1, fn.LineStart)
	assert.True(t, strings.HasPrefix(fn.Content, "@app.route"))
}

func TestChunkPython_NoDeclarations(t *testing.T) {
	content := "import sys\n\nprint(sys.argv)\n"
	chunks := Chunk("script.py", []byte(content))
	require.Len(t, chunks, 1)
	assert.Equal(t, types.ChunkPythonModule, chunks[0].ChunkType)
	assert.Equal(t, content, chunks[0].Content)
}

func TestChunkTypeScript_Exports(t *testing.T) {
	content := `import React from "react";

const local = 1;

export function ModelSelector(props) {
  return null;
}

export class Store {
  private items = [];
}

export interface Props {
  name: string;
}

export type Mode = "a" | "b";

export const DEFAULT_MODE: Mode = "a";
`
	chunks := Chunk("components/ModelSelector.tsx", []byte(content))

	byType := map[types.ChunkType]types.Chunk{}
	for _, c := range chunks {
		byType[c.ChunkType] = c
	}

	fn := byType[types.ChunkTypeScriptFunction]
	assert.Equal(t, "ModelSelector", fn.SymbolName)
	assert.Equal(t, 5, fn.LineStart)
	assert.Contains(t, fn.Content, "return null;")

	assert.Equal(t, "Store", byType[types.ChunkTypeScriptClass].SymbolName)
	assert.Equal(t, "Props", byType[types.ChunkTypeScriptInterface].SymbolName)
	assert.Equal(t, "Mode", byType[types.ChunkTypeScriptType].SymbolName)
	assert.Equal(t, "DEFAULT_MODE", byType[types.ChunkTypeScriptVariable].SymbolName)

	mod := byType[types.ChunkTypeScriptModule]
	assert.Contains(t, mod.Content, "import React")
	assert.Contains(t, mod.Content, "const local = 1;")
}

func TestChunkTypeScript_ClosingBraceEndsChunk(t *testing.T) {
	content := `export function first() {
  return 1;
}

const between = true;

export function second() {
  return 2;
}
`
	chunks := Chunk("lib.ts", []byte(content))

	var fns []types.Chunk
	for _, c := range chunks {
		if c.ChunkType == types.ChunkTypeScriptFunction {
			fns = append(fns, c)
		}
	}
	require.Len(t, fns, 2)
	assert.Equal(t, "first", fns[0].SymbolName)
	assert.Equal(t, 1, fns[0].LineStart)
	assert.Equal(t, 3, fns[0].LineEnd)
	assert.NotContains(t, fns[0].Content, "between")
	assert.Equal(t, "second", fns[1].SymbolName)
}

func TestChunkTypeScript_NoExports(t *testing.T) {
	content := "const a = 1;\nconsole.log(a);\n"
	chunks := Chunk("plain.js", []byte(content))
	require.Len(t, chunks, 1)
	assert.Equal(t, types.ChunkTypeScriptModule, chunks[0].ChunkType)
}

func TestChunkWholeFile(t *testing.T) {
	txt := Chunk("readme.txt", []byte("hello\nworld\n"))
	require.Len(t, txt, 1)
	assert.Equal(t, types.ChunkTextFile, txt[0].ChunkType)
	assert.Equal(t, 1, txt[0].LineStart)
	assert.Empty(t, txt[0].SymbolName)

	cfg := Chunk("config.yaml", []byte("key: value\n"))
	require.Len(t, cfg, 1)
	assert.Equal(t, types.ChunkConfigFile, cfg[0].ChunkType)

	js := Chunk("package.json", []byte(`{"name": "x"}`))
	require.Len(t, js, 1)
	assert.Equal(t, types.ChunkConfigFile, js[0].ChunkType)
}

func TestChunkBinary(t *testing.T) {
	data := []byte("PNG\x00\x01\x02 not really text")
	assert.Empty(t, Chunk("image.txt", data))
}

func TestChunkDeterministic(t *testing.T) {
	content := []byte("# A\n\ntext\n\n## B\n\nmore\n")
	first := Chunk("a.md", content)
	second := Chunk("a.md", content)
	assert.Equal(t, first, second)
}
