package chunker

import (
	"regexp"
	"strings"

	"github.com/huiyuanXP/racode/pkg/types"
)

var (
	pyDeclRe      = regexp.MustCompile(`^(def|class)\s+(\w+)`)
	pyDecoratorRe = regexp.MustCompile(`^@\w+`)
)

// chunkPython splits python content at top-level (column-0) def and class
// declarations. A declaration chunk runs from the declaration line (or its
// directly preceding column-0 decorators) until the next top-level non-blank
// line or EOF. Everything outside declaration chunks becomes one
// python_module chunk.
func chunkPython(path, content string) []types.Chunk {
	lines := strings.Split(content, "\n")
	n := len(lines)
	covered := make([]bool, n)

	var chunks []types.Chunk
	for i := 0; i < n; {
		m := pyDeclRe.FindStringSubmatch(trimCR(lines[i]))
		if m == nil {
			i++
			continue
		}

		start := i
		for start > 0 && !covered[start-1] && pyDecoratorRe.MatchString(trimCR(lines[start-1])) {
			start--
		}

		end := i + 1
		for end < n {
			line := trimCR(lines[end])
			if strings.TrimSpace(line) == "" {
				end++
				continue
			}
			if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
				break
			}
			end++
		}

		chunkType := types.ChunkPythonFunction
		if m[1] == "class" {
			chunkType = types.ChunkPythonClass
		}
		chunks = append(chunks, types.Chunk{
			FilePath:   path,
			ChunkType:  chunkType,
			SymbolName: m[2],
			Content:    strings.Join(lines[start:end], "\n"),
			LineStart:  start + 1,
			LineEnd:    end,
			IsDocFile:  types.IsDocFile(path),
		})
		for j := start; j < end; j++ {
			covered[j] = true
		}
		i = end
	}

	if len(chunks) == 0 {
		return []types.Chunk{{
			FilePath:  path,
			ChunkType: types.ChunkPythonModule,
			Content:   content,
			LineStart: 1,
			LineEnd:   n,
			IsDocFile: types.IsDocFile(path),
		}}
	}

	if mod, ok := moduleChunk(path, lines, covered, types.ChunkPythonModule); ok {
		chunks = append(chunks, mod)
	}
	return chunks
}

// moduleChunk gathers the lines not claimed by any declaration chunk into a
// single module-level chunk. Returns false when nothing but whitespace
// remains.
func moduleChunk(path string, lines []string, covered []bool, chunkType types.ChunkType) (types.Chunk, bool) {
	first, last := -1, -1
	var rest []string
	for i, line := range lines {
		if covered[i] {
			continue
		}
		rest = append(rest, line)
		if strings.TrimSpace(trimCR(line)) != "" {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return types.Chunk{}, false
	}
	return types.Chunk{
		FilePath:  path,
		ChunkType: chunkType,
		Content:   strings.Join(rest, "\n"),
		LineStart: first + 1,
		LineEnd:   last + 1,
		IsDocFile: types.IsDocFile(path),
	}, true
}
