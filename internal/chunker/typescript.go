package chunker

import (
	"regexp"
	"strings"

	"github.com/huiyuanXP/racode/pkg/types"
)

// tsDeclPatterns identify top-level exported declarations by their leading
// tokens. The type-alias pattern requires '=' directly after the name, so
// `export type Foo = ...` matches while a generic alias such as
// `export type Foo<T> = ...` does not.
var tsDeclPatterns = []struct {
	re   *regexp.Regexp
	kind types.ChunkType
}{
	{regexp.MustCompile(`^export\s+(?:async\s+)?function\s+(\w+)`), types.ChunkTypeScriptFunction},
	{regexp.MustCompile(`^export\s+(?:default\s+)?class\s+(\w+)`), types.ChunkTypeScriptClass},
	{regexp.MustCompile(`^export\s+interface\s+(\w+)`), types.ChunkTypeScriptInterface},
	{regexp.MustCompile(`^export\s+type\s+(\w+)\s*=`), types.ChunkTypeScriptType},
	{regexp.MustCompile(`^export\s+(?:const|let|var)\s+(\w+)`), types.ChunkTypeScriptVariable},
}

func matchTSDecl(line string) (types.ChunkType, string, bool) {
	for _, p := range tsDeclPatterns {
		if m := p.re.FindStringSubmatch(line); m != nil {
			return p.kind, m[1], true
		}
	}
	return "", "", false
}

// chunkTypeScript splits TypeScript/JavaScript content at top-level export
// declarations. A declaration chunk ends before the next top-level export,
// or after a column-0 closing brace that is followed by a blank line or EOF.
// Non-exported top-level code is bundled into one typescript_module chunk.
func chunkTypeScript(path, content string) []types.Chunk {
	lines := strings.Split(content, "\n")
	n := len(lines)
	covered := make([]bool, n)

	var chunks []types.Chunk
	for i := 0; i < n; {
		kind, name, ok := matchTSDecl(trimCR(lines[i]))
		if !ok {
			i++
			continue
		}

		end := n
		for j := i + 1; j < n; j++ {
			line := trimCR(lines[j])
			if _, _, exported := matchTSDecl(line); exported {
				end = j
				break
			}
			if strings.HasPrefix(line, "}") {
				if j+1 >= n || strings.TrimSpace(trimCR(lines[j+1])) == "" {
					end = j + 1
					break
				}
			}
		}

		chunks = append(chunks, types.Chunk{
			FilePath:   path,
			ChunkType:  kind,
			SymbolName: name,
			Content:    strings.Join(lines[i:end], "\n"),
			LineStart:  i + 1,
			LineEnd:    end,
			IsDocFile:  types.IsDocFile(path),
		})
		for j := i; j < end; j++ {
			covered[j] = true
		}
		i = end
	}

	if len(chunks) == 0 {
		return []types.Chunk{{
			FilePath:  path,
			ChunkType: types.ChunkTypeScriptModule,
			Content:   content,
			LineStart: 1,
			LineEnd:   n,
			IsDocFile: types.IsDocFile(path),
		}}
	}

	if mod, ok := moduleChunk(path, lines, covered, types.ChunkTypeScriptModule); ok {
		chunks = append(chunks, mod)
	}
	return chunks
}
