package chunker

import (
	"regexp"
	"strings"

	"github.com/huiyuanXP/racode/pkg/types"
)

// headingRe matches an ATX heading of any level.
var headingRe = regexp.MustCompile(`^#{1,6}\s+(.+)$`)

// chunkMarkdown splits markdown content at heading lines. Each chunk spans
// from a heading (inclusive) to the next heading or EOF. Lines before the
// first heading form a chunk only when they contain non-whitespace; a file
// with no headings becomes a single whole-file section.
func chunkMarkdown(path, content string) []types.Chunk {
	lines := strings.Split(content, "\n")
	isDoc := types.IsDocFile(path)

	type heading struct {
		line int // 0-based index
		text string
	}
	var headings []heading
	for i, line := range lines {
		if m := headingRe.FindStringSubmatch(trimCR(line)); m != nil {
			headings = append(headings, heading{line: i, text: strings.TrimSpace(m[1])})
		}
	}

	if len(headings) == 0 {
		return []types.Chunk{{
			FilePath:  path,
			ChunkType: types.ChunkMarkdownSection,
			Content:   content,
			LineStart: 1,
			LineEnd:   len(lines),
			IsDocFile: isDoc,
		}}
	}

	var chunks []types.Chunk
	if first := headings[0].line; first > 0 {
		preamble := strings.Join(lines[:first], "\n")
		if strings.TrimSpace(preamble) != "" {
			chunks = append(chunks, types.Chunk{
				FilePath:  path,
				ChunkType: types.ChunkMarkdownSection,
				Content:   preamble,
				LineStart: 1,
				LineEnd:   first,
				IsDocFile: isDoc,
			})
		}
	}

	for k, h := range headings {
		end := len(lines)
		if k+1 < len(headings) {
			end = headings[k+1].line
		}
		chunks = append(chunks, types.Chunk{
			FilePath:   path,
			ChunkType:  types.ChunkMarkdownSection,
			SymbolName: h.text,
			Content:    strings.Join(lines[h.line:end], "\n"),
			LineStart:  h.line + 1,
			LineEnd:    end,
			IsDocFile:  isDoc,
		})
	}
	return chunks
}
