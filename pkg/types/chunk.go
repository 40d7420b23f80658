package types

// ChunkType identifies the semantic category of a chunk.
type ChunkType string

const (
	ChunkMarkdownSection     ChunkType = "markdown_section"
	ChunkPythonFunction      ChunkType = "python_function"
	ChunkPythonClass         ChunkType = "python_class"
	ChunkPythonModule        ChunkType = "python_module"
	ChunkTypeScriptFunction  ChunkType = "typescript_function"
	ChunkTypeScriptClass     ChunkType = "typescript_class"
	ChunkTypeScriptInterface ChunkType = "typescript_interface"
	ChunkTypeScriptType      ChunkType = "typescript_type"
	ChunkTypeScriptVariable  ChunkType = "typescript_variable"
	ChunkTypeScriptModule    ChunkType = "typescript_module"
	ChunkTextFile            ChunkType = "text_file"
	ChunkConfigFile          ChunkType = "config_file"
)

// Chunk is a semantically meaningful fragment of a file: a markdown section,
// a top-level declaration, or a whole small file. It is the unit of indexing
// and retrieval.
type Chunk struct {
	FilePath   string    `json:"file_path"`
	ChunkType  ChunkType `json:"chunk_type"`
	SymbolName string    `json:"symbol_name"`
	Content    string    `json:"content"`
	LineStart  int       `json:"line_start"` // 1-based, inclusive
	LineEnd    int       `json:"line_end"`   // 1-based, inclusive
	IsDocFile  bool      `json:"is_doc_file"`
}

// FileMeta tracks one indexed file for incremental updates.
type FileMeta struct {
	Path       string // relative to the project root, forward-slashed
	MtimeNS    int64  // modification time in nanoseconds since epoch
	ChunkCount int
}
