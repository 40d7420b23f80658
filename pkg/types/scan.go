package types

import "path/filepath"

// SkipDirs are directory basenames never descended into during traversal.
// They are part of the external contract: anything under them is unsearchable.
var SkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".cache":       true,
	"coverage":     true,
}

// IndexableExtensions is the fixed set of file extensions the indexer
// considers for chunking.
var IndexableExtensions = map[string]bool{
	".py":   true,
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".jsx":  true,
	".md":   true,
	".txt":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// DocBoost is the multiplicative ranking bonus applied to chunks from
// structural-documentation files. Policy, not configuration.
const DocBoost = 3.0

// docBoostFiles are the basenames whose chunks receive DocBoost.
var docBoostFiles = map[string]bool{
	"FileStructure.md":    true,
	"IntegrationGuide.md": true,
}

// IsDocFile reports whether the path's basename is in the doc-boost set.
// The comparison is case-sensitive.
func IsDocFile(path string) bool {
	return docBoostFiles[filepath.Base(path)]
}
