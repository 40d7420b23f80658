package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/huiyuanXP/racode/pkg/types"
)

// typescriptBackend resolves symbols in TypeScript and JavaScript sources.
// The grammar is chosen per file extension; .tsx needs its own grammar
// because JSX changes the parse.
type typescriptBackend struct{}

var tsExtensions = map[string]bool{".ts": true, ".tsx": true, ".js": true, ".jsx": true}

const tsDefinitionQuery = `
	(function_declaration name: (identifier) @name) @def
	(class_declaration name: (type_identifier) @name) @def
	(interface_declaration name: (type_identifier) @name) @def
	(type_alias_declaration name: (type_identifier) @name) @def
	(variable_declarator name: (identifier) @name) @def
`

// The javascript grammar has no interface/type nodes and names classes with
// a plain identifier.
const jsDefinitionQuery = `
	(function_declaration name: (identifier) @name) @def
	(class_declaration name: (identifier) @name) @def
	(variable_declarator name: (identifier) @name) @def
`

const tsReferenceQuery = `[(identifier) (type_identifier)] @id`
const jsReferenceQuery = `(identifier) @id`

func (b *typescriptBackend) sources(root string) ([]sourceFile, error) {
	// A tsconfig.json found by walking upward selects the scan root, the
	// way a TypeScript project service would; otherwise the project root
	// is walked directly.
	return collectSources(findTSConfigRoot(root), root, tsExtensions)
}

func (b *typescriptBackend) scan(ctx context.Context, file sourceFile, src []byte, symbol string, refs bool) ([]types.Location, error) {
	var lang *sitter.Language
	js := false
	switch strings.ToLower(filepath.Ext(file.abs)) {
	case ".tsx":
		lang = tsx.GetLanguage()
	case ".js", ".jsx":
		lang = javascript.GetLanguage()
		js = true
	default:
		lang = typescript.GetLanguage()
	}

	lines := strings.Split(string(src), "\n")

	var locations []types.Location
	if !refs {
		query := tsDefinitionQuery
		if js {
			query = jsDefinitionQuery
		}
		err := parseAndQuery(ctx, lang, query, src, func(captures map[string]*sitter.Node) {
			name, def := captures["name"], captures["def"]
			if name == nil || def == nil || name.Content(src) != symbol {
				return
			}
			if !tsTopLevel(def) {
				return
			}
			locations = append(locations, location(file, lines, name, tsDefinitionKind(def)))
		})
		return locations, err
	}

	query := tsReferenceQuery
	if js {
		query = jsReferenceQuery
	}
	err := parseAndQuery(ctx, lang, query, src, func(captures map[string]*sitter.Node) {
		node := captures["id"]
		if node == nil || node.Content(src) != symbol {
			return
		}
		locations = append(locations, location(file, lines, node, tsReferenceKind(node)))
	})
	return locations, err
}

// tsTopLevel reports whether a declaration sits at module scope, possibly
// wrapped in an export statement or a variable declaration list.
func tsTopLevel(def *sitter.Node) bool {
	for p := def.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "program":
			return true
		case "export_statement", "lexical_declaration", "variable_declaration":
			continue
		default:
			return false
		}
	}
	return false
}

func tsDefinitionKind(def *sitter.Node) string {
	switch def.Type() {
	case "function_declaration":
		return types.KindFunctionDefinition
	case "class_declaration":
		return types.KindClassDefinition
	case "interface_declaration":
		return types.KindInterfaceDefinition
	case "type_alias_declaration":
		return types.KindTypeDefinition
	default:
		return types.KindVariableDefinition
	}
}

// tsReferenceKind derives the occurrence kind from the parent syntactic node.
func tsReferenceKind(node *sitter.Node) string {
	parent := node.Parent()
	if parent == nil {
		return types.KindUnknown
	}
	switch parent.Type() {
	case "call_expression":
		if sameNode(parent.ChildByFieldName("function"), node) {
			return types.KindFunctionCall
		}
	case "variable_declarator":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return types.KindVariableDefinition
		}
	case "function_declaration":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return types.KindFunctionDefinition
		}
	case "class_declaration":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return types.KindClassDefinition
		}
	case "interface_declaration":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return types.KindInterfaceDefinition
		}
	case "type_alias_declaration":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return types.KindTypeDefinition
		}
	}
	return types.KindReference
}

// findTSConfigRoot walks upward from root looking for a tsconfig.json and
// returns the directory holding it, or root when none is found.
func findTSConfigRoot(root string) string {
	dir := root
	for {
		if _, err := os.Stat(filepath.Join(dir, "tsconfig.json")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return root
		}
		dir = parent
	}
}
