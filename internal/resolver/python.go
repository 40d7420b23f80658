package resolver

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/huiyuanXP/racode/pkg/types"
)

// pythonBackend resolves symbols by parsing every .py file under the
// project root with the tree-sitter python grammar.
type pythonBackend struct{}

var pyExtensions = map[string]bool{".py": true}

// pyDefinitionQuery captures def/class declarations at any nesting depth,
// plus assignments to a bare name.
const pyDefinitionQuery = `
	(function_definition name: (identifier) @name) @def
	(class_definition name: (identifier) @name) @def
	(assignment left: (identifier) @name) @def
`

const pyReferenceQuery = `(identifier) @id`

func (b *pythonBackend) sources(root string) ([]sourceFile, error) {
	return collectSources(root, root, pyExtensions)
}

func (b *pythonBackend) scan(ctx context.Context, file sourceFile, src []byte, symbol string, refs bool) ([]types.Location, error) {
	lines := strings.Split(string(src), "\n")
	lang := python.GetLanguage()

	var locations []types.Location
	if !refs {
		err := parseAndQuery(ctx, lang, pyDefinitionQuery, src, func(captures map[string]*sitter.Node) {
			name, def := captures["name"], captures["def"]
			if name == nil || def == nil || name.Content(src) != symbol {
				return
			}
			locations = append(locations, location(file, lines, name, pyDefinitionKind(def)))
		})
		return locations, err
	}

	err := parseAndQuery(ctx, lang, pyReferenceQuery, src, func(captures map[string]*sitter.Node) {
		node := captures["id"]
		if node == nil || node.Content(src) != symbol {
			return
		}
		// Attribute accesses like x.symbol refer to an attribute, not the
		// free name; identifiers inside strings and comments are not
		// identifier nodes at all, so the grammar excludes them already.
		parent := node.Parent()
		if parent != nil && parent.Type() == "attribute" &&
			sameNode(parent.ChildByFieldName("attribute"), node) {
			return
		}
		locations = append(locations, location(file, lines, node, pyReferenceKind(node, parent)))
	})
	return locations, err
}

func pyDefinitionKind(def *sitter.Node) string {
	switch def.Type() {
	case "function_definition":
		return types.KindFunctionDefinition
	case "class_definition":
		return types.KindClassDefinition
	default:
		return types.KindVariableDefinition
	}
}

// pyReferenceKind classifies an identifier occurrence by its parent node.
// Occurrences with no stronger structural evidence stay plain references.
func pyReferenceKind(node, parent *sitter.Node) string {
	if parent == nil {
		return types.KindUnknown
	}
	switch parent.Type() {
	case "function_definition":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return types.KindFunctionDefinition
		}
	case "class_definition":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return types.KindClassDefinition
		}
	case "call":
		if sameNode(parent.ChildByFieldName("function"), node) {
			return types.KindFunctionCall
		}
	case "assignment":
		if sameNode(parent.ChildByFieldName("left"), node) {
			return types.KindVariableDefinition
		}
	}
	return types.KindReference
}
