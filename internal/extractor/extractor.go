package extractor

import (
	"path"

	sitter "github.com/smacker/go-tree-sitter"
)

// FromTree extracts symbols from a parsed syntax tree. The dispatch is by
// extension, matching the grammars registered in the parser package.
func FromTree(root *sitter.Node, content []byte, ext, fileKey string) *FileSymbols {
	switch ext {
	case ".py":
		return extractPython(root, content, fileKey)
	case ".c", ".h", ".cpp", ".hpp":
		return extractCFamily(root, content, fileKey)
	case ".go":
		return extractGo(root, content, fileKey)
	default:
		return &FileSymbols{}
	}
}

// FromText extracts symbols using regex heuristics, for files whose language
// has no grammar. Known language families get anchored patterns; anything
// else falls through to the generic identifier-before-paren extractor.
func FromText(content, fileKey string) *FileSymbols {
	switch path.Ext(fileKey) {
	case ".js", ".ts":
		return extractJSRegex(content, fileKey)
	case ".go":
		return extractGoRegex(content, fileKey)
	case ".java":
		return extractJavaRegex(content, fileKey)
	default:
		return extractGeneric(content, fileKey)
	}
}

// walk visits every node depth-first using an explicit stack, so pathological
// nesting in generated source cannot blow the goroutine stack. Children are
// pushed in reverse to preserve source order.
func walk(root *sitter.Node, visit func(n *sitter.Node)) {
	if root == nil {
		return
	}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}
}

func nodeText(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(content)
}
