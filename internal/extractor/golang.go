package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// extractGo walks a Go syntax tree collecting functions, methods, struct and
// interface types, and import specs.
func extractGo(root *sitter.Node, content []byte, fileKey string) *FileSymbols {
	syms := &FileSymbols{}

	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "function_declaration", "method_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			syms.Functions = append(syms.Functions, FunctionRecord{
				Name:       nodeText(nameNode, content),
				Parameters: nodeText(n.ChildByFieldName("parameters"), content),
				ReturnType: nodeText(n.ChildByFieldName("result"), content),
				File:       fileKey,
				Line:       int(n.StartPoint().Row) + 1,
				EndLine:    int(n.EndPoint().Row) + 1,
			})

		case "type_spec":
			nameNode := n.ChildByFieldName("name")
			typeNode := n.ChildByFieldName("type")
			if nameNode == nil || typeNode == nil {
				return
			}
			switch typeNode.Type() {
			case "struct_type", "interface_type":
				syms.Types = append(syms.Types, TypeRecord{
					Name: nodeText(nameNode, content),
					File: fileKey,
					Line: int(n.StartPoint().Row) + 1,
				})
			}

		case "import_spec":
			pathNode := n.ChildByFieldName("path")
			if pathNode == nil {
				return
			}
			syms.Imports = append(syms.Imports, strings.Trim(nodeText(pathNode, content), `"`))
		}
	})

	return syms
}
