package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// extractPython walks a Python syntax tree collecting function definitions,
// class definitions, and import statements.
func extractPython(root *sitter.Node, content []byte, fileKey string) *FileSymbols {
	syms := &FileSymbols{}

	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			syms.Functions = append(syms.Functions, FunctionRecord{
				Name:       nodeText(nameNode, content),
				Parameters: nodeText(n.ChildByFieldName("parameters"), content),
				File:       fileKey,
				Line:       int(n.StartPoint().Row) + 1,
				EndLine:    int(n.EndPoint().Row) + 1,
			})

		case "class_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			syms.Types = append(syms.Types, TypeRecord{
				Name: nodeText(nameNode, content),
				File: fileKey,
				Line: int(n.StartPoint().Row) + 1,
			})

		case "import_statement", "import_from_statement":
			syms.Imports = append(syms.Imports, nodeText(n, content))
		}
	})

	return syms
}
