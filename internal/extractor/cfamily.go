package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// extractCFamily walks a C/C++ syntax tree collecting function definitions,
// struct definitions, and #include directives.
func extractCFamily(root *sitter.Node, content []byte, fileKey string) *FileSymbols {
	syms := &FileSymbols{}

	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition":
			declarator := n.ChildByFieldName("declarator")
			if declarator == nil {
				return
			}
			name := declaratorName(declarator, content)
			if name == "" {
				return
			}
			syms.Functions = append(syms.Functions, FunctionRecord{
				Name:       name,
				Parameters: declaratorParameters(declarator, content),
				ReturnType: nodeText(n.ChildByFieldName("type"), content),
				File:       fileKey,
				Line:       int(n.StartPoint().Row) + 1,
				EndLine:    int(n.EndPoint().Row) + 1,
			})

		case "struct_specifier":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			syms.Types = append(syms.Types, TypeRecord{
				Name: nodeText(nameNode, content),
				File: fileKey,
				Line: int(n.StartPoint().Row) + 1,
			})

		case "preproc_include":
			pathNode := n.ChildByFieldName("path")
			if pathNode == nil {
				return
			}
			include := strings.Trim(nodeText(pathNode, content), `"<>`)
			syms.Imports = append(syms.Imports, include)
		}
	})

	return syms
}

// declaratorName unwraps a declarator to its innermost identifier. A function
// declarator may be nested under arbitrary levels of pointer or parenthesized
// declarators ("int *(*fp(void))(int)"), so the unwrap recurses through the
// declarator field before falling back to a child search.
func declaratorName(declarator *sitter.Node, content []byte) string {
	if declarator.Type() == "identifier" {
		return nodeText(declarator, content)
	}

	switch declarator.Type() {
	case "function_declarator", "pointer_declarator", "parenthesized_declarator":
		if inner := declarator.ChildByFieldName("declarator"); inner != nil {
			if name := declaratorName(inner, content); name != "" {
				return name
			}
		}
	}

	for i := 0; i < int(declarator.ChildCount()); i++ {
		child := declarator.Child(i)
		if child.Type() == "identifier" {
			return nodeText(child, content)
		}
		if name := declaratorName(child, content); name != "" {
			return name
		}
	}
	return ""
}

// declaratorParameters finds the parameter list span beneath a declarator.
func declaratorParameters(declarator *sitter.Node, content []byte) string {
	if declarator.Type() == "function_declarator" {
		if params := declarator.ChildByFieldName("parameters"); params != nil {
			return nodeText(params, content)
		}
	}
	for i := 0; i < int(declarator.ChildCount()); i++ {
		if params := declaratorParameters(declarator.Child(i), content); params != "" {
			return params
		}
	}
	return ""
}
