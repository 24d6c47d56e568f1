// Package flowchart renders analysis results as Mermaid diagram text.
package flowchart

import (
	"fmt"
	"sort"
	"strings"

	"codescope/internal/analyzer"
)

// Generator assigns stable node ids while emitting one diagram. Not safe for
// concurrent use; create one per diagram or call through a Session.
type Generator struct {
	counter int
	nodeIDs map[string]string
}

// NewGenerator creates an empty generator.
func NewGenerator() *Generator {
	return &Generator{nodeIDs: map[string]string{}}
}

func (g *Generator) reset() {
	g.counter = 0
	g.nodeIDs = map[string]string{}
}

func (g *Generator) nodeID(key string) string {
	if id, ok := g.nodeIDs[key]; ok {
		return id
	}
	g.counter++
	id := fmt.Sprintf("node%d", g.counter)
	g.nodeIDs[key] = id
	return id
}

// sanitizeLabel strips characters that break Mermaid label syntax and caps
// the length.
func sanitizeLabel(text string, maxLen int) string {
	replacer := strings.NewReplacer(
		`"`, "'",
		"\n", " ",
		"\r", "",
		"(", "[",
		")", "]",
	)
	text = replacer.Replace(text)
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

// CallTree renders a call tree as a Mermaid graph. Direction is "TD" or
// "LR"; the root node gets a highlighted style.
func (g *Generator) CallTree(tree *analyzer.CallTreeNode, direction string) string {
	g.reset()
	if direction == "" {
		direction = "TD"
	}

	lines := []string{"graph " + direction}
	g.addTreeNodes(tree, "", &lines)
	return strings.Join(lines, "\n")
}

func (g *Generator) addTreeNodes(node *analyzer.CallTreeNode, parentID string, lines *[]string) {
	if node == nil {
		return
	}

	id := g.nodeID(node.File + ":" + node.Name)

	fileName := node.File
	if i := strings.LastIndex(fileName, "/"); i >= 0 {
		fileName = fileName[i+1:]
	}
	label := node.Name
	if fileName != "" {
		label = fmt.Sprintf("%s\\n(%s:%d)", node.Name, fileName, node.Line)
	}
	label = sanitizeLabel(label, 50)

	*lines = append(*lines, fmt.Sprintf(`    %s["%s"]`, id, label))
	if parentID == "" {
		*lines = append(*lines, fmt.Sprintf("    style %s fill:#f9f,stroke:#333,stroke-width:4px", id))
	} else {
		*lines = append(*lines, fmt.Sprintf("    %s --> %s", parentID, id))
	}

	for _, child := range node.Calls {
		g.addTreeNodes(child, id, lines)
	}
}

// CallPaths renders call paths as a Mermaid graph, one subgraph per path
// when several exist.
func (g *Generator) CallPaths(paths [][]string, direction string) string {
	if len(paths) == 0 {
		return "graph LR\n    A[no path found]"
	}
	g.reset()
	if direction == "" {
		direction = "LR"
	}

	lines := []string{"graph " + direction}
	for pathIdx, path := range paths {
		if len(path) == 0 {
			continue
		}
		if len(paths) > 1 {
			lines = append(lines, fmt.Sprintf("    subgraph Path%d", pathIdx+1))
		}
		prevID := ""
		for _, name := range path {
			id := g.nodeID(fmt.Sprintf("path%d_%s", pathIdx, name))
			lines = append(lines, fmt.Sprintf(`    %s["%s"]`, id, sanitizeLabel(name, 50)))
			if prevID != "" {
				lines = append(lines, fmt.Sprintf("    %s --> %s", prevID, id))
			}
			prevID = id
		}
		if len(paths) > 1 {
			lines = append(lines, "    end")
		}
	}
	return strings.Join(lines, "\n")
}

// Dependencies renders a file-to-import dependency graph from per-file
// import lists. Files are emitted in sorted order so output is stable.
func (g *Generator) Dependencies(imports map[string][]string, direction string) string {
	if len(imports) == 0 {
		return "graph LR\n    A[no dependencies]"
	}
	g.reset()
	if direction == "" {
		direction = "LR"
	}

	fileKeys := make([]string, 0, len(imports))
	for file := range imports {
		fileKeys = append(fileKeys, file)
	}
	sort.Strings(fileKeys)

	lines := []string{"graph " + direction}
	declared := map[string]bool{}

	for _, file := range fileKeys {
		fileID := g.nodeID(file)
		if !declared[fileID] {
			lines = append(lines, fmt.Sprintf(`    %s["%s"]`, fileID, sanitizeLabel(baseName(file), 50)))
			declared[fileID] = true
		}
		for _, dep := range imports[file] {
			depID := g.nodeID(dep)
			if !declared[depID] {
				lines = append(lines, fmt.Sprintf(`    %s["%s"]`, depID, sanitizeLabel(baseName(dep), 50)))
				declared[depID] = true
			}
			lines = append(lines, fmt.Sprintf("    %s --> %s", fileID, depID))
		}
	}
	return strings.Join(lines, "\n")
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
