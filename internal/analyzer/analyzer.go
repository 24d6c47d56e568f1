// Package analyzer answers call-graph questions over a populated
// RepositoryIndex: call trees, call paths between two functions, and a
// coarse complexity score. The analyzer holds a non-owning reference to the
// index and keeps no state between queries.
package analyzer

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"codescope/internal/calls"
	"codescope/internal/extractor"
	"codescope/internal/index"
)

// ErrFunctionNotFound is returned when a queried name resolves to no
// indexed function. "Nothing found" is a normal query outcome; callers
// convert this to a structured result, never a panic.
var ErrFunctionNotFound = errors.New("function not found")

// MaxDepthCeiling bounds recursion regardless of caller input. Depths above
// it are clamped, not rejected.
const MaxDepthCeiling = 100

// Analyzer reads from a RepositoryIndex without mutating it. File bytes are
// re-read from disk lazily for body extraction; no call bodies are cached.
type Analyzer struct {
	idx *index.RepositoryIndex
}

// New creates an analyzer over the given index.
func New(idx *index.RepositoryIndex) *Analyzer {
	return &Analyzer{idx: idx}
}

// CallTreeNode is one node of a call tree, built fresh per query. Truncated
// marks nodes whose children were not expanded because the depth limit was
// reached.
type CallTreeNode struct {
	Name      string          `json:"name"`
	File      string          `json:"file"`
	Line      int             `json:"line"`
	Calls     []*CallTreeNode `json:"calls"`
	Truncated bool            `json:"truncated,omitempty"`
}

// FlowTrace is the result of tracing one function's call flow.
type FlowTrace struct {
	Function string        `json:"function"`
	File     string        `json:"file"`
	Line     int           `json:"line"`
	CallTree *CallTreeNode `json:"call_tree"`
}

func clampDepth(maxDepth int) int {
	if maxDepth < 0 {
		return 0
	}
	if maxDepth > MaxDepthCeiling {
		return MaxDepthCeiling
	}
	return maxDepth
}

// TraceFunctionFlow resolves name to its first indexed candidate and builds
// a depth-limited, cycle-guarded call tree beneath it. When several
// functions share the name, the first candidate in scan order wins; the full
// candidate set is available through SearchFunction for disambiguation.
func (a *Analyzer) TraceFunctionFlow(name string, maxDepth int) (*FlowTrace, error) {
	maxDepth = clampDepth(maxDepth)

	candidates := a.idx.SearchFunction(name)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}

	fn := candidates[0]
	tree := a.buildCallTree(fn, maxDepth, 0, map[string]bool{})

	return &FlowTrace{
		Function: fn.Name,
		File:     fn.File,
		Line:     fn.Line,
		CallTree: tree,
	}, nil
}

// buildCallTree expands one function node. The visited set is copied before
// descending into each child: a function reachable via two sibling paths is
// expanded under both, while a true cycle back to an ancestor on the current
// path stops with an unexpanded node. That keeps a DAG-shaped call structure
// rendered as a tree instead of collapsed.
func (a *Analyzer) buildCallTree(fn extractor.FunctionRecord, maxDepth, depth int, visited map[string]bool) *CallTreeNode {
	key := fn.File + ":" + fn.Name

	node := &CallTreeNode{
		Name:  fn.Name,
		File:  fn.File,
		Line:  fn.Line,
		Calls: []*CallTreeNode{},
	}

	if depth >= maxDepth {
		node.Truncated = true
		return node
	}
	if visited[key] {
		return node
	}
	visited[key] = true

	content, err := a.idx.ReadFile(fn.File)
	if err != nil {
		return node
	}

	for _, callee := range calls.FindCalls(content, path.Ext(fn.File), fn.Name) {
		candidates := a.idx.SearchFunction(callee)
		if len(candidates) == 0 {
			continue
		}
		forked := make(map[string]bool, len(visited))
		for k := range visited {
			forked[k] = true
		}
		node.Calls = append(node.Calls, a.buildCallTree(candidates[0], maxDepth, depth+1, forked))
	}

	return node
}

// FindCallPath searches breadth-first from every candidate of fromName for
// paths whose final hop reaches any candidate name of toName. A path is
// recorded the moment the target appears among a dequeued function's
// immediate callees; paths longer than maxDepth are dropped. Returns an
// empty list when either endpoint has no candidates.
func (a *Analyzer) FindCallPath(fromName, toName string, maxDepth int) [][]string {
	maxDepth = clampDepth(maxDepth)

	fromCandidates := a.idx.SearchFunction(fromName)
	toCandidates := a.idx.SearchFunction(toName)
	if len(fromCandidates) == 0 || len(toCandidates) == 0 {
		return [][]string{}
	}

	toNames := make(map[string]bool, len(toCandidates))
	for _, fn := range toCandidates {
		toNames[fn.Name] = true
	}

	type entry struct {
		fn   extractor.FunctionRecord
		path []string
	}

	paths := [][]string{}

	for _, start := range fromCandidates {
		queue := []entry{{fn: start, path: []string{start.Name}}}
		visited := map[string]bool{}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			if len(current.path) > maxDepth {
				continue
			}
			key := current.fn.File + ":" + current.fn.Name
			if visited[key] {
				continue
			}
			visited[key] = true

			content, err := a.idx.ReadFile(current.fn.File)
			if err != nil {
				continue
			}

			for _, callee := range calls.FindCalls(content, path.Ext(current.fn.File), current.fn.Name) {
				if toNames[callee] {
					found := append(append([]string{}, current.path...), callee)
					paths = append(paths, found)
					continue
				}
				if containsName(current.path, callee) {
					continue
				}
				for _, next := range a.idx.SearchFunction(callee) {
					nextPath := append(append([]string{}, current.path...), callee)
					queue = append(queue, entry{fn: next, path: nextPath})
				}
			}
		}
	}

	return paths
}

func containsName(path []string, name string) bool {
	for _, p := range path {
		if p == name {
			return true
		}
	}
	return false
}

// FunctionCode is a function's full source text with its location.
type FunctionCode struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Code      string `json:"code"`
}

// ExtractFunctionCode returns the full text of the first candidate matching
// name. When the record carries no end line, the end is found by a bounded
// brace scan over the following lines.
func (a *Analyzer) ExtractFunctionCode(name string) (*FunctionCode, error) {
	candidates := a.idx.SearchFunction(name)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	fn := candidates[0]

	content, err := a.idx.ReadFile(fn.File)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fn.File, err)
	}
	lines := strings.Split(content, "\n")

	start := fn.Line - 1
	if start < 0 {
		start = 0
	}
	if start >= len(lines) {
		// File shrank since indexing; degrade to an empty body.
		return &FunctionCode{Name: fn.Name, File: fn.File, StartLine: fn.Line, EndLine: fn.Line}, nil
	}

	end := 0
	if fn.EndLine > 0 {
		end = fn.EndLine - 1
		if end >= len(lines) {
			end = len(lines) - 1
		}
	} else {
		end = scanBraceEnd(lines, start)
	}
	if end < start {
		end = start
	}

	return &FunctionCode{
		Name:      fn.Name,
		File:      fn.File,
		StartLine: start + 1,
		EndLine:   end + 1,
		Code:      strings.Join(lines[start:end+1], "\n"),
	}, nil
}

// scanBraceEnd finds the line where the brace depth opened at start returns
// to zero, scanning at most 200 lines.
func scanBraceEnd(lines []string, start int) int {
	depth := 0
	foundOpen := false
	limit := start + 200
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := start; i < limit; i++ {
		for _, ch := range lines[i] {
			switch ch {
			case '{':
				depth++
				foundOpen = true
			case '}':
				depth--
			}
		}
		if foundOpen && depth <= 0 {
			return i
		}
	}
	return limit - 1
}
