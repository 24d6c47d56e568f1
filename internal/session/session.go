// Package session is the boundary exposed to interactive collaborators. One
// Session owns one RepositoryIndex for one repository root; there is no
// ambient global state. Every method returns a plain result value — failures
// cross this boundary as "<Kind>: detail" strings, never as panics or raw
// errors.
package session

import (
	"errors"
	"fmt"

	"codescope/internal/analyzer"
	"codescope/internal/config"
	"codescope/internal/extractor"
	"codescope/internal/flowchart"
	"codescope/internal/index"
)

// Session bundles the index and analyzer for one repository. Queries run one
// at a time; nothing is mutated by read operations, so separate sessions
// against the same root need no coordination.
type Session struct {
	cfg *config.Config
	idx *index.RepositoryIndex
	an  *analyzer.Analyzer
}

// New creates a session rooted at the given repository path. A nil config
// uses the defaults.
func New(root string, cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	idx := index.New(root, cfg.Scan.IgnorePatterns)
	return &Session{
		cfg: cfg,
		idx: idx,
		an:  analyzer.New(idx),
	}
}

// FromIndex wraps an already-populated index, e.g. one reloaded from
// storage, in a session.
func FromIndex(idx *index.RepositoryIndex, cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{cfg: cfg, idx: idx, an: analyzer.New(idx)}
}

// Index exposes the underlying index, for persistence.
func (s *Session) Index() *index.RepositoryIndex {
	return s.idx
}

// errorString converts an internal error into the typed boundary format.
func errorString(err error) string {
	switch {
	case errors.Is(err, index.ErrRepositoryNotFound):
		return fmt.Sprintf("RepositoryNotFound: %v", err)
	case errors.Is(err, analyzer.ErrFunctionNotFound):
		return fmt.Sprintf("FunctionNotFound: %v", err)
	default:
		return fmt.Sprintf("FileReadError: %v", err)
	}
}

// ScanResult reports a scan outcome.
type ScanResult struct {
	TotalFiles int            `json:"total_files"`
	Extensions map[string]int `json:"extensions"`
	Error      string         `json:"error,omitempty"`
}

// Scan discovers files under the session root. nil extensions means the
// configured set.
func (s *Session) Scan(extensions []string) ScanResult {
	if extensions == nil {
		extensions = s.cfg.Scan.Extensions
	}
	result, err := s.idx.Scan(extensions)
	if err != nil {
		return ScanResult{Error: errorString(err)}
	}
	return ScanResult{TotalFiles: result.TotalFiles, Extensions: result.Extensions}
}

// IndexResult reports a batch indexing outcome.
type IndexResult struct {
	Indexed        int `json:"indexed"`
	Errors         int `json:"errors"`
	TotalFunctions int `json:"total_functions"`
	TotalTypes     int `json:"total_types"`
}

// IndexAll indexes every scanned file, tolerating per-file failures.
func (s *Session) IndexAll() IndexResult {
	r := s.idx.IndexAll()
	return IndexResult{
		Indexed:        r.Indexed,
		Errors:         r.Errors,
		TotalFunctions: r.TotalFunctions,
		TotalTypes:     r.TotalTypes,
	}
}

// FunctionSearchResult carries the full candidate set for a keyword, capped
// at the configured maximum.
type FunctionSearchResult struct {
	Count     int                        `json:"count"`
	Truncated bool                       `json:"truncated,omitempty"`
	Functions []extractor.FunctionRecord `json:"functions"`
}

// SearchFunctions returns every function whose name contains the keyword.
func (s *Session) SearchFunctions(keyword string) FunctionSearchResult {
	matches := s.idx.SearchFunction(keyword)
	truncated := false
	if max := s.cfg.Analysis.MaxSearchResults; len(matches) > max {
		matches = matches[:max]
		truncated = true
	}
	if matches == nil {
		matches = []extractor.FunctionRecord{}
	}
	return FunctionSearchResult{Count: len(matches), Truncated: truncated, Functions: matches}
}

// TypeSearchResult carries type/struct/class matches for a keyword.
type TypeSearchResult struct {
	Count     int                    `json:"count"`
	Truncated bool                   `json:"truncated,omitempty"`
	Types     []extractor.TypeRecord `json:"types"`
}

// SearchTypes returns every type whose name contains the keyword.
func (s *Session) SearchTypes(keyword string) TypeSearchResult {
	matches := s.idx.SearchType(keyword)
	truncated := false
	if max := s.cfg.Analysis.MaxSearchResults; len(matches) > max {
		matches = matches[:max]
		truncated = true
	}
	if matches == nil {
		matches = []extractor.TypeRecord{}
	}
	return TypeSearchResult{Count: len(matches), Truncated: truncated, Types: matches}
}

// TraceResult is a call-tree trace or its failure.
type TraceResult struct {
	Function string                 `json:"function,omitempty"`
	File     string                 `json:"file,omitempty"`
	Line     int                    `json:"line,omitempty"`
	CallTree *analyzer.CallTreeNode `json:"call_tree,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// TraceFunctionFlow builds a call tree for the named function. A negative
// maxDepth means the configured default; zero is honored and yields a single
// truncated root. Absurd depths are clamped internally.
func (s *Session) TraceFunctionFlow(name string, maxDepth int) TraceResult {
	if maxDepth < 0 {
		maxDepth = s.cfg.Analysis.MaxTraceDepth
	}
	trace, err := s.an.TraceFunctionFlow(name, maxDepth)
	if err != nil {
		return TraceResult{Error: errorString(err)}
	}
	return TraceResult{
		Function: trace.Function,
		File:     trace.File,
		Line:     trace.Line,
		CallTree: trace.CallTree,
	}
}

// PathResult lists every call path found between two functions.
type PathResult struct {
	From  string     `json:"from"`
	To    string     `json:"to"`
	Count int        `json:"count"`
	Paths [][]string `json:"paths"`
}

// FindCallPath searches for call paths from one function to another. A
// negative maxDepth means the configured default; zero is honored, dropping
// every path.
func (s *Session) FindCallPath(from, to string, maxDepth int) PathResult {
	if maxDepth < 0 {
		maxDepth = s.cfg.Analysis.MaxTraceDepth * 2
	}
	paths := s.an.FindCallPath(from, to, maxDepth)
	return PathResult{From: from, To: to, Count: len(paths), Paths: paths}
}

// ComplexityResult is a complexity report or its failure.
type ComplexityResult struct {
	Report *analyzer.ComplexityReport `json:"report,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

// FunctionComplexity computes approximate complexity metrics for the named
// function.
func (s *Session) FunctionComplexity(name string) ComplexityResult {
	report, err := s.an.FunctionComplexity(name)
	if err != nil {
		return ComplexityResult{Error: errorString(err)}
	}
	return ComplexityResult{Report: report}
}

// ConceptResult groups the functions related to one named concept.
type ConceptResult struct {
	Concept        string                     `json:"concept"`
	Keywords       []string                   `json:"keywords"`
	TotalFunctions int                        `json:"total_functions"`
	Functions      []analyzer.ConceptFunction `json:"functions"`
}

// AnalyzeConcept searches the keywords and returns the related functions,
// each with a source snippet capped at the configured maximum length.
func (s *Session) AnalyzeConcept(concept string, keywords []string) ConceptResult {
	a := s.an.AnalyzeConcept(concept, keywords, s.cfg.Analysis.MaxSnippetLength)
	return ConceptResult{
		Concept:        a.Concept,
		Keywords:       a.Keywords,
		TotalFunctions: a.TotalFunctions,
		Functions:      a.Functions,
	}
}

// FlowchartResult carries rendered Mermaid text or a failure.
type FlowchartResult struct {
	Mermaid string `json:"mermaid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CallTreeFlowchart traces a function and renders the tree as Mermaid text.
func (s *Session) CallTreeFlowchart(name string, maxDepth int, direction string) FlowchartResult {
	trace := s.TraceFunctionFlow(name, maxDepth)
	if trace.Error != "" {
		return FlowchartResult{Error: trace.Error}
	}
	return FlowchartResult{Mermaid: flowchart.NewGenerator().CallTree(trace.CallTree, direction)}
}

// CallPathFlowchart renders the call paths between two functions as Mermaid
// text.
func (s *Session) CallPathFlowchart(from, to string, maxDepth int, direction string) FlowchartResult {
	result := s.FindCallPath(from, to, maxDepth)
	return FlowchartResult{Mermaid: flowchart.NewGenerator().CallPaths(result.Paths, direction)}
}

// DependencyFlowchart renders the file-import dependency graph of every
// indexed file.
func (s *Session) DependencyFlowchart(direction string) FlowchartResult {
	imports := map[string][]string{}
	for _, fileKey := range s.idx.Files() {
		if deps := s.idx.Imports(fileKey); len(deps) > 0 {
			imports[fileKey] = deps
		}
	}
	return FlowchartResult{Mermaid: flowchart.NewGenerator().Dependencies(imports, direction)}
}
