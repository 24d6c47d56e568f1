// Package extractor turns one source file into flat symbol records:
// functions, types, and imports. Files with a registered tree-sitter grammar
// are extracted from the syntax tree; everything else goes through regex
// heuristics that emit the same record shapes.
package extractor

// FunctionRecord describes one function or method definition.
// (File, Name) identifies a definition for deduplication; names are not
// unique across a repository and all lookups must treat them as candidate
// sets.
type FunctionRecord struct {
	Name       string `json:"name"`
	Parameters string `json:"parameters"`
	ReturnType string `json:"return_type,omitempty"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	EndLine    int    `json:"end_line,omitempty"`
}

// TypeRecord describes a class, struct, or named type definition. Types are
// search targets only; call-graph traversal never follows them.
type TypeRecord struct {
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// FileSymbols holds everything extracted from a single file. Imports are the
// raw import/include strings with quote and angle-bracket delimiters
// stripped.
type FileSymbols struct {
	Functions []FunctionRecord
	Types     []TypeRecord
	Imports   []string
}
