// Package index owns the per-file symbol lists for one repository root and
// the scan/search operations over them. The index never stores file
// contents; line ranges are re-resolved against disk on demand.
package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"codescope/internal/config"
	"codescope/internal/extractor"
	"codescope/internal/parser"
)

// ErrRepositoryNotFound is returned by Scan when the repository root does
// not exist. It is the only scan-time fatal error; everything else is
// recovered per file.
var ErrRepositoryNotFound = errors.New("repository not found")

// RepositoryIndex maps repository-relative file keys to their extracted
// symbol lists. File keys are /-separated and case-preserving. Re-indexing a
// file replaces its lists atomically.
type RepositoryIndex struct {
	root           string
	ignorePatterns []string

	files   []string // scan order, also the stable iteration order
	symbols map[string]*extractor.FileSymbols
}

// New creates an index for the given repository root. Ignore patterns are
// glob-style, matched against individual path segment names; nil means the
// configured defaults.
func New(root string, ignorePatterns []string) *RepositoryIndex {
	if ignorePatterns == nil {
		ignorePatterns = config.DefaultIgnorePatterns
	}
	return &RepositoryIndex{
		root:           root,
		ignorePatterns: ignorePatterns,
		symbols:        make(map[string]*extractor.FileSymbols),
	}
}

// Root returns the repository root path.
func (ri *RepositoryIndex) Root() string {
	return ri.root
}

// Files returns the scanned file keys in scan order.
func (ri *RepositoryIndex) Files() []string {
	return ri.files
}

// ScanResult summarizes a repository scan.
type ScanResult struct {
	TotalFiles int            `json:"total_files"`
	Extensions map[string]int `json:"extensions"`
}

// matchesIgnore reports whether a single path segment name matches any
// ignore pattern.
func (ri *RepositoryIndex) matchesIgnore(name string) bool {
	for _, pattern := range ri.ignorePatterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Scan walks the repository root and records files whose extension is in the
// requested set (nil means the configured default set). An ignored directory
// is skipped without descending, so exclusion is transitive over everything
// beneath it.
func (ri *RepositoryIndex) Scan(extensions []string) (*ScanResult, error) {
	if _, err := os.Stat(ri.root); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, ri.root)
	}

	if extensions == nil {
		extensions = config.DefaultExtensions
	}
	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[ext] = true
	}

	ri.files = nil
	extCounts := make(map[string]int)

	err := filepath.WalkDir(ri.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == ri.root {
			return nil
		}

		if d.IsDir() {
			if ri.matchesIgnore(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if ri.matchesIgnore(d.Name()) {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if !wanted[ext] {
			return nil
		}

		rel, err := filepath.Rel(ri.root, path)
		if err != nil {
			return nil
		}
		ri.files = append(ri.files, filepath.ToSlash(rel))
		extCounts[ext]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ScanResult{TotalFiles: len(ri.files), Extensions: extCounts}, nil
}

// IndexResult summarizes a batch indexing pass.
type IndexResult struct {
	Indexed        int `json:"indexed"`
	Errors         int `json:"errors"`
	TotalFunctions int `json:"total_functions"`
	TotalTypes     int `json:"total_types"`
}

// IndexAll indexes every scanned file. A per-file failure is counted and
// skipped; one bad file never aborts the batch.
func (ri *RepositoryIndex) IndexAll() *IndexResult {
	result := &IndexResult{}

	for _, fileKey := range ri.files {
		if err := ri.IndexFile(fileKey); err != nil {
			result.Errors++
			continue
		}
		result.Indexed++
	}

	for _, syms := range ri.symbols {
		result.TotalFunctions += len(syms.Functions)
		result.TotalTypes += len(syms.Types)
	}
	return result
}

// IndexFile extracts symbols for one file key and replaces its lists. The
// extraction path is chosen per extension: syntax tree when a grammar
// exists, regex heuristics otherwise.
func (ri *RepositoryIndex) IndexFile(fileKey string) error {
	content, err := ri.readFile(fileKey)
	if err != nil {
		return fmt.Errorf("read %s: %w", fileKey, err)
	}

	ext := filepath.Ext(fileKey)
	var syms *extractor.FileSymbols
	if parser.Supports(ext) {
		if root, ok := parser.Parse(content, ext); ok {
			syms = extractor.FromTree(root, content, ext, fileKey)
		}
	}
	if syms == nil {
		syms = extractor.FromText(strings.ToValidUTF8(string(content), "�"), fileKey)
	}

	// Single assignment so readers never observe a partial overwrite.
	ri.symbols[fileKey] = syms
	return nil
}

// SetSymbols installs pre-extracted symbols for a file key, used when
// reloading a persisted index.
func (ri *RepositoryIndex) SetSymbols(fileKey string, syms *extractor.FileSymbols) {
	if _, exists := ri.symbols[fileKey]; !exists {
		ri.files = append(ri.files, fileKey)
	}
	ri.symbols[fileKey] = syms
}

// Symbols returns the extracted symbols for a file key.
func (ri *RepositoryIndex) Symbols(fileKey string) (*extractor.FileSymbols, bool) {
	syms, ok := ri.symbols[fileKey]
	return syms, ok
}

// SearchFunction returns every indexed function whose name contains the
// keyword, case-insensitively. Results follow scan order across files and
// extraction order within a file, so repeated queries are deterministic.
func (ri *RepositoryIndex) SearchFunction(keyword string) []extractor.FunctionRecord {
	keyword = strings.ToLower(keyword)
	var results []extractor.FunctionRecord
	for _, fileKey := range ri.files {
		syms, ok := ri.symbols[fileKey]
		if !ok {
			continue
		}
		for _, fn := range syms.Functions {
			if strings.Contains(strings.ToLower(fn.Name), keyword) {
				results = append(results, fn)
			}
		}
	}
	return results
}

// SearchType returns every indexed type whose name contains the keyword,
// case-insensitively.
func (ri *RepositoryIndex) SearchType(keyword string) []extractor.TypeRecord {
	keyword = strings.ToLower(keyword)
	var results []extractor.TypeRecord
	for _, fileKey := range ri.files {
		syms, ok := ri.symbols[fileKey]
		if !ok {
			continue
		}
		for _, t := range syms.Types {
			if strings.Contains(strings.ToLower(t.Name), keyword) {
				results = append(results, t)
			}
		}
	}
	return results
}

// AllFunctions returns every indexed function record.
func (ri *RepositoryIndex) AllFunctions() []extractor.FunctionRecord {
	var all []extractor.FunctionRecord
	for _, fileKey := range ri.files {
		if syms, ok := ri.symbols[fileKey]; ok {
			all = append(all, syms.Functions...)
		}
	}
	return all
}

// AllTypes returns every indexed type record.
func (ri *RepositoryIndex) AllTypes() []extractor.TypeRecord {
	var all []extractor.TypeRecord
	for _, fileKey := range ri.files {
		if syms, ok := ri.symbols[fileKey]; ok {
			all = append(all, syms.Types...)
		}
	}
	return all
}

// Imports returns the raw import strings recorded for a file key.
func (ri *RepositoryIndex) Imports(fileKey string) []string {
	if syms, ok := ri.symbols[fileKey]; ok {
		return syms.Imports
	}
	return nil
}

// ReadFile reads a file by key with a tolerant decode: malformed bytes are
// replaced, never fatal.
func (ri *RepositoryIndex) ReadFile(fileKey string) (string, error) {
	content, err := ri.readFile(fileKey)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(content), "�"), nil
}

func (ri *RepositoryIndex) readFile(fileKey string) ([]byte, error) {
	return os.ReadFile(filepath.Join(ri.root, filepath.FromSlash(fileKey)))
}

// FileContent returns a 1-based inclusive line range of a file. Out-of-range
// bounds are clamped rather than erroring: the index holds no contents, so a
// file edited after indexing may no longer cover recorded line ranges.
func (ri *RepositoryIndex) FileContent(fileKey string, startLine, endLine int) (string, error) {
	content, err := ri.ReadFile(fileKey)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fileKey, err)
	}
	if startLine <= 0 && endLine <= 0 {
		return content, nil
	}

	lines := strings.Split(content, "\n")
	if startLine <= 0 {
		startLine = 1
	}
	if startLine > len(lines) {
		return "", nil
	}
	if endLine <= 0 || endLine > len(lines) {
		endLine = len(lines)
	}
	if endLine < startLine {
		return "", nil
	}
	return strings.Join(lines[startLine-1:endLine], "\n"), nil
}
