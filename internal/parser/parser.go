// Package parser maps file extensions to tree-sitter languages and parses
// source text into syntax trees. Extensions without a registered language are
// not an error; callers fall back to regex extraction.
package parser

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"
)

var languages = map[string]*sitter.Language{
	".py":  python.GetLanguage(),
	".c":   c.GetLanguage(),
	".h":   c.GetLanguage(),
	".cpp": cpp.GetLanguage(),
	".hpp": cpp.GetLanguage(),
	".go":  golang.GetLanguage(),
}

// Supports reports whether a tree-sitter grammar is registered for the
// extension.
func Supports(ext string) bool {
	_, ok := languages[ext]
	return ok
}

// Parse parses source text for the given extension and returns the root
// node. Returns (nil, false) when the extension has no grammar or parsing
// fails outright. Tree-sitter is error-tolerant, so syntactically invalid
// code still yields a (partial) tree.
//
// A fresh sitter.Parser is created per call: parser instances are not safe
// for concurrent use, and per-file parse setup is cheap relative to the walk.
func Parse(content []byte, ext string) (*sitter.Node, bool) {
	lang, ok := languages[ext]
	if !ok {
		return nil, false
	}

	p := sitter.NewParser()
	p.SetLanguage(lang)
	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		return nil, false
	}
	return tree.RootNode(), true
}

// Language returns the registered grammar for an extension, or nil.
func Language(ext string) *sitter.Language {
	return languages[ext]
}
