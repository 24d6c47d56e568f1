package extractor

import (
	"fmt"
	"regexp"
)

// genericCallPattern matches any identifier immediately followed by an open
// paren. Precision is poor by construction; this extractor exists so that no
// file type is left entirely unindexed.
var genericCallPattern = regexp.MustCompile(`\b([a-zA-Z_]\w*)\s*\(`)

var genericKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "switch": true,
	"return": true, "function": true, "class": true,
}

func extractGeneric(content, fileKey string) *FileSymbols {
	syms := &FileSymbols{}
	seen := map[string]bool{}

	for _, m := range genericCallPattern.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		if genericKeywords[name] {
			continue
		}
		line := lineAt(content, m[0])
		key := dedupKey(name, line)
		if seen[key] {
			continue
		}
		seen[key] = true
		syms.Functions = append(syms.Functions, FunctionRecord{
			Name: name,
			File: fileKey,
			Line: line,
		})
	}

	return syms
}

func dedupKey(name string, line int) string {
	return fmt.Sprintf("%s:%d", name, line)
}
