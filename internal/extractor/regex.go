package extractor

import (
	"regexp"
	"strings"
)

// Regex fallback extraction. These patterns are intentionally shallow: they
// index the common definition forms of each language family and miss the
// exotic ones. Line numbers are computed by counting newlines before the
// match start.

var (
	jsFuncPatterns = []*regexp.Regexp{
		regexp.MustCompile(`function\s+(\w+)\s*\(([^)]*)\)`),
		regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>`),
		regexp.MustCompile(`(\w+)\s*:\s*(?:async\s*)?function\s*\(([^)]*)\)`),
	}
	jsClassPattern  = regexp.MustCompile(`class\s+(\w+)`)
	jsImportPattern = regexp.MustCompile(`import\s+.*?from\s+['"]([^'"]+)['"]`)

	goFuncPattern   = regexp.MustCompile(`func\s+(?:\([^)]+\)\s+)?(\w+)\s*\(([^)]*)\)`)
	goStructPattern = regexp.MustCompile(`type\s+(\w+)\s+struct`)

	javaMethodPattern = regexp.MustCompile(`(?:public|private|protected)?\s*(?:static)?\s*\w+\s+(\w+)\s*\(([^)]*)\)\s*(?:throws\s+\w+(?:,\s*\w+)*)?\s*\{`)
	javaClassPattern  = regexp.MustCompile(`(?:public|private)?\s*class\s+(\w+)`)
)

func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}

func extractJSRegex(content, fileKey string) *FileSymbols {
	syms := &FileSymbols{}
	seen := map[string]bool{}

	for _, pattern := range jsFuncPatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(content, -1) {
			name := content[m[2]:m[3]]
			line := lineAt(content, m[0])
			params := ""
			if len(m) > 5 && m[4] >= 0 {
				params = content[m[4]:m[5]]
			}
			key := dedupKey(name, line)
			if seen[key] {
				continue
			}
			seen[key] = true
			syms.Functions = append(syms.Functions, FunctionRecord{
				Name:       name,
				Parameters: params,
				File:       fileKey,
				Line:       line,
			})
		}
	}

	for _, m := range jsClassPattern.FindAllStringSubmatchIndex(content, -1) {
		syms.Types = append(syms.Types, TypeRecord{
			Name: content[m[2]:m[3]],
			File: fileKey,
			Line: lineAt(content, m[0]),
		})
	}

	for _, m := range jsImportPattern.FindAllStringSubmatch(content, -1) {
		syms.Imports = append(syms.Imports, m[1])
	}

	return syms
}

func extractGoRegex(content, fileKey string) *FileSymbols {
	syms := &FileSymbols{}

	for _, m := range goFuncPattern.FindAllStringSubmatchIndex(content, -1) {
		syms.Functions = append(syms.Functions, FunctionRecord{
			Name:       content[m[2]:m[3]],
			Parameters: content[m[4]:m[5]],
			File:       fileKey,
			Line:       lineAt(content, m[0]),
		})
	}

	for _, m := range goStructPattern.FindAllStringSubmatchIndex(content, -1) {
		syms.Types = append(syms.Types, TypeRecord{
			Name: content[m[2]:m[3]],
			File: fileKey,
			Line: lineAt(content, m[0]),
		})
	}

	return syms
}

func extractJavaRegex(content, fileKey string) *FileSymbols {
	syms := &FileSymbols{}
	seen := map[string]bool{}

	for _, m := range javaMethodPattern.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		line := lineAt(content, m[0])
		key := dedupKey(name, line)
		if seen[key] {
			continue
		}
		seen[key] = true
		syms.Functions = append(syms.Functions, FunctionRecord{
			Name:       name,
			Parameters: content[m[4]:m[5]],
			File:       fileKey,
			Line:       line,
		})
	}

	for _, m := range javaClassPattern.FindAllStringSubmatchIndex(content, -1) {
		syms.Types = append(syms.Types, TypeRecord{
			Name: content[m[2]:m[3]],
			File: fileKey,
			Line: lineAt(content, m[0]),
		})
	}

	return syms
}
