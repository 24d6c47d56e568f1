// Package calls isolates a named function's body inside raw source text and
// detects the identifiers used in call position. The whole package is a
// text-level heuristic: brace scanning does not understand strings or
// comments, and a literal brace inside either will skew the detected body
// extent. That trade-off is inherited deliberately; hardening it would
// require a lexer pass.
package calls

import (
	"regexp"
	"sort"
	"strings"
)

// callPattern matches an identifier immediately followed by an open paren.
var callPattern = regexp.MustCompile(`\b([a-zA-Z_]\w*)\s*\(`)

var pythonKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "with": true, "elif": true,
	"except": true, "assert": true, "print": true, "len": true,
	"range": true, "str": true, "int": true, "float": true, "list": true,
	"dict": true, "set": true, "tuple": true, "bool": true, "type": true,
	"isinstance": true, "hasattr": true, "getattr": true, "setattr": true,
	"super": true, "open": true, "input": true, "format": true,
	"enumerate": true, "zip": true, "map": true, "filter": true,
	"sorted": true, "reversed": true, "min": true, "max": true,
	"sum": true, "any": true, "all": true,
}

var cKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "switch": true, "sizeof": true,
	"return": true, "typeof": true, "else": true, "case": true,
	"default": true, "break": true, "continue": true, "goto": true,
	"NULL": true, "true": true, "false": true, "nullptr": true,
}

var genericKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "switch": true,
	"return": true, "function": true, "class": true,
}

// FindCalls locates the first definition of functionName in content and
// returns the deduplicated, sorted set of callee names found in its body.
// An unmatched name yields an empty result, indistinguishable from a
// function with no calls; callers treat both the same way.
func FindCalls(content, ext, functionName string) []string {
	switch ext {
	case ".py":
		return findPythonCalls(content, functionName)
	case ".c", ".h", ".cpp", ".hpp":
		return findBraceCalls(content, functionName, cKeywords)
	case ".go", ".java", ".js", ".ts", ".rs":
		return findBraceCalls(content, functionName, genericKeywords)
	default:
		return filterCalls(content, genericKeywords)
	}
}

// findPythonCalls isolates an indentation-delimited body: every line after
// the definition header whose indentation is >= the first non-blank body
// line's indentation belongs to the body. Blank lines never terminate the
// scan.
func findPythonCalls(content, functionName string) []string {
	defPattern := regexp.MustCompile(
		`def\s+` + regexp.QuoteMeta(functionName) + `\s*\([^)]*\)\s*(?:->.*?)?:`)
	loc := defPattern.FindStringIndex(content)
	if loc == nil {
		return []string{}
	}

	lines := strings.Split(content[loc[1]:], "\n")
	var bodyLines []string
	baseIndent := -1

	for _, line := range lines {
		stripped := strings.TrimLeft(line, " \t")
		if stripped == "" {
			bodyLines = append(bodyLines, line)
			continue
		}
		indent := len(line) - len(stripped)
		if baseIndent < 0 {
			baseIndent = indent
		}
		if indent >= baseIndent {
			bodyLines = append(bodyLines, line)
		} else {
			break
		}
	}

	return filterCalls(strings.Join(bodyLines, "\n"), pythonKeywords)
}

// findBraceCalls isolates a brace-delimited body with a depth counter
// starting at the first { after the definition header.
func findBraceCalls(content, functionName string, keywords map[string]bool) []string {
	defPattern := regexp.MustCompile(
		`\b` + regexp.QuoteMeta(functionName) + `\s*\([^)]*\)[^{;]*\{`)
	loc := defPattern.FindStringIndex(content)
	if loc == nil {
		return []string{}
	}

	start := loc[1] - 1
	depth := 1
	end := start + 1
	for end < len(content) && depth > 0 {
		switch content[end] {
		case '{':
			depth++
		case '}':
			depth--
		}
		end++
	}

	return filterCalls(content[start:end], keywords)
}

// filterCalls extracts call-position identifiers from text, drops denylisted
// keywords, and returns the sorted set. A callee appearing twice is reported
// once; call order is not preserved.
func filterCalls(text string, keywords map[string]bool) []string {
	seen := map[string]bool{}
	for _, m := range callPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if keywords[name] || seen[name] {
			continue
		}
		seen[name] = true
	}

	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// CountCallSites counts every identifier-before-paren occurrence in text,
// without deduplication or keyword filtering. Used by the complexity metric.
func CountCallSites(text string) int {
	return len(callPattern.FindAllString(text, -1))
}
