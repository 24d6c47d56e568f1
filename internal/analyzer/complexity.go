package analyzer

import (
	"regexp"
	"strings"

	"codescope/internal/calls"
)

// controlKeywords is the union across languages, not a per-language set. The
// resulting cyclomatic number is an approximation (1 + control-flow count);
// no control-flow graph is built.
var controlKeywords = []*regexp.Regexp{
	regexp.MustCompile(`\bif\b`),
	regexp.MustCompile(`\belse\b`),
	regexp.MustCompile(`\belif\b`),
	regexp.MustCompile(`\bwhile\b`),
	regexp.MustCompile(`\bfor\b`),
	regexp.MustCompile(`\bswitch\b`),
	regexp.MustCompile(`\bcase\b`),
	regexp.MustCompile(`\bexcept\b`),
	regexp.MustCompile(`\bcatch\b`),
}

// ComplexityReport holds the approximate complexity metrics of one function.
type ComplexityReport struct {
	Function          string `json:"function"`
	File              string `json:"file"`
	TotalLines        int    `json:"total_lines"`
	CodeLines         int    `json:"code_lines"`
	ControlStructures int    `json:"control_structures"`
	FunctionCalls     int    `json:"function_calls"`
	Cyclomatic        int    `json:"cyclomatic_complexity"`
	Level             string `json:"complexity_level"`
}

// FunctionComplexity extracts the full body of the first candidate matching
// name and computes line, control-flow, and call-site counts.
func (a *Analyzer) FunctionComplexity(name string) (*ComplexityReport, error) {
	code, err := a.ExtractFunctionCode(name)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(code.Code, "\n")
	codeLines := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		codeLines++
	}

	control := 0
	for _, kw := range controlKeywords {
		control += len(kw.FindAllString(code.Code, -1))
	}

	cyclomatic := 1 + control

	return &ComplexityReport{
		Function:          code.Name,
		File:              code.File,
		TotalLines:        len(lines),
		CodeLines:         codeLines,
		ControlStructures: control,
		FunctionCalls:     calls.CountCallSites(code.Code),
		Cyclomatic:        cyclomatic,
		Level:             complexityLevel(cyclomatic),
	}, nil
}

func complexityLevel(cyclomatic int) string {
	switch {
	case cyclomatic <= 5:
		return "low"
	case cyclomatic <= 10:
		return "moderate"
	case cyclomatic <= 20:
		return "high"
	default:
		return "very high"
	}
}
