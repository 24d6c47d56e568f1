package analyzer

// ConceptFunction is one function matched during a concept analysis, carrying
// a short source snippet around its definition.
type ConceptFunction struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

// ConceptAnalysis groups every indexed function whose name matches one of a
// concept's keywords.
type ConceptAnalysis struct {
	Concept        string            `json:"concept"`
	Keywords       []string          `json:"keywords"`
	TotalFunctions int               `json:"total_functions"`
	Functions      []ConceptFunction `json:"functions"`
}

// AnalyzeConcept searches every keyword and collects the matching functions,
// deduplicated by file and name in keyword order. Each function gets a
// snippet spanning two lines before its definition through ten lines after
// it, capped at snippetMax bytes (zero or negative means uncapped). A concept
// with no matches is a normal result, not an error.
func (a *Analyzer) AnalyzeConcept(concept string, keywords []string, snippetMax int) *ConceptAnalysis {
	analysis := &ConceptAnalysis{
		Concept:   concept,
		Keywords:  keywords,
		Functions: []ConceptFunction{},
	}

	seen := map[string]bool{}
	for _, keyword := range keywords {
		for _, fn := range a.idx.SearchFunction(keyword) {
			key := fn.File + ":" + fn.Name
			if seen[key] {
				continue
			}
			seen[key] = true

			start := fn.Line - 2
			if start < 1 {
				start = 1
			}
			snippet, err := a.idx.FileContent(fn.File, start, fn.Line+10)
			if err != nil {
				snippet = ""
			}
			if snippetMax > 0 && len(snippet) > snippetMax {
				snippet = snippet[:snippetMax]
			}

			analysis.Functions = append(analysis.Functions, ConceptFunction{
				Name:    fn.Name,
				File:    fn.File,
				Line:    fn.Line,
				Snippet: snippet,
			})
		}
	}

	analysis.TotalFunctions = len(analysis.Functions)
	return analysis
}
