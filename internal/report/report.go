// Package report writes analysis summaries as JSON, validated against an
// embedded schema before anything touches disk.
package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"codescope/internal/session"
)

//go:embed report.schema.json
var reportSchema string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Report is the persisted summary of one scan-and-index pass.
type Report struct {
	Repository string              `json:"repository"`
	CreatedAt  string              `json:"created_at"`
	Scan       session.ScanResult  `json:"scan"`
	Index      session.IndexResult `json:"index"`
}

// New builds a report for a repository from its scan and index results.
func New(repository string, scan session.ScanResult, idx session.IndexResult) *Report {
	return &Report{
		Repository: repository,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Scan:       scan,
		Index:      idx,
	}
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("report.schema.json", strings.NewReader(reportSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("report.schema.json")
	})
	return schema, schemaErr
}

// Save validates the report against the schema and writes it as indented
// JSON.
func Save(path string, r *Report) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("schema load: %w", err)
	}

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0644)
}
