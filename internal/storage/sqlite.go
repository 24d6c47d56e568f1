// Package storage persists a symbol index to SQLite so a scan can be reused
// across sessions without re-reading the repository.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"codescope/internal/extractor"
	"codescope/internal/index"
)

type Store struct {
	db *sql.DB
}

// NewStore creates or opens a SQLite database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			key TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS functions (
			file TEXT,
			name TEXT,
			parameters TEXT,
			return_type TEXT,
			line INTEGER,
			end_line INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS types (
			file TEXT,
			name TEXT,
			line INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS imports (
			file TEXT,
			import TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_functions_file ON functions(file);`,
		`CREATE INDEX IF NOT EXISTS idx_functions_name ON functions(name);`,
		`CREATE INDEX IF NOT EXISTS idx_types_file ON types(file);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveIndex writes every indexed file's symbol lists, replacing any previous
// rows. The whole save runs in one transaction so a reload never observes a
// half-written index.
func (s *Store) SaveIndex(ctx context.Context, idx *index.RepositoryIndex) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"files", "functions", "types", "imports"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, fileKey := range idx.Files() {
		syms, ok := idx.Symbols(fileKey)
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO files (key) VALUES (?)`, fileKey); err != nil {
			return err
		}
		for _, fn := range syms.Functions {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO functions (file, name, parameters, return_type, line, end_line) VALUES (?, ?, ?, ?, ?, ?)`,
				fn.File, fn.Name, fn.Parameters, fn.ReturnType, fn.Line, fn.EndLine)
			if err != nil {
				return err
			}
		}
		for _, t := range syms.Types {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO types (file, name, line) VALUES (?, ?, ?)`,
				t.File, t.Name, t.Line)
			if err != nil {
				return err
			}
		}
		for _, imp := range syms.Imports {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO imports (file, import) VALUES (?, ?)`, fileKey, imp)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadIndex reconstructs a RepositoryIndex for root from the stored rows.
func (s *Store) LoadIndex(ctx context.Context, root string, ignorePatterns []string) (*index.RepositoryIndex, error) {
	idx := index.New(root, ignorePatterns)

	rows, err := s.db.QueryContext(ctx, `SELECT key FROM files ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fileKeys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		fileKeys = append(fileKeys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, fileKey := range fileKeys {
		syms := &extractor.FileSymbols{}

		fnRows, err := s.db.QueryContext(ctx,
			`SELECT name, parameters, return_type, line, end_line FROM functions WHERE file = ? ORDER BY rowid`, fileKey)
		if err != nil {
			return nil, err
		}
		for fnRows.Next() {
			var fn extractor.FunctionRecord
			fn.File = fileKey
			if err := fnRows.Scan(&fn.Name, &fn.Parameters, &fn.ReturnType, &fn.Line, &fn.EndLine); err != nil {
				fnRows.Close()
				return nil, err
			}
			syms.Functions = append(syms.Functions, fn)
		}
		if err := fnRows.Err(); err != nil {
			fnRows.Close()
			return nil, err
		}
		fnRows.Close()

		tRows, err := s.db.QueryContext(ctx,
			`SELECT name, line FROM types WHERE file = ? ORDER BY rowid`, fileKey)
		if err != nil {
			return nil, err
		}
		for tRows.Next() {
			var t extractor.TypeRecord
			t.File = fileKey
			if err := tRows.Scan(&t.Name, &t.Line); err != nil {
				tRows.Close()
				return nil, err
			}
			syms.Types = append(syms.Types, t)
		}
		if err := tRows.Err(); err != nil {
			tRows.Close()
			return nil, err
		}
		tRows.Close()

		iRows, err := s.db.QueryContext(ctx,
			`SELECT import FROM imports WHERE file = ? ORDER BY rowid`, fileKey)
		if err != nil {
			return nil, err
		}
		for iRows.Next() {
			var imp string
			if err := iRows.Scan(&imp); err != nil {
				iRows.Close()
				return nil, err
			}
			syms.Imports = append(syms.Imports, imp)
		}
		if err := iRows.Err(); err != nil {
			iRows.Close()
			return nil, err
		}
		iRows.Close()

		idx.SetSymbols(fileKey, syms)
	}

	return idx, nil
}
