// Package index exports the declarations and diagnostics of a check run
// into a SQLite database for external tooling.
package index

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"vela/internal/check"
	"vela/internal/decl"
	"vela/internal/source"
)

// Store is a SQLite-backed declaration index.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping index: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate index: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id          INTEGER PRIMARY KEY,
  path        TEXT NOT NULL UNIQUE,
  hash        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS decls (
  id          INTEGER PRIMARY KEY,
  file_id     INTEGER REFERENCES files(id) ON DELETE CASCADE,
  name        TEXT NOT NULL,
  kind        TEXT NOT NULL,
  start_line  INTEGER,
  start_col   INTEGER,
  end_line    INTEGER,
  end_col     INTEGER,
  owner_id    INTEGER REFERENCES decls(id) ON DELETE SET NULL,
  specialized BOOLEAN DEFAULT FALSE,
  doc         TEXT
);

CREATE TABLE IF NOT EXISTS diagnostics (
  id          INTEGER PRIMARY KEY,
  file_id     INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  code        TEXT NOT NULL,
  severity    TEXT NOT NULL,
  message     TEXT NOT NULL,
  line        INTEGER,
  col         INTEGER
);

CREATE INDEX IF NOT EXISTS idx_decls_name ON decls(name);
CREATE INDEX IF NOT EXISTS idx_decls_file ON decls(file_id);
CREATE INDEX IF NOT EXISTS idx_diagnostics_file ON diagnostics(file_id);
`

// Decl is one indexed declaration.
type Decl struct {
	ID          int64
	Path        string
	Name        string
	Kind        string
	StartLine   int
	StartCol    int
	EndLine     int
	EndCol      int
	Owner       string
	Specialized bool
	Doc         string
}

// Stats counts what a Write stored.
type Stats struct {
	Files       int
	Decls       int
	Diagnostics int
}

// Write replaces the rows of every file in res with its current
// declarations and diagnostics. Files not part of res are untouched.
func (s *Store) Write(ctx context.Context, res *check.Result) (Stats, error) {
	var st Stats
	if res == nil || res.Engines == nil {
		return st, errors.New("index: nil check result")
	}
	eng := res.Engines
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return st, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	fileIDs := make(map[source.FileID]int64, eng.Files.Len())
	for _, f := range eng.Files.Files() {
		if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE path = ?", f.Path); err != nil {
			return st, fmt.Errorf("clear file %s: %w", f.Path, err)
		}
		r, err := tx.ExecContext(ctx, "INSERT INTO files (path, hash) VALUES (?, ?)", f.Path, hex.EncodeToString(f.Hash[:]))
		if err != nil {
			return st, fmt.Errorf("insert file %s: %w", f.Path, err)
		}
		id, err := r.LastInsertId()
		if err != nil {
			return st, fmt.Errorf("last insert id: %w", err)
		}
		fileIDs[f.ID] = id
		st.Files++
	}

	declIDs := make(map[decl.Ref]int64)
	owners := make(map[decl.Ref]decl.Ref)
	for _, ref := range eng.Decls.Refs() {
		sum := eng.Decls.Describe(ref)
		var fileID any
		var sl, sc, el, ec uint32
		if id, ok := fileIDs[sum.NameSpan.File]; ok && eng.Files.HasFile(sum.NameSpan.File) {
			fileID = id
			start, _ := eng.Files.Resolve(sum.NameSpan)
			_, end := eng.Files.Resolve(sum.Span)
			sl, sc, el, ec = start.Line, start.Col, end.Line, end.Col
		}
		r, err := tx.ExecContext(ctx,
			`INSERT INTO decls (file_id, name, kind, start_line, start_col, end_line, end_col, specialized, doc)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fileID, sum.Name, ref.Kind.String(), sl, sc, el, ec, sum.Specialized, strings.Join(sum.Doc, "\n"))
		if err != nil {
			return st, fmt.Errorf("insert decl %s: %w", sum.Name, err)
		}
		id, err := r.LastInsertId()
		if err != nil {
			return st, fmt.Errorf("last insert id: %w", err)
		}
		declIDs[ref] = id
		if sum.Owner.IsValid() {
			owners[ref] = sum.Owner
		}
		st.Decls++
	}
	for ref, owner := range owners {
		oid, ok := declIDs[owner]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, "UPDATE decls SET owner_id = ? WHERE id = ?", oid, declIDs[ref]); err != nil {
			return st, fmt.Errorf("link owner: %w", err)
		}
	}

	for _, d := range res.Diagnostics {
		fid, ok := fileIDs[d.Primary.File]
		if !ok {
			continue
		}
		lc, _ := eng.Files.Resolve(d.Primary)
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO diagnostics (file_id, code, severity, message, line, col) VALUES (?, ?, ?, ?, ?, ?)",
			fid, d.Code.ID(), d.Severity.String(), d.Message, lc.Line, lc.Col); err != nil {
			return st, fmt.Errorf("insert diagnostic: %w", err)
		}
		st.Diagnostics++
	}

	if err := tx.Commit(); err != nil {
		return st, fmt.Errorf("commit: %w", err)
	}
	return st, nil
}

const declSelect = `SELECT d.id, COALESCE(f.path, ''), d.name, d.kind, d.start_line, d.start_col,
  d.end_line, d.end_col, COALESCE(o.name, ''), d.specialized, COALESCE(d.doc, '')
FROM decls d
LEFT JOIN files f ON f.id = d.file_id
LEFT JOIN decls o ON o.id = d.owner_id`

// Lookup returns every declaration named name.
func (s *Store) Lookup(ctx context.Context, name string) ([]Decl, error) {
	return s.query(ctx, declSelect+" WHERE d.name = ? ORDER BY d.id", name)
}

// DeclsInFile returns the declarations of path in source order.
func (s *Store) DeclsInFile(ctx context.Context, path string) ([]Decl, error) {
	return s.query(ctx, declSelect+" WHERE f.path = ? ORDER BY d.start_line, d.start_col, d.id", path)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Decl, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query decls: %w", err)
	}
	defer rows.Close()
	var out []Decl
	for rows.Next() {
		var d Decl
		if err := rows.Scan(&d.ID, &d.Path, &d.Name, &d.Kind, &d.StartLine, &d.StartCol,
			&d.EndLine, &d.EndCol, &d.Owner, &d.Specialized, &d.Doc); err != nil {
			return nil, fmt.Errorf("scan decl: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DiagnosticCount returns the number of stored diagnostics with severity sev
// ("ERROR", "WARNING", "INFO"); an empty sev counts all of them.
func (s *Store) DiagnosticCount(ctx context.Context, sev string) (int, error) {
	var n int
	var err error
	if sev == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM diagnostics").Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM diagnostics WHERE severity = ?", sev).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count diagnostics: %w", err)
	}
	return n, nil
}
