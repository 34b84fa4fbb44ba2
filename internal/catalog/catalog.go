// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists extraction results in a SQLite database so
// runs over a library of documents stay queryable.
// See docs/ARCHITECTURE § Catalog.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scoresplit/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "catalog.db"
)

// Store manages the extraction catalog SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog at outDir/index/catalog.db,
// creating the schema if it does not exist.
func Open(outDir string) (*Store, error) {
	dbDir := filepath.Join(outDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			path TEXT,
			pages INTEGER,
			scale REAL,
			extracted_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS exercises (
			document_id TEXT NOT NULL REFERENCES documents(id),
			page INTEGER NOT NULL,
			strategy TEXT NOT NULL,
			number INTEGER NOT NULL,
			file TEXT NOT NULL,
			top INTEGER,
			bottom INTEGER,
			width INTEGER,
			height INTEGER,
			UNIQUE(document_id, file)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_document ON exercises(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_strategy ON exercises(strategy)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts a document and replaces its exercises in one
// transaction, so a re-extraction never leaves stale rows behind.
func (s *Store) Record(ctx context.Context, doc types.Document, exercises []types.Exercise) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, path, pages, scale, extracted_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			path=excluded.path, pages=excluded.pages, scale=excluded.scale,
			extracted_at=excluded.extracted_at`,
		doc.ID, doc.Path, doc.Pages, doc.Scale, doc.ExtractedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE document_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("deleting old exercises: %w", err)
	}

	// OR REPLACE rides the UNIQUE(document_id, file) constraint: a
	// document whose numbering restarts across pages emits the same
	// filename twice, and the later page overwrites the earlier image
	// on disk, so the catalog keeps the later row too.
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO exercises (document_id, page, strategy, number, file, top, bottom, width, height)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, ex := range exercises {
		_, err := stmt.ExecContext(ctx,
			ex.DocumentID, ex.Page, string(ex.Strategy), ex.Number, ex.File,
			ex.Top, ex.Bottom, ex.Width, ex.Height,
		)
		if err != nil {
			return fmt.Errorf("inserting exercise %s: %w", ex.File, err)
		}
	}

	return tx.Commit()
}

// QueryOptions filter catalog queries. Zero values mean no filter.
type QueryOptions struct {
	// Document filters by document ID.
	Document string

	// Strategy filters by segmentation strategy.
	Strategy types.Strategy

	// Limit caps the number of rows returned; 0 means no cap.
	Limit int
}

// Exercises returns catalog rows matching opts, ordered by document,
// page, and vertical position.
func (s *Store) Exercises(ctx context.Context, opts QueryOptions) ([]types.Exercise, error) {
	query := `SELECT document_id, page, strategy, number, file, top, bottom, width, height
		FROM exercises WHERE 1=1`
	var args []any
	if opts.Document != "" {
		query += ` AND document_id = ?`
		args = append(args, opts.Document)
	}
	if opts.Strategy != "" {
		query += ` AND strategy = ?`
		args = append(args, string(opts.Strategy))
	}
	query += ` ORDER BY document_id, page, top`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var exercises []types.Exercise
	for rows.Next() {
		var ex types.Exercise
		var strategy string
		if err := rows.Scan(&ex.DocumentID, &ex.Page, &strategy, &ex.Number,
			&ex.File, &ex.Top, &ex.Bottom, &ex.Width, &ex.Height); err != nil {
			return nil, fmt.Errorf("scanning exercise row: %w", err)
		}
		ex.Strategy = types.Strategy(strategy)
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

// Documents returns all cataloged documents, most recently extracted
// first.
func (s *Store) Documents(ctx context.Context) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, pages, scale, extracted_at FROM documents ORDER BY extracted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var d types.Document
		var extractedAt string
		if err := rows.Scan(&d.ID, &d.Path, &d.Pages, &d.Scale, &extractedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, extractedAt); parseErr == nil {
			d.ExtractedAt = t
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
