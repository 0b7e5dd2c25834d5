// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps a local SQLite catalog of finished extractions so
// sections and figure captions can be searched across papers.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-extract/internal/persist"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

const dbFile = "extractions.db"

// Store manages the extraction index database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	now        func() time.Time
}

// NewStore opens or creates cfg.Dir/extractions.db and its schema.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = types.DefaultIndexDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        dir,
		maxResults: maxResults,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT,
			published TEXT,
			primary_category TEXT,
			summary TEXT,
			pdf_path TEXT,
			output_dir TEXT,
			run_id TEXT NOT NULL,
			indexed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			paper_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			ord INTEGER NOT NULL,
			title TEXT NOT NULL,
			level INTEGER NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (paper_id, ord)
		)`,
		`CREATE TABLE IF NOT EXISTS figures (
			paper_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			ord INTEGER NOT NULL,
			number TEXT NOT NULL,
			caption TEXT NOT NULL,
			PRIMARY KEY (paper_id, ord)
		)`,
		`CREATE TABLE IF NOT EXISTS tables (
			paper_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			ord INTEGER NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (paper_id, ord)
		)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			paper_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add records result, replacing any earlier rows for the same paper, in a
// single transaction.
func (s *Store) Add(ctx context.Context, result *types.ExtractionResult) error {
	return s.add(ctx, result, uuid.NewString(), "")
}

func (s *Store) add(ctx context.Context, result *types.ExtractionResult, runID, modTime string) error {
	if result.ArxivID == "" {
		return errors.New("extraction result has no arxiv_id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := result.ArxivID
	if _, err := tx.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting old rows: %w", err)
	}

	meta := result.Metadata
	authorsJSON, err := json.Marshal(meta.Authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}
	published := ""
	if !meta.Published.IsZero() {
		published = meta.Published.UTC().Format(time.RFC3339)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, published, primary_category, summary, pdf_path, output_dir, run_id, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, meta.Title, string(authorsJSON), published, meta.PrimaryCategory,
		meta.Summary, result.PDFPath, result.OutputDir, runID,
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting paper: %w", err)
	}

	for i, sec := range result.Sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (paper_id, ord, title, level, content) VALUES (?, ?, ?, ?, ?)`,
			id, i, sec.Title, sec.Level, sec.Content,
		); err != nil {
			return fmt.Errorf("inserting section %d: %w", i, err)
		}
	}
	for i, fig := range result.Figures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO figures (paper_id, ord, number, caption) VALUES (?, ?, ?, ?)`,
			id, i, fig.Number, fig.Caption,
		); err != nil {
			return fmt.Errorf("inserting figure %d: %w", i, err)
		}
	}
	for i, body := range result.Tables {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tables (paper_id, ord, body) VALUES (?, ?, ?)`,
			id, i, body,
		); err != nil {
			return fmt.Errorf("inserting table %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (paper_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		id, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// AddSummary holds counts from an AddDir run.
type AddSummary struct {
	RunID   string
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of extractions processed.
func (s AddSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// AddDir indexes every <dir>/*/extraction.json. Files unchanged since they
// were last indexed are skipped. One line per paper and a summary line are
// written to w; export.yaml is refreshed when anything changed.
func (s *Store) AddDir(ctx context.Context, dir string, w io.Writer) (AddSummary, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*", persist.ResultFile))
	if err != nil {
		return AddSummary{}, fmt.Errorf("listing extractions in %s: %w", dir, err)
	}

	summary := AddSummary{RunID: uuid.NewString()}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := filepath.Base(filepath.Dir(path))
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		result, err := persist.ReadResult(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE paper_id = ?`, result.ArxivID,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", result.ArxivID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		if err := s.add(ctx, result, summary.RunID, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d sections)\n", result.ArxivID, len(result.Sections))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d sections)\n", result.ArxivID, len(result.Sections))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.ExportYAML(ctx); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}
