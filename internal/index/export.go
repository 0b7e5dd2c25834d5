// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// ExportPaper is one indexed paper with its sections, tables and figures.
type ExportPaper struct {
	ID              string          `json:"id" yaml:"id"`
	Title           string          `json:"title" yaml:"title"`
	Authors         []string        `json:"authors" yaml:"authors"`
	Published       string          `json:"published,omitempty" yaml:"published,omitempty"`
	PrimaryCategory string          `json:"primary_category,omitempty" yaml:"primary_category,omitempty"`
	Summary         string          `json:"summary,omitempty" yaml:"summary,omitempty"`
	OutputDir       string          `json:"output_dir" yaml:"output_dir"`
	RunID           string          `json:"run_id" yaml:"run_id"`
	IndexedAt       string          `json:"indexed_at" yaml:"indexed_at"`
	Sections        []types.Section `json:"sections" yaml:"sections"`
	Tables          []string        `json:"tables" yaml:"tables"`
	Figures         []types.Figure  `json:"figures" yaml:"figures"`
}

// ExportYAML writes every indexed paper to <dir>/export.yaml and returns
// the path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	papers, err := s.Papers(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(papers)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes every indexed paper to <dir>/export.json and returns
// the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	papers, err := s.Papers(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Papers returns every indexed paper ordered by ID, with its children.
func (s *Store) Papers(ctx context.Context) ([]ExportPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, published, primary_category, summary, output_dir, run_id, indexed_at
		FROM papers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}

	papers := []ExportPaper{}
	for rows.Next() {
		var (
			p                                      ExportPaper
			authorsJSON, published, category, summ sql.NullString
			outputDir                              sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &authorsJSON, &published, &category, &summ, &outputDir, &p.RunID, &p.IndexedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if authorsJSON.Valid {
			if err := json.Unmarshal([]byte(authorsJSON.String), &p.Authors); err != nil {
				rows.Close()
				return nil, fmt.Errorf("decoding authors of %s: %w", p.ID, err)
			}
		}
		p.Published = published.String
		p.PrimaryCategory = category.String
		p.Summary = summ.String
		p.OutputDir = outputDir.String
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range papers {
		if err := s.loadChildren(ctx, &papers[i]); err != nil {
			return nil, err
		}
	}
	return papers, nil
}

func (s *Store) loadChildren(ctx context.Context, p *ExportPaper) error {
	p.Sections = []types.Section{}
	p.Tables = []string{}
	p.Figures = []types.Figure{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT title, level, content FROM sections WHERE paper_id = ? ORDER BY ord`, p.ID)
	if err != nil {
		return fmt.Errorf("querying sections of %s: %w", p.ID, err)
	}
	for rows.Next() {
		var sec types.Section
		if err := rows.Scan(&sec.Title, &sec.Level, &sec.Content); err != nil {
			rows.Close()
			return fmt.Errorf("scanning section: %w", err)
		}
		p.Sections = append(p.Sections, sec)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT body FROM tables WHERE paper_id = ? ORDER BY ord`, p.ID)
	if err != nil {
		return fmt.Errorf("querying tables of %s: %w", p.ID, err)
	}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			rows.Close()
			return fmt.Errorf("scanning table: %w", err)
		}
		p.Tables = append(p.Tables, body)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT number, caption FROM figures WHERE paper_id = ? ORDER BY ord`, p.ID)
	if err != nil {
		return fmt.Errorf("querying figures of %s: %w", p.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var fig types.Figure
		if err := rows.Scan(&fig.Number, &fig.Caption); err != nil {
			return fmt.Errorf("scanning figure: %w", err)
		}
		p.Figures = append(p.Figures, fig)
	}
	return rows.Err()
}
