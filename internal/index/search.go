// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// SearchOptions holds parameters for section search.
type SearchOptions struct {
	// Query is matched case-insensitively against section titles and
	// bodies. Empty matches every section.
	Query string

	// PaperID restricts results to one paper.
	PaperID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// SearchResult is one matching section with its paper's title and authors.
type SearchResult struct {
	PaperID      string   `json:"paper_id" yaml:"paper_id"`
	PaperTitle   string   `json:"paper_title" yaml:"paper_title"`
	PaperAuthors []string `json:"paper_authors" yaml:"paper_authors"`
	Ord          int      `json:"ord" yaml:"ord"`
	Title        string   `json:"title" yaml:"title"`
	Level        int      `json:"level,omitempty" yaml:"level,omitempty"`
	Content      string   `json:"content" yaml:"content"`
}

// likeEscaper escapes LIKE wildcards so the query matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns sections whose title or content contains opts.Query,
// ordered by paper then section order.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT s.paper_id, p.title, p.authors, s.ord, s.title, s.level, s.content
		FROM sections s
		JOIN papers p ON p.id = s.paper_id
		WHERE 1=1`)

	if opts.Query != "" {
		pattern := "%" + likeEscaper.Replace(opts.Query) + "%"
		qb.WriteString(` AND (s.title LIKE ? ESCAPE '\' OR s.content LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if opts.PaperID != "" {
		qb.WriteString(` AND s.paper_id = ?`)
		args = append(args, opts.PaperID)
	}

	qb.WriteString(` ORDER BY s.paper_id, s.ord LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var (
			r           SearchResult
			authorsJSON sql.NullString
		)
		if err := rows.Scan(&r.PaperID, &r.PaperTitle, &authorsJSON, &r.Ord, &r.Title, &r.Level, &r.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if authorsJSON.Valid {
			if err := json.Unmarshal([]byte(authorsJSON.String), &r.PaperAuthors); err != nil {
				return nil, fmt.Errorf("decoding authors of %s: %w", r.PaperID, err)
			}
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
