// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// Identifier is a resolved arXiv paper identifier.
type Identifier struct {
	// ID is the canonical arXiv ID with optional version (e.g. "2301.07041v2").
	ID string `json:"id" yaml:"id"`

	// Input is the URL or bare ID the identifier was resolved from.
	Input string `json:"input" yaml:"input"`

	// PDFURL is the arxiv.org download URL for the paper.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`
}

// BaseID returns the ID with any version suffix removed. The ID is split on
// the literal "v" and the first segment kept.
func (i Identifier) BaseID() string {
	return strings.SplitN(i.ID, "v", 2)[0]
}

// SafeID returns a filesystem-safe form of the ID, used for directory and
// file names.
func (i Identifier) SafeID() string {
	return strings.ReplaceAll(i.ID, "/", "_")
}

// PaperMetadata holds the bibliographic record returned by the arXiv API.
type PaperMetadata struct {
	// Title is the paper title with whitespace runs collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	Published time.Time  `json:"published" yaml:"published"`
	Updated   *time.Time `json:"updated" yaml:"updated,omitempty"`

	// Categories lists every arXiv category the paper is filed under.
	Categories      []string `json:"categories" yaml:"categories"`
	PrimaryCategory string   `json:"primary_category" yaml:"primary_category"`

	PDFURL   string `json:"pdf_url" yaml:"pdf_url"`
	ArxivURL string `json:"arxiv_url" yaml:"arxiv_url"`

	// DOI and Comment are nil when arXiv has none; they are written as null.
	DOI     *string `json:"doi" yaml:"doi,omitempty"`
	Comment *string `json:"comment" yaml:"comment,omitempty"`
}

// Normalize replaces nil author and category lists with empty ones so they
// are written as [] rather than null.
func (m *PaperMetadata) Normalize() {
	if m.Authors == nil {
		m.Authors = []string{}
	}
	if m.Categories == nil {
		m.Categories = []string{}
	}
}
