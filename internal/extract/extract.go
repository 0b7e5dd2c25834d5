// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns converted markdown into sections, table blocks and
// figure captions. Each pass is a pure function of the input text: it never
// fails, and malformed or empty input yields empty output.
package extract

import (
	"strings"

	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// Structured holds the output of all three passes over one document.
type Structured struct {
	Sections []types.Section
	Tables   []string
	Figures  []types.Figure
}

// Structure runs the section, table and figure passes over markdown. The
// passes are independent: a line can belong to a section, a table and a
// figure caption at the same time.
func Structure(markdown string) Structured {
	return Structured{
		Sections: Sections(markdown),
		Tables:   Tables(markdown),
		Figures:  Figures(markdown),
	}
}

// splitLines splits text on "\n". A trailing newline terminates the last
// line rather than starting an empty one.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
