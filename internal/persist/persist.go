// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persist writes an extraction's artifacts into its per-paper
// output directory.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/pdiddy/arxiv-extract/pkg/types"
)

const (
	// ResultFile holds the JSON form of an ExtractionResult.
	ResultFile = "extraction.json"

	// MarkdownFile holds the converted markdown verbatim.
	MarkdownFile = "content.md"

	// HTMLFile holds the optional HTML rendering of MarkdownFile.
	HTMLFile = "content.html"
)

// OutputDir returns <base>/<safe_id>, creating it and its parents. Calling
// it again for the same ID is a no-op.
func OutputDir(base string, id types.Identifier) (string, error) {
	dir := filepath.Join(base, id.SafeID())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return dir, nil
}

// PDFPath is where the downloaded PDF lives inside dir.
func PDFPath(dir string, id types.Identifier) string {
	return filepath.Join(dir, id.SafeID()+".pdf")
}

// WriteResult writes extraction.json and content.md into result.OutputDir.
// The JSON carries every field except the markdown, indented by two spaces.
// Every schema key is present: lists are written as [] and absent optional
// values as null.
func WriteResult(result *types.ExtractionResult) error {
	doc := *result
	doc.Metadata.Normalize()
	if doc.Sections == nil {
		doc.Sections = []types.Section{}
	}
	if doc.Tables == nil {
		doc.Tables = []string{}
	}
	if doc.Figures == nil {
		doc.Figures = []types.Figure{}
	}
	if doc.ImagePaths == nil {
		doc.ImagePaths = []string{}
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ResultFile, err)
	}
	data = append(data, '\n')

	if err := writeFile(filepath.Join(result.OutputDir, ResultFile), data); err != nil {
		return err
	}
	return writeFile(filepath.Join(result.OutputDir, MarkdownFile), []byte(result.Markdown))
}

// ReadResult loads an extraction.json. The markdown is read back from the
// sibling content.md when present.
func ReadResult(path string) (*types.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var result types.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if md, err := os.ReadFile(filepath.Join(filepath.Dir(path), MarkdownFile)); err == nil {
		result.Markdown = string(md)
	}
	return &result, nil
}

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// WriteHTML renders markdown (with GFM tables) into dir/content.html and
// returns the file path.
func WriteHTML(dir, title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	path := filepath.Join(dir, HTMLFile)
	if err := writeFile(path, page.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
