// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AbstractTitle is the title of the pseudo-section that collects text
// appearing before the first heading.
const AbstractTitle = "Abstract"

// Section is a heading-delimited span of the converted markdown.
type Section struct {
	Title string `json:"title" yaml:"title"`

	// Level is the number of leading '#' characters on the heading line.
	// Zero for the leading Abstract pseudo-section.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	Content string `json:"content" yaml:"content"`
}

// Figure is a figure caption found in the markdown text.
type Figure struct {
	// Number is the figure number as written (e.g. "3").
	Number  string `json:"number" yaml:"number"`
	Caption string `json:"caption" yaml:"caption"`
}

// ExtractionResult is the outcome of one extraction run. Markdown is
// persisted separately as content.md and excluded from extraction.json.
type ExtractionResult struct {
	ArxivID    string        `json:"arxiv_id" yaml:"arxiv_id"`
	Metadata   PaperMetadata `json:"metadata" yaml:"metadata"`
	Markdown   string        `json:"-" yaml:"-"`
	Sections   []Section     `json:"sections" yaml:"sections"`
	Tables     []string      `json:"tables" yaml:"tables"`
	Figures    []Figure      `json:"figures" yaml:"figures"`
	ImagePaths []string      `json:"image_paths" yaml:"image_paths"`
	PDFPath    string        `json:"pdf_path" yaml:"pdf_path"`
	OutputDir  string        `json:"output_dir" yaml:"output_dir"`
}
