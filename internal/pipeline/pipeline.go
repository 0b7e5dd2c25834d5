// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one extraction end to end: resolve the identifier,
// fetch metadata, download the PDF, convert it, extract structure, save
// pictures and persist the result.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/arxiv-extract/internal/acquire"
	"github.com/pdiddy/arxiv-extract/internal/convert"
	"github.com/pdiddy/arxiv-extract/internal/extract"
	"github.com/pdiddy/arxiv-extract/internal/persist"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// MetadataFetcher looks up a paper's bibliographic record.
type MetadataFetcher interface {
	Fetch(ctx context.Context, id types.Identifier) (*types.PaperMetadata, error)
}

// PDFFetcher downloads a PDF to a local path.
type PDFFetcher interface {
	Download(ctx context.Context, url, destPath string) (int64, error)
}

// Converter renders a PDF into markdown and pictures.
type Converter interface {
	Name() string
	Convert(ctx context.Context, pdfPath string) (*convert.Document, error)
}

// Indexer records a finished extraction.
type Indexer interface {
	Add(ctx context.Context, result *types.ExtractionResult) error
}

// Pipeline wires the stages together. Index is optional.
type Pipeline struct {
	Metadata  MetadataFetcher
	PDFs      PDFFetcher
	Converter Converter
	Index     Indexer

	// Out receives progress and warning lines.
	Out io.Writer
}

// New builds a Pipeline that talks to arXiv through client using the HTTP
// settings in cfg.
func New(client *http.Client, cfg types.HTTPConfig, conv Converter, out io.Writer) *Pipeline {
	if client == nil {
		client = http.DefaultClient
	}
	return &Pipeline{
		Metadata:  &acquire.MetadataClient{Client: client, UserAgent: cfg.UserAgent},
		PDFs:      &acquire.Downloader{Client: client, UserAgent: cfg.UserAgent, Timeout: cfg.DownloadTimeout},
		Converter: conv,
		Out:       out,
	}
}

// Run extracts the paper named by input. Any stage failure ends the run
// before extraction.json or content.md is written; per-picture failures
// and indexing failures are reported as warnings only.
func (p *Pipeline) Run(ctx context.Context, input string, cfg types.ExtractConfig) (*types.ExtractionResult, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	id, err := acquire.Resolve(input)
	if err != nil {
		return nil, err
	}

	base := cfg.OutputDir
	if base == "" {
		base = types.DefaultOutputDir
	}
	dir, err := persist.OutputDir(base, id)
	if err != nil {
		return nil, err
	}

	meta, err := p.Metadata.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	// The metadata link names the latest version; the resolved URL keeps
	// the version that was asked for.
	pdfURL := id.PDFURL
	pdfPath := persist.PDFPath(dir, id)
	fmt.Fprintf(out, "Downloading PDF from %s...\n", pdfURL)
	if _, err := p.PDFs.Download(ctx, pdfURL, pdfPath); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", pdfURL, err)
	}

	fmt.Fprintf(out, "Extracting content with %s...\n", p.Converter.Name())
	doc, err := p.Converter.Convert(ctx, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("converting with %s: %w", p.Converter.Name(), err)
	}
	if doc.PictureErr != nil {
		fmt.Fprintf(out, "warning: %v\n", doc.PictureErr)
	}

	structured := extract.Structure(doc.Markdown)
	images := SaveImages(doc, dir, out)

	result := &types.ExtractionResult{
		ArxivID:    id.ID,
		Metadata:   *meta,
		Markdown:   doc.Markdown,
		Sections:   structured.Sections,
		Tables:     structured.Tables,
		Figures:    structured.Figures,
		ImagePaths: images,
		PDFPath:    pdfPath,
		OutputDir:  dir,
	}
	if err := persist.WriteResult(result); err != nil {
		return nil, err
	}

	if cfg.WriteHTML {
		if _, err := persist.WriteHTML(dir, meta.Title, doc.Markdown); err != nil {
			fmt.Fprintf(out, "warning: %v\n", err)
		}
	}

	if cfg.Index && p.Index != nil {
		if err := p.Index.Add(ctx, result); err != nil {
			fmt.Fprintf(out, "warning: indexing %s: %v\n", id.ID, err)
		}
	}

	fmt.Fprintf(out, "Extraction complete. Output saved to %s\n", dir)
	return result, nil
}
