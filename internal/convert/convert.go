// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert renders a PDF as markdown text plus its embedded pictures.
// Text rendering is delegated to a pluggable backend (native, markitdown,
// docling); pictures come from a separate PictureSource.
package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/arxiv-extract/internal/container"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// Converter transforms a PDF file into Markdown text. Different backends
// (native, markitdown, docling) implement this interface.
type Converter interface {
	// Name identifies the backend in progress output.
	Name() string

	// Convert reads a PDF at pdfPath and returns the Markdown content.
	Convert(ctx context.Context, pdfPath string) (string, error)
}

// PictureSource lists the pictures embedded in a PDF.
type PictureSource interface {
	Pictures(ctx context.Context, pdfPath string) (PictureSet, error)
}

// Document is a converted PDF.
type Document struct {
	PDFPath  string
	Markdown string
	Pictures PictureSet

	// PictureErr is set when pictures could not be listed. The markdown is
	// still usable; callers report it and carry on without pictures.
	PictureErr error
}

// DocumentConverter pairs a text backend with a picture source.
type DocumentConverter struct {
	Text   Converter
	Images PictureSource
}

// Name returns the text backend's name.
func (d *DocumentConverter) Name() string {
	return d.Text.Name()
}

// Convert renders pdfPath. A text backend failure is returned as is; a
// picture failure is recorded on the Document instead.
func (d *DocumentConverter) Convert(ctx context.Context, pdfPath string) (*Document, error) {
	md, err := d.Text.Convert(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	doc := &Document{PDFPath: pdfPath, Markdown: md}
	if d.Images == nil {
		return doc, nil
	}

	pics, err := d.Images.Pictures(ctx, pdfPath)
	if err != nil {
		doc.PictureErr = fmt.Errorf("listing pictures in %s: %w", pdfPath, err)
		return doc, nil
	}
	doc.Pictures = pics
	return doc, nil
}

// New builds the DocumentConverter selected by cfg. Pictures always come
// from the PDF itself via pdfcpu. The markitdown backend needs a container
// runtime, which is detected here.
func New(ctx context.Context, cfg types.ConversionConfig) (*DocumentConverter, error) {
	text, err := newTextConverter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DocumentConverter{
		Text:   text,
		Images: NewPDFImageSource(),
	}, nil
}

func newTextConverter(ctx context.Context, cfg types.ConversionConfig) (Converter, error) {
	switch cfg.Backend {
	case types.BackendNative, "":
		return &NativeConverter{}, nil
	case types.BackendMarkitdown:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(ctx, rt, cfg.MarkitdownImage)
	case types.BackendDocling:
		return NewDoclingConverter(cfg.DoclingBin)
	default:
		return nil, fmt.Errorf("unsupported conversion backend %q: use native, markitdown, or docling", cfg.Backend)
	}
}
