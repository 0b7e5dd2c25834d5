// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-extract/internal/convert"
	"github.com/pdiddy/arxiv-extract/internal/index"
	"github.com/pdiddy/arxiv-extract/internal/pipeline"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// summaryAuthors is how many authors the summary lists.
const summaryAuthors = 5

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := extractConfig(args)

	conv, err := convert.New(ctx, cfg.ConversionConfig)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := pipeline.New(&http.Client{}, cfg.HTTPConfig, conv, out)

	if cfg.Index {
		store, err := index.NewStore(indexConfig())
		if err != nil {
			return err
		}
		defer store.Close()
		p.Index = store
	}

	result, err := p.Run(ctx, args[0], cfg)
	if err != nil {
		return err
	}

	printSummary(out, result)
	return nil
}

// extractConfig merges positional arguments with flags, environment and
// config file values resolved by viper.
func extractConfig(args []string) types.ExtractConfig {
	outputDir := types.DefaultOutputDir
	if len(args) > 1 {
		outputDir = args[1]
	}

	userAgent := viper.GetString("user-agent")
	if userAgent == "" {
		userAgent = types.DefaultUserAgent
	}

	return types.ExtractConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgent:       loadedSecrets.UserAgent(userAgent),
			DownloadTimeout: viper.GetDuration("timeout"),
		},
		ConversionConfig: types.ConversionConfig{
			Backend:         types.ConversionBackend(strings.ToLower(viper.GetString("backend"))),
			MarkitdownImage: viper.GetString("markitdown-image"),
			DoclingBin:      viper.GetString("docling-bin"),
		},
		OutputDir: outputDir,
		WriteHTML: viper.GetBool("html"),
		Index:     viper.GetBool("index"),
	}
}

// printSummary writes the post-run summary block.
func printSummary(w io.Writer, r *types.ExtractionResult) {
	label := color.New(color.Bold).SprintFunc()

	authors := r.Metadata.Authors
	if len(authors) > summaryAuthors {
		authors = authors[:summaryAuthors]
	}

	fmt.Fprintf(w, "\n%s %s\n", label("Title:"), r.Metadata.Title)
	fmt.Fprintf(w, "%s %s...\n", label("Authors:"), strings.Join(authors, ", "))
	fmt.Fprintf(w, "%s %d\n", label("Sections:"), len(r.Sections))
	fmt.Fprintf(w, "%s %d\n", label("Tables:"), len(r.Tables))
	fmt.Fprintf(w, "%s %d\n", label("Figures:"), len(r.Figures))
	fmt.Fprintf(w, "%s %d\n", label("Images saved:"), len(r.ImagePaths))
}
