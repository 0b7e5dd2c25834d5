// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-extract/internal/index"
	"github.com/pdiddy/arxiv-extract/internal/secrets"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	r := &types.ExtractionResult{
		Metadata: types.PaperMetadata{
			Title:   "A Paper",
			Authors: []string{"A", "B", "C", "D", "E", "F", "G"},
		},
		Sections:   make([]types.Section, 4),
		Tables:     []string{"t"},
		Figures:    []types.Figure{{}, {}},
		ImagePaths: []string{},
	}

	var buf bytes.Buffer
	printSummary(&buf, r)

	want := "\nTitle: A Paper\n" +
		"Authors: A, B, C, D, E...\n" +
		"Sections: 4\n" +
		"Tables: 1\n" +
		"Figures: 2\n" +
		"Images saved: 0\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintSummaryFewAuthors(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printSummary(&buf, &types.ExtractionResult{Metadata: types.PaperMetadata{Authors: []string{"Solo"}}})
	assert.Contains(t, buf.String(), "Authors: Solo...\n")
}

func TestExtractConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Cleanup(func() { loadedSecrets = nil })

	viper.Set("backend", "Docling")
	viper.Set("timeout", 90*time.Second)
	viper.Set("user-agent", "bot/1.0")
	viper.Set("html", true)
	loadedSecrets = secrets.Secrets{secrets.KeyContactEmail: "me@example.org"}

	cfg := extractConfig([]string{"2301.07041", "papers"})
	assert.Equal(t, types.BackendDocling, cfg.Backend)
	assert.Equal(t, 90*time.Second, cfg.DownloadTimeout)
	assert.Equal(t, "bot/1.0 (mailto:me@example.org)", cfg.UserAgent)
	assert.Equal(t, "papers", cfg.OutputDir)
	assert.True(t, cfg.WriteHTML)
	assert.False(t, cfg.Index)

	viper.Reset()
	loadedSecrets = nil
	cfg = extractConfig([]string{"2301.07041"})
	assert.Equal(t, types.DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, types.DefaultUserAgent, cfg.UserAgent)
}

func TestFormatSearchOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatSearchOutput(&buf, nil, false))
	assert.Equal(t, "No results found.\n", buf.String())

	results := []index.SearchResult{{
		PaperID: "2301.07041",
		Title:   "A section title that is much longer than thirty runes",
		Content: "line one\nline two",
	}}

	buf.Reset()
	require.NoError(t, formatSearchOutput(&buf, results, false))
	out := buf.String()
	assert.Contains(t, out, "2301.07041")
	assert.Contains(t, out, "A section title that is muc...")
	assert.Contains(t, out, "line one line two")
	assert.Contains(t, out, "1 result(s)")

	buf.Reset()
	require.NoError(t, formatSearchOutput(&buf, results, true))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {\n    \"paper_id\": \"2301.07041\""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}

func TestRootArgs(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, nil))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"2301.07041"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"2301.07041", "out"}))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"a", "b", "c"}))
}
