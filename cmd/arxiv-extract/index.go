// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-extract/internal/index"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the local extraction index (add, search, export)",
	Long: `Index keeps a local SQLite catalog of extraction results so sections and
figure captions can be searched across papers.`,
}

// --- add subcommand ---

var indexAddCmd = &cobra.Command{
	Use:   "add [output_dir]",
	Short: "Index every extraction under an output directory",
	Long: `Add reads <output_dir>/*/extraction.json and records each paper in the
index. Unchanged results are skipped on subsequent runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndexAdd,
}

func runIndexAdd(cmd *cobra.Command, args []string) error {
	dir := types.DefaultOutputDir
	if len(args) > 0 {
		dir = args[0]
	}

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.AddDir(cmd.Context(), dir, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d extraction(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed sections by title or content",
	RunE:  runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	paperID, _ := cmd.Flags().GetString("paper")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := index.SearchOptions{
		Query:      strings.Join(args, " "),
		PaperID:    paperID,
		MaxResults: limit,
	}
	if opts.Query == "" && opts.PaperID == "" {
		return fmt.Errorf("query or filter required: provide a search query or --paper")
	}

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []index.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-16s  %-30s  %s\n", "Paper", "Section", "Content")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range results {
		fmt.Fprintf(w, "%-16s  %-30s  %s\n",
			truncate(r.PaperID, 16), truncate(r.Title, 30), truncate(oneLine(r.Content), 50))
	}
	fmt.Fprintf(w, "\n%d result(s)\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := index.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context())
	case "json":
		path, err = store.ExportJSON(cmd.Context())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		Dir:        viper.GetString("index-dir"),
		MaxResults: viper.GetInt("max-results"),
	}
}

func init() {
	indexCmd.PersistentFlags().Int("max-results", types.DefaultMaxResults, "default number of search results")
	_ = viper.BindPFlag("max-results", indexCmd.PersistentFlags().Lookup("max-results"))

	indexSearchCmd.Flags().String("paper", "", "filter by arXiv ID")
	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	indexCmd.AddCommand(indexAddCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
