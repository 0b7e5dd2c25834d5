// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-extract CLI. The root
// command extracts one paper; index and version are subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-extract/internal/secrets"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd extracts a single paper.
var rootCmd = &cobra.Command{
	Use:   "arxiv-extract <url_or_id> [output_dir]",
	Short: "Download an arXiv paper and extract its structure",
	Long: `arxiv-extract resolves an arXiv URL or ID, fetches the paper's metadata,
downloads the PDF, converts it to Markdown, and extracts sections, tables,
figure captions and embedded images.

Results are written to <output_dir>/<arxiv_id>/ (default output dir: output):
the PDF, extraction.json, content.md and figure_N.png files.`,
	Example: `  arxiv-extract 2301.07041
  arxiv-extract https://arxiv.org/abs/2301.07041v2 papers
  arxiv-extract --backend docling --html 1706.03762`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
			_ = cmd.Usage()
			return err
		}
		return nil
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
	RunE: runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-extract.yaml or ~/.config/arxiv-extract/arxiv-extract.yaml)")
	rootCmd.PersistentFlags().String("index-dir", types.DefaultIndexDir, "directory holding the extraction index")
	_ = viper.BindPFlag("index-dir", rootCmd.PersistentFlags().Lookup("index-dir"))

	flags := rootCmd.Flags()
	flags.String("backend", string(types.BackendNative), "conversion backend: native, markitdown, or docling")
	flags.String("markitdown-image", types.DefaultMarkitdownImage, "container image for the markitdown backend")
	flags.String("docling-bin", types.DefaultDoclingBin, "docling executable for the docling backend")
	flags.Duration("timeout", types.DefaultDownloadTimeout, "PDF download timeout")
	flags.String("user-agent", types.DefaultUserAgent, "User-Agent sent to arXiv")
	flags.Bool("html", false, "also render content.html")
	flags.Bool("index", false, "record the result in the local index")
	for _, name := range []string{"backend", "markitdown-image", "docling-bin", "timeout", "user-agent", "html", "index"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-extract"))
		}
	}

	viper.SetEnvPrefix("ARXIV_EXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
