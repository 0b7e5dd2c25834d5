package types

import "time"

const (
	// DefaultOutputDir is the base directory for per-paper output.
	DefaultOutputDir = "output"

	// DefaultDownloadTimeout bounds the PDF download.
	DefaultDownloadTimeout = 60 * time.Second

	// DefaultUserAgent is sent with every arXiv request.
	DefaultUserAgent = "arxiv-extract/0.1"

	// DefaultMarkitdownImage is the container image for the markitdown backend.
	DefaultMarkitdownImage = "markitdown:latest"

	// DefaultDoclingBin is the executable for the docling backend.
	DefaultDoclingBin = "docling"

	// DefaultIndexDir holds the local extraction index.
	DefaultIndexDir = "output/.index"

	// DefaultMaxResults is the default index search limit.
	DefaultMaxResults = 20
)

// HTTPConfig holds settings for requests to arXiv.
type HTTPConfig struct {
	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-extract/0.1 (mailto:me@example.com)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// DownloadTimeout bounds the PDF download. Metadata lookups are not bounded.
	DownloadTimeout time.Duration `json:"download_timeout" yaml:"download_timeout"`
}

// ConversionBackend identifies the tool that renders a PDF as markdown.
type ConversionBackend string

const (
	BackendNative     ConversionBackend = "native"
	BackendMarkitdown ConversionBackend = "markitdown"
	BackendDocling    ConversionBackend = "docling"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the conversion tool: native, markitdown, or docling.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// MarkitdownImage is the container image used by the markitdown backend.
	MarkitdownImage string `json:"markitdown_image" yaml:"markitdown_image"`

	// DoclingBin is the docling executable used by the docling backend.
	DoclingBin string `json:"docling_bin" yaml:"docling_bin"`
}

// IndexConfig holds settings for the local extraction index.
type IndexConfig struct {
	// Dir holds extractions.db and export files.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default search limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ExtractConfig groups the settings for one extraction run.
type ExtractConfig struct {
	HTTPConfig       `yaml:",inline"`
	ConversionConfig `yaml:",inline"`

	// OutputDir is the base directory; each paper gets a subdirectory.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// WriteHTML renders content.html next to content.md.
	WriteHTML bool `json:"write_html" yaml:"write_html"`

	// Index records the result in the local index after persistence.
	Index bool `json:"index" yaml:"index"`
}
