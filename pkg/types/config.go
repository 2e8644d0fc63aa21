package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "curation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the literature search and fetch stages.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of PMIDs to request (default 30).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExtractionConfig holds settings for the evidence extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	// BatchSize bounds how many abstracts are extracted concurrently
	// (default 5). Peak oracle concurrency is BatchSize x 4 categorical
	// calls, so this is the back-pressure knob against rate limits.
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// ExcerptLimit caps the abstract prefix sent to the oracle, in
	// characters (default 1500). Longer text is truncated, not rejected.
	ExcerptLimit int `json:"excerpt_limit" yaml:"excerpt_limit"`
}

// IndexConfig holds settings for the document store.
type IndexConfig struct {
	// DataDir is the base directory for the index database (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for one curation run.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Index      IndexConfig      `json:"index" yaml:"index"`
}

// Default configuration values shared by the CLI and tests.
const (
	DefaultMaxResults   = 30
	DefaultBatchSize    = 5
	DefaultExcerptLimit = 1500
)

// Normalize fills unset pipeline parameters with their defaults.
func (c *PipelineConfig) Normalize() {
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = DefaultMaxResults
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = 30 * time.Second
	}
	if c.Extraction.BatchSize <= 0 {
		c.Extraction.BatchSize = DefaultBatchSize
	}
	if c.Extraction.ExcerptLimit <= 0 {
		c.Extraction.ExcerptLimit = DefaultExcerptLimit
	}
	if c.Extraction.MaxRetries <= 0 {
		c.Extraction.MaxRetries = 3
	}
}
