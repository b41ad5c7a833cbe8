package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "aging-agent/0.1 (research@example.com)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the bibliographic source adapters.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the number of candidate ids returned per query (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Email is sent to APIs that ask for a contact address (PubMed etiquette).
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
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

// RunConfig holds settings for one collection run.
type RunConfig struct {
	// TargetPapers is the number of papers to process per query (default 50).
	TargetPapers int `json:"target_papers" yaml:"target_papers"`

	// MaxCostUSD is the spend ceiling for the run (default 100).
	MaxCostUSD float64 `json:"max_cost_usd" yaml:"max_cost_usd"`

	// CostPerPaper is the flat per-paper charge used for cost accounting
	// (default 0.04). Not derived from actual token usage.
	CostPerPaper float64 `json:"cost_per_paper" yaml:"cost_per_paper"`

	// PaperDelay is the blocking delay between papers to respect upstream
	// rate limits (default 500ms).
	PaperDelay time.Duration `json:"paper_delay" yaml:"paper_delay"`

	// OutputDir is the directory for the run's CSV tables (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// WithDefaults returns a copy with zero-valued fields filled in.
func (c RunConfig) WithDefaults() RunConfig {
	if c.TargetPapers <= 0 {
		c.TargetPapers = 50
	}
	if c.MaxCostUSD <= 0 {
		c.MaxCostUSD = 100
	}
	if c.CostPerPaper <= 0 {
		c.CostPerPaper = 0.04
	}
	if c.PaperDelay <= 0 {
		c.PaperDelay = 500 * time.Millisecond
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	return c
}

// AggregateConfig holds settings for the aggregation step.
type AggregateConfig struct {
	// Root is the directory scanned recursively for per-run CSV exports;
	// canonical aggregates are written back to it (default ".").
	Root string `json:"root" yaml:"root"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Run       RunConfig       `json:"run" yaml:"run"`
	Aggregate AggregateConfig `json:"aggregate" yaml:"aggregate"`
}
