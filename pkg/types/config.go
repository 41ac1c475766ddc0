// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "geodcat-bridge/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// InsecureSkipVerify disables TLS certificate verification for the
	// source fetch. UNSAFE: anyone on the network path can substitute
	// arbitrary metadata. Never a default; set it only for endpoints whose
	// certificate chain is known-broken and whose content is non-sensitive.
	InsecureSkipVerify bool `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
}

// FetchConfig holds settings for acquiring the source XML document.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// SourceURL is the endpoint serving the ISO 19139 metadata document.
	SourceURL string `json:"xml_url" yaml:"xml_url"`
}

// TransformConfig holds settings for the XSLT transformation stage.
type TransformConfig struct {
	// Stylesheet is a local path or an http(s) URL to the XSLT stylesheet.
	Stylesheet string `json:"xsl_url" yaml:"xsl_url"`

	// CacheDir is the directory where a URL stylesheet is cached after its
	// one-time download (default "cache").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// OutputDir is the directory for run artifacts: input_raw.xml,
	// transformed_output.rdf, and transformation_error.log (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// HistoryConfig holds settings for the run history store.
type HistoryConfig struct {
	// HistoryDir is the directory containing the runs database (default "history").
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxResults is the default maximum number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Transform TransformConfig `json:"transform" yaml:"transform"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}
