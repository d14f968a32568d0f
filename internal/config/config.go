// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env vars on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to the JSON handler.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// KnowledgePath points at an external knowledge-base YAML file. Empty
	// means the embedded baseline dataset.
	KnowledgePath string `koanf:"knowledge_path"`

	// KnowledgeWatch enables hot reload of the knowledge-base file.
	KnowledgeWatch bool `koanf:"knowledge_watch"`

	// ReportCacheSize bounds the per-process report cache. Zero disables it.
	ReportCacheSize int `koanf:"report_cache_size"`

	// BatchConcurrency bounds parallel snapshot scoring in batch requests.
	BatchConcurrency int `koanf:"batch_concurrency"`

	// MaxBatchSize caps POST /v1/reports/batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// SampleSaturation is the benchmark sample size above which the
	// confidence sample sub-score saturates.
	SampleSaturation float64 `koanf:"sample_saturation"`

	// RecencyHalfLifeDays is the benchmark age at which the confidence
	// recency sub-score halves.
	RecencyHalfLifeDays int `koanf:"recency_half_life_days"`

	// SourceTrust maps benchmark source labels to trust weights in [0,1].
	SourceTrust map[string]float64 `koanf:"source_trust"`

	// DefaultSourceTrust is used for unlisted sources.
	DefaultSourceTrust float64 `koanf:"default_source_trust"`
}

// New returns the configuration defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		KnowledgePath:       "",
		KnowledgeWatch:      true,
		ReportCacheSize:     10_000,
		BatchConcurrency:    8,
		MaxBatchSize:        100,
		SampleSaturation:    200,
		RecencyHalfLifeDays: 365,
		SourceTrust: map[string]float64{
			"aggregate_panel": 0.9,
			"saas_benchmarks": 0.85,
		},
		DefaultSourceTrust: 0.7,
	}
}

// RecencyHalfLife converts the configured days to a duration.
func (c *Config) RecencyHalfLife() time.Duration {
	return time.Duration(c.RecencyHalfLifeDays) * 24 * time.Hour
}
