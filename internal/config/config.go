package config

import "time"

// Config is the root configuration for an aggregator run.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Sources   SourcesConfig   `yaml:"sources"`
	Collector CollectorConfig `yaml:"collector"`
	Dedup     DedupConfig     `yaml:"dedup"`
	Output    OutputConfig    `yaml:"output"`
	Database  DatabaseConfig  `yaml:"database"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SourcesConfig selects which storefront adapters run.
type SourcesConfig struct {
	Enabled []string `yaml:"enabled"`
}

// CollectorConfig holds fan-out settings for the collection stage.
type CollectorConfig struct {
	// AdapterTimeout bounds a single adapter's fetch. The collector, not
	// the adapter, owns timeout enforcement.
	AdapterTimeout time.Duration `yaml:"adapter_timeout"`
	Concurrency    int           `yaml:"concurrency"`
}

// DedupConfig holds duplicate-matching policy.
type DedupConfig struct {
	// SimilarityThreshold is the normalized edit-distance similarity at or
	// above which two titles merge. Range (0, 1].
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// SourcePriority breaks representative-pick ties, highest first.
	SourcePriority []string `yaml:"source_priority"`
}

// OutputConfig holds file sink settings.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	JSON bool   `yaml:"json"`
	CSV  bool   `yaml:"csv"`
}

// DatabaseConfig holds the optional PostgreSQL sink connection.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}
