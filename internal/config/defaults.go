package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLogLevel            = "info"
	DefaultAdapterTimeout      = 15 * time.Second
	DefaultConcurrency         = 3
	DefaultSimilarityThreshold = 0.85
	DefaultOutputDir           = "output"
	DefaultDBPort              = 5432
	DefaultDBSSLMode           = "prefer"
	DefaultMaxConns            = 4
	DefaultMinConns            = 1
)

// DefaultSources lists the adapters enabled when the config names none.
var DefaultSources = []string{"epic", "steam", "gog", "itchio", "ubisoft", "amazon"}

// DefaultSourcePriority is the representative tie-break order, highest first.
var DefaultSourcePriority = []string{"epic", "steam", "gog", "itchio", "ubisoft", "amazon", "microsoft"}

// Default returns a fully-populated configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if len(c.Sources.Enabled) == 0 {
		c.Sources.Enabled = append([]string(nil), DefaultSources...)
	}

	if c.Collector.AdapterTimeout == 0 {
		c.Collector.AdapterTimeout = DefaultAdapterTimeout
	}
	if c.Collector.Concurrency == 0 {
		c.Collector.Concurrency = DefaultConcurrency
	}

	if c.Dedup.SimilarityThreshold == 0 {
		c.Dedup.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if len(c.Dedup.SourcePriority) == 0 {
		c.Dedup.SourcePriority = append([]string(nil), DefaultSourcePriority...)
	}

	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
		// File sinks default on only when output was left unconfigured,
		// matching a bare `aggregator` invocation writing JSON and CSV.
		c.Output.JSON = true
		c.Output.CSV = true
	}

	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}
}
