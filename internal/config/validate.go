package config

import (
	"errors"
	"fmt"

	"github.com/gamedeals/freegames/internal/model"
)

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if len(c.Sources.Enabled) == 0 {
		return errors.New("sources.enabled must name at least one source")
	}
	for _, s := range c.Sources.Enabled {
		if _, err := model.ParseSource(s); err != nil {
			return fmt.Errorf("sources.enabled: %w", err)
		}
	}

	if c.Collector.AdapterTimeout <= 0 {
		return errors.New("collector.adapter_timeout must be positive")
	}
	if c.Collector.Concurrency < 1 {
		return errors.New("collector.concurrency must be >= 1")
	}

	if c.Dedup.SimilarityThreshold <= 0 || c.Dedup.SimilarityThreshold > 1 {
		return fmt.Errorf("dedup.similarity_threshold must be in (0, 1], got %v", c.Dedup.SimilarityThreshold)
	}
	for _, s := range c.Dedup.SourcePriority {
		if _, err := model.ParseSource(s); err != nil {
			return fmt.Errorf("dedup.source_priority: %w", err)
		}
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return errors.New("database.host is required when database.enabled")
		}
		if c.Database.Name == "" {
			return errors.New("database.name is required when database.enabled")
		}
		if c.Database.User == "" {
			return errors.New("database.user is required when database.enabled")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("database.min_conns (%d) cannot exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
		}
	}

	return nil
}
