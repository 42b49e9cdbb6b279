package collector

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/gamedeals/freegames/internal/adapter"
	"github.com/gamedeals/freegames/internal/model"
)

// Config holds collector settings.
type Config struct {
	// AdapterTimeout bounds a single adapter's fetch (default: 15s).
	AdapterTimeout time.Duration

	// Concurrency caps how many adapters fetch at once (default: 3).
	Concurrency int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		AdapterTimeout: 15 * time.Second,
		Concurrency:    3,
	}
}

// Collector fans out over a set of adapters.
type Collector struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Collector.
func New(cfg Config, logger *slog.Logger) *Collector {
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = DefaultConfig().AdapterTimeout
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{cfg: cfg, logger: logger}
}

// slot holds one adapter's result. Each goroutine writes only its own slot;
// merging happens after the wait, so no locking is needed.
type slot struct {
	listings []model.RawListing
	outcome  model.SourceOutcome
}

// Collect invokes every adapter concurrently and returns the gathered
// listings (in adapter order, so output is independent of completion
// timing) plus a per-source outcome map. All adapters failing is a
// reportable result, not an error.
func (c *Collector) Collect(ctx context.Context, adapters []adapter.SourceAdapter) ([]model.RawListing, map[model.Source]model.SourceOutcome) {
	start := time.Now()

	slots := make([]slot, len(adapters))
	sem := semaphore.NewWeighted(int64(c.cfg.Concurrency))
	var wg sync.WaitGroup

	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a adapter.SourceAdapter) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				slots[i].outcome = failureOutcome(err)
				return
			}
			defer sem.Release(1)

			slots[i] = c.fetchOne(ctx, a)
		}(i, a)
	}

	wg.Wait()

	var listings []model.RawListing
	outcomes := make(map[model.Source]model.SourceOutcome, len(adapters))
	failed := 0

	for i, a := range adapters {
		listings = append(listings, slots[i].listings...)
		outcomes[a.Source()] = slots[i].outcome
		if !slots[i].outcome.OK {
			failed++
		}
	}

	c.logger.Info("collection complete",
		"sources", len(adapters),
		"failed", failed,
		"listings", len(listings),
		"duration", time.Since(start),
	)

	return listings, outcomes
}

// fetchOne runs a single adapter under its own timeout. A timed-out or
// failed adapter never affects its siblings.
func (c *Collector) fetchOne(ctx context.Context, a adapter.SourceAdapter) slot {
	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.AdapterTimeout)
	defer cancel()

	listings, err := a.Fetch(fetchCtx)
	if err != nil {
		c.logger.Warn("source failed",
			"source", a.Source(),
			"err", err,
		)
		return slot{outcome: failureOutcome(err)}
	}

	c.logger.Debug("source fetched",
		"source", a.Source(),
		"listings", len(listings),
	)
	return slot{
		listings: listings,
		outcome:  model.SourceOutcome{OK: true, Count: len(listings)},
	}
}

// failureOutcome classifies an adapter error into the failure taxonomy.
func failureOutcome(err error) model.SourceOutcome {
	return model.SourceOutcome{
		Failure: classify(err),
		Err:     err.Error(),
	}
}

func classify(err error) model.FailureKind {
	var transportErr *adapter.TransportError
	var parseErr *adapter.ParseError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return model.FailureTimeout
	case errors.As(err, &transportErr):
		return model.FailureTransport
	case errors.As(err, &parseErr):
		return model.FailureParse
	default:
		return model.FailureUnknown
	}
}
