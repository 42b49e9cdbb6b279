package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gamedeals/freegames/internal/adapter"
	"github.com/gamedeals/freegames/internal/collector"
	"github.com/gamedeals/freegames/internal/dedup"
	"github.com/gamedeals/freegames/internal/model"
	"github.com/gamedeals/freegames/internal/normalize"
)

// State names the pipeline stage a run is in.
type State string

const (
	StateIdle          State = "idle"
	StateCollecting    State = "collecting"
	StateNormalizing   State = "normalizing"
	StateDeduplicating State = "deduplicating"
	StateDone          State = "done"
)

// Config holds aggregator settings.
type Config struct {
	Collector collector.Config
	Dedup     dedup.Config
}

// Result is one run's output: the merged offers in presentation order plus
// the run summary.
type Result struct {
	Offers  []model.MergedOffer
	Summary model.RunSummary
}

// Aggregator runs the collect/normalize/dedup pipeline over a fixed set of
// adapters. Safe to run repeatedly; each Run gets a fresh RunContext.
type Aggregator struct {
	adapters   []adapter.SourceAdapter
	collector  *collector.Collector
	normalizer *normalize.Normalizer
	dedup      *dedup.Deduplicator
	logger     *slog.Logger

	state atomic.Value // State
}

// New creates an Aggregator over the given adapters.
func New(cfg Config, adapters []adapter.SourceAdapter, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Aggregator{
		adapters:   adapters,
		collector:  collector.New(cfg.Collector, logger),
		normalizer: normalize.New(logger),
		dedup:      dedup.New(cfg.Dedup, logger),
		logger:     logger,
	}
	a.state.Store(StateIdle)
	return a
}

// State reports the current pipeline stage.
func (a *Aggregator) State() State {
	return a.state.Load().(State)
}

// Run executes one aggregation pass.
func (a *Aggregator) Run(ctx context.Context) Result {
	return a.run(ctx, model.NewRunContext())
}

// RunWith executes one pass under a caller-supplied run context. Tests use
// it to pin the run ID and clock.
func (a *Aggregator) RunWith(ctx context.Context, rc model.RunContext) Result {
	return a.run(ctx, rc)
}

func (a *Aggregator) run(ctx context.Context, rc model.RunContext) Result {
	a.logger.Info("run starting",
		"run_id", rc.RunID,
		"sources", len(a.adapters),
	)

	a.state.Store(StateCollecting)
	listings, outcomes := a.collector.Collect(ctx, a.adapters)

	a.state.Store(StateNormalizing)
	normalized := a.normalizer.Normalize(rc, listings)

	a.state.Store(StateDeduplicating)
	merged := a.dedup.Dedup(normalized.Offers)
	sortOffers(merged)

	a.state.Store(StateDone)

	summary := model.RunSummary{
		RunID:           rc.RunID,
		StartedAt:       rc.StartedAt,
		FinishedAt:      rc.Now(),
		SourceOutcomes:  outcomes,
		RawCount:        len(listings),
		NormalizedCount: len(normalized.Offers),
		RejectedCount:   normalized.Rejected,
		MergedCount:     len(merged),
	}

	a.logger.Info("run finished",
		"run_id", rc.RunID,
		"raw", summary.RawCount,
		"offers", summary.NormalizedCount,
		"rejected", summary.RejectedCount,
		"merged", summary.MergedCount,
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)

	return Result{Offers: merged, Summary: summary}
}

// sortOffers orders for presentation: soonest claim deadline first, offers
// with no known deadline last, ties broken by title.
func sortOffers(offers []model.MergedOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		di, dj := offers[i].ClaimDeadline, offers[j].ClaimDeadline
		switch {
		case di != nil && dj != nil && !di.Equal(*dj):
			return di.Before(*dj)
		case (di != nil) != (dj != nil):
			return di != nil
		}
		ti := strings.ToLower(offers[i].Title)
		tj := strings.ToLower(offers[j].Title)
		if ti != tj {
			return ti < tj
		}
		return offers[i].Title < offers[j].Title
	})
}
