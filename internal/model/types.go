package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawListing is a single listing exactly as an adapter saw it. Field names
// are storefront-specific; the normalizer owns the per-source mapping, so
// adding a storefront means adding one mapping, not touching pipeline code.
type RawListing struct {
	Source    Source
	Fields    map[string]string
	FetchedAt time.Time
}

// Money is a monetary value with its currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Offer is the canonical shape of one free-game promotion from one source.
type Offer struct {
	// Title preserves the source's original casing.
	Title  string
	Source Source
	URL    string

	// ClaimDeadline is nil when the promotion is open-ended or the source's
	// expiry text could not be parsed ("unknown end date", not "no end date").
	ClaimDeadline *time.Time
	DiscoveredAt  time.Time

	PriceWas *Money
	PriceNow *Money

	// MatchKey is the normalized title form used for duplicate grouping.
	// Deterministic given Title; source-independent.
	MatchKey string
}

// MergedOffer is one real-world promotion reconciled across sources. The
// embedded Offer is the highest-confidence representative.
type MergedOffer struct {
	Offer

	// Sources is the union of contributing storefronts, in priority order.
	// Never empty.
	Sources []Source

	// AlternateURLs holds contributing URLs other than the representative's,
	// in first-seen order.
	AlternateURLs []string
}

// FailureKind classifies why an adapter failed.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureTransport FailureKind = "transport_error"
	FailureParse     FailureKind = "parse_error"
	FailureUnknown   FailureKind = "unknown"
)

// SourceOutcome records one adapter's result within a run: either a listing
// count or a classified failure.
type SourceOutcome struct {
	OK      bool        `json:"ok"`
	Count   int         `json:"count"`
	Failure FailureKind `json:"failure,omitempty"`
	Err     string      `json:"error,omitempty"`
}

// RunSummary reports what one aggregation run did. Immutable once the
// aggregator returns it.
type RunSummary struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time

	SourceOutcomes map[Source]SourceOutcome

	RawCount        int
	NormalizedCount int
	RejectedCount   int
	MergedCount     int
}

// RunContext carries per-run identity and the clock, constructed once per
// invocation and threaded through every stage. Never a shared singleton.
type RunContext struct {
	RunID     uuid.UUID
	StartedAt time.Time

	// Now supplies timestamps for discovered offers; tests pin it.
	Now func() time.Time
}

// NewRunContext creates a RunContext for a fresh run.
func NewRunContext() RunContext {
	started := time.Now().UTC()
	return RunContext{
		RunID:     uuid.New(),
		StartedAt: started,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}
