// Package adapter implements the per-storefront fetchers.
//
// Every adapter satisfies SourceAdapter: one bounded fetch that either
// returns raw listings or fails once. Retry/backoff lives entirely in
// here; the collector sees a single call and owns the timeout via the
// context it passes in.
//
// Raw listings carry storefront-specific field names. Schema knowledge
// for turning them into canonical offers lives in the normalize package.
package adapter
