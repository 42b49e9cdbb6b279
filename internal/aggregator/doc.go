// Package aggregator drives one end-to-end run: collect raw listings from
// every storefront, normalize them into canonical offers, merge duplicates,
// and report a run summary. The aggregator owns stage ordering and the
// final sort; all domain logic lives in the stage packages.
package aggregator
