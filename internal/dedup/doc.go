// Package dedup reconciles offers that describe the same promotion across
// storefronts.
//
// Offers join a group when their match keys are equal or close enough under
// normalized edit distance. Grouping is greedy over the input order and a
// group keeps its first member's key, so the result is deterministic for a
// given input ordering. Comparison is pairwise against existing groups,
// which is quadratic in the worst case; fine at free-game scale (tens of
// offers per run).
package dedup
