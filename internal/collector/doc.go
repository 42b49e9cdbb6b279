// Package collector runs every configured storefront adapter concurrently
// and gathers their raw listings into one batch.
//
// Failure isolation is the whole point: each adapter gets its own timeout
// and its own result slot, and no adapter's failure or slowness blocks or
// aborts a sibling. Failures are classified and reported as data, never
// propagated as errors; a run where every adapter fails still returns a
// valid (empty) batch.
package collector
