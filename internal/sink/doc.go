// Package sink persists a finished run. Three sinks share one document
// shape: JSON and CSV files on disk, and an optional PostgreSQL sink that
// batch-inserts with ON CONFLICT DO NOTHING so re-running a day's
// aggregation never duplicates rows.
package sink
