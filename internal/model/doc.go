// Package model defines the shared data types used across the free-games
// aggregation pipeline.
//
// Conventions:
//   - Timestamps: time.Time, serialized as ISO 8601 (RFC 3339) by sinks
//   - Money: decimal amount plus ISO currency code, never floats
//   - Optional fields: pointers, serialized as explicit null when absent
package model
