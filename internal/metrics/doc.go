// Package metrics provides lock-free counters for gymauth observability.
//
// Counters are incremented atomically and are allocation-free on the write
// path. Metric export (Prometheus, OTel) lives in metrics/export/ and reads
// Snapshot values.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import gymauth or any sibling package.
//   - Expose global metric registries.
package metrics
