// Package prometheus renders engine counters in the Prometheus text
// exposition format, without depending on the Prometheus client library.
//
// [PrometheusExporter.Handler] is mounted by the caller; this package
// never opens a listener of its own.
package prometheus
